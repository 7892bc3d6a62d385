package section

// Marks describes the inline annotations applied to a run of text.
// The zero value is plain text. Marks is an immutable value type.
type Marks struct {
	Bold   bool
	Italic bool

	// LinkHref is the link target; empty means the run is not a link.
	LinkHref string

	// LinkID identifies one logical link. Runs created by the same wrap
	// operation share an ID so the whole link can be addressed and removed
	// as a unit. Two distinct links to the same target never merge.
	LinkID string
}

// IsZero returns true if no marks are applied.
func (m Marks) IsZero() bool {
	return !m.Bold && !m.Italic && m.LinkHref == ""
}

// IsLink returns true if the run carries a link mark.
func (m Marks) IsLink() bool {
	return m.LinkHref != ""
}

// Equals returns true if two mark sets are identical.
func (m Marks) Equals(other Marks) bool {
	return m == other
}

// WithoutLink returns a copy with the link mark removed.
func (m Marks) WithoutLink() Marks {
	m.LinkHref = ""
	m.LinkID = ""
	return m
}

// Run is a maximal span of text carrying one mark set.
type Run struct {
	Text  string
	Marks Marks
}

// Len returns the run length in runes.
func (r Run) Len() int {
	return len([]rune(r.Text))
}

// IsEmpty returns true if the run holds no text.
func (r Run) IsEmpty() bool {
	return r.Text == ""
}

// mergeRuns coalesces adjacent runs with equal mark sets and drops empty
// runs. The result is the canonical run form; applying it twice yields the
// same slice.
func mergeRuns(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.IsEmpty() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks.Equals(r.Marks) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// splitRuns splits a run slice at a rune offset, returning the runs before
// and after the split point. Marks are preserved on both sides.
func splitRuns(runs []Run, offset int) (before, after []Run) {
	before = make([]Run, 0, len(runs))
	after = make([]Run, 0, len(runs))

	pos := 0
	for _, r := range runs {
		runes := []rune(r.Text)
		end := pos + len(runes)

		switch {
		case end <= offset:
			before = append(before, r)
		case pos >= offset:
			after = append(after, r)
		default:
			cut := offset - pos
			before = append(before, Run{Text: string(runes[:cut]), Marks: r.Marks})
			after = append(after, Run{Text: string(runes[cut:]), Marks: r.Marks})
		}
		pos = end
	}
	return mergeRuns(before), mergeRuns(after)
}
