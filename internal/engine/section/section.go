package section

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// HeadingLevel identifies the heading state of a TextSection.
type HeadingLevel uint8

const (
	// HeadingNone marks an ordinary text block.
	HeadingNone HeadingLevel = iota
	// HeadingLarge is the top-level heading, permitted only on the first section.
	HeadingLarge
	// HeadingSmall is the secondary heading.
	HeadingSmall
)

// String returns the heading level name.
func (h HeadingLevel) String() string {
	switch h {
	case HeadingNone:
		return "none"
	case HeadingLarge:
		return "large"
	case HeadingSmall:
		return "small"
	default:
		return "unknown"
	}
}

// Section is a block-level unit of the document: either a TextSection or a
// ContainerSection.
type Section interface {
	// SectionID returns the stable identifier of the section.
	SectionID() string

	sealed()
}

// AtomicObject is a non-text unit embeddable in a ContainerSection.
type AtomicObject interface {
	// Kind returns the object kind name ("image" or "rule").
	Kind() string
}

// Image is an embedded image object.
type Image struct {
	Src string
	Alt string
}

// Kind returns "image".
func (Image) Kind() string { return "image" }

// Rule is a horizontal rule object.
type Rule struct{}

// Kind returns "rule".
func (Rule) Kind() string { return "rule" }

// TextSection is an editable block holding rich inline text as mark runs.
type TextSection struct {
	id      string
	heading HeadingLevel
	runs    []Run
}

// NewTextSection creates an empty TextSection with a fresh identifier.
func NewTextSection() *TextSection {
	return &TextSection{id: uuid.New().String()}
}

// NewTextSectionFromRuns creates a TextSection with the given content.
func NewTextSectionFromRuns(runs []Run) *TextSection {
	return &TextSection{id: uuid.New().String(), runs: mergeRuns(runs)}
}

// NewTextSectionFromString creates a TextSection holding plain text.
func NewTextSectionFromString(text string) *TextSection {
	s := NewTextSection()
	if text != "" {
		s.runs = []Run{{Text: text}}
	}
	return s
}

// SectionID returns the section identifier.
func (s *TextSection) SectionID() string { return s.id }

func (*TextSection) sealed() {}

// Heading returns the section's heading level.
func (s *TextSection) Heading() HeadingLevel { return s.heading }

// SetHeading sets the heading level. Entering a heading state strips all
// marks: headings hold plain text only.
func (s *TextSection) SetHeading(h HeadingLevel) {
	s.heading = h
	if h != HeadingNone {
		s.StripMarks()
	}
}

// Runs returns a copy of the section's runs.
func (s *TextSection) Runs() []Run {
	out := make([]Run, len(s.runs))
	copy(out, s.runs)
	return out
}

// Text returns the plain-text content of the section.
func (s *TextSection) Text() string {
	var b strings.Builder
	for _, r := range s.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Len returns the content length in runes.
func (s *TextSection) Len() int {
	n := 0
	for _, r := range s.runs {
		n += r.Len()
	}
	return n
}

// IsEmpty returns true if the section holds no text.
func (s *TextSection) IsEmpty() bool {
	return len(s.runs) == 0
}

// clampOffset clamps a rune offset into [0, Len()].
func (s *TextSection) clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if n := s.Len(); offset > n {
		return n
	}
	return offset
}

// MarksAt returns the mark set in effect at a rune offset. Text typed at
// the offset inherits these marks. At run boundaries the preceding run
// wins, matching caret semantics of the host surface.
func (s *TextSection) MarksAt(offset int) Marks {
	offset = s.clampOffset(offset)
	pos := 0
	for _, r := range s.runs {
		end := pos + r.Len()
		if offset <= end {
			return r.Marks
		}
		pos = end
	}
	return Marks{}
}

// InsertText inserts plain text at a rune offset, inheriting the marks in
// effect there. Out-of-range offsets are clamped.
func (s *TextSection) InsertText(offset int, text string) {
	if text == "" {
		return
	}
	offset = s.clampOffset(offset)
	marks := s.MarksAt(offset)
	before, after := splitRuns(s.runs, offset)
	before = append(before, Run{Text: text, Marks: marks})
	s.runs = mergeRuns(append(before, after...))
}

// DeleteRange removes the runes in [start, end). Out-of-range bounds are
// clamped; an inverted range is a no-op.
func (s *TextSection) DeleteRange(start, end int) {
	start = s.clampOffset(start)
	end = s.clampOffset(end)
	if start >= end {
		return
	}
	before, rest := splitRuns(s.runs, start)
	_, after := splitRuns(rest, end-start)
	s.runs = mergeRuns(append(before, after...))
}

// ApplyMarks rewrites the mark sets of the runes in [start, end) through fn.
// Runs are split at the range boundaries so marks never leak outside it.
func (s *TextSection) ApplyMarks(start, end int, fn func(Marks) Marks) {
	start = s.clampOffset(start)
	end = s.clampOffset(end)
	if start >= end {
		return
	}
	before, rest := splitRuns(s.runs, start)
	middle, after := splitRuns(rest, end-start)
	for i := range middle {
		middle[i].Marks = fn(middle[i].Marks)
	}
	s.runs = mergeRuns(append(before, append(middle, after...)...))
}

// StripMarks replaces all runs with a single plain-text run holding the
// same content.
func (s *TextSection) StripMarks() {
	text := s.Text()
	if text == "" {
		s.runs = nil
		return
	}
	s.runs = []Run{{Text: text}}
}

// SplitAt splits the section at a rune offset. The receiver keeps the
// leading content; the returned new TextSection takes the trailing content
// and the same heading level. Marks are preserved across the boundary.
func (s *TextSection) SplitAt(offset int) *TextSection {
	offset = s.clampOffset(offset)
	before, after := splitRuns(s.runs, offset)
	s.runs = before

	tail := NewTextSection()
	tail.heading = s.heading
	tail.runs = after
	return tail
}

// AppendRuns appends runs from another section, merging at the seam.
func (s *TextSection) AppendRuns(runs []Run) {
	s.runs = mergeRuns(append(s.runs, runs...))
}

// Normalize coalesces adjacent equal-mark runs and drops empty runs.
// Normalize is idempotent.
func (s *TextSection) Normalize() {
	s.runs = mergeRuns(s.runs)
}

// String returns a debug representation of the section.
func (s *TextSection) String() string {
	return fmt.Sprintf("TextSection(%s, %q, heading=%s)", shortID(s.id), s.Text(), s.heading)
}

// ContainerSection is a non-editable block wrapping exactly one AtomicObject.
type ContainerSection struct {
	id     string
	object AtomicObject
}

// NewContainerSection creates a ContainerSection wrapping the given object.
func NewContainerSection(obj AtomicObject) *ContainerSection {
	return &ContainerSection{id: uuid.New().String(), object: obj}
}

// SectionID returns the section identifier.
func (s *ContainerSection) SectionID() string { return s.id }

func (*ContainerSection) sealed() {}

// Object returns the wrapped atomic object.
func (s *ContainerSection) Object() AtomicObject { return s.object }

// String returns a debug representation of the section.
func (s *ContainerSection) String() string {
	return fmt.Sprintf("ContainerSection(%s, %s)", shortID(s.id), s.object.Kind())
}

// shortID abbreviates a UUID for debug output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
