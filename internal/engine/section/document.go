package section

import (
	"errors"
	"strings"
)

// Errors returned by document operations.
var (
	// ErrSectionNotFound indicates a section id that is not attached to the
	// document. Stale ids from superseded events hit this; callers treat it
	// as a benign no-op.
	ErrSectionNotFound = errors.New("section not found")
)

// Document is the ordered sequence of sections the editor operates on.
// It owns the structural invariants: never empty, always led by a
// TextSection.
type Document struct {
	sections []Section
}

// NewDocument creates a document holding one empty TextSection.
func NewDocument() *Document {
	return &Document{sections: []Section{NewTextSection()}}
}

// NewDocumentFromSections builds a document from existing sections,
// correcting the result so the invariants hold: an empty input gains a
// fresh TextSection, and a leading ContainerSection is preceded by one.
func NewDocumentFromSections(sections []Section) *Document {
	d := &Document{sections: append([]Section(nil), sections...)}
	d.ensureInvariants()
	return d
}

// ensureInvariants re-establishes the never-empty and text-first
// invariants after a structural mutation.
func (d *Document) ensureInvariants() {
	if len(d.sections) == 0 {
		d.sections = []Section{NewTextSection()}
		return
	}
	if _, ok := d.sections[0].(*TextSection); !ok {
		d.sections = append([]Section{NewTextSection()}, d.sections...)
	}
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}

// Sections returns a copy of the section slice. The sections themselves
// are shared, not cloned.
func (d *Document) Sections() []Section {
	out := make([]Section, len(d.sections))
	copy(out, d.sections)
	return out
}

// At returns the section at index i, or nil if out of range.
func (d *Document) At(i int) Section {
	if i < 0 || i >= len(d.sections) {
		return nil
	}
	return d.sections[i]
}

// First returns the first section. The text-first invariant guarantees it
// is a TextSection.
func (d *Document) First() *TextSection {
	ts, _ := d.sections[0].(*TextSection)
	return ts
}

// Index returns the position of the section with the given id, or -1.
func (d *Document) Index(id string) int {
	for i, s := range d.sections {
		if s.SectionID() == id {
			return i
		}
	}
	return -1
}

// ByID returns the section with the given id.
func (d *Document) ByID(id string) (Section, error) {
	if i := d.Index(id); i >= 0 {
		return d.sections[i], nil
	}
	return nil, ErrSectionNotFound
}

// TextByID returns the TextSection with the given id. A container id
// resolves to ErrSectionNotFound: containers are not editable targets.
func (d *Document) TextByID(id string) (*TextSection, error) {
	s, err := d.ByID(id)
	if err != nil {
		return nil, err
	}
	ts, ok := s.(*TextSection)
	if !ok {
		return nil, ErrSectionNotFound
	}
	return ts, nil
}

// Contains reports whether the section id is attached to the document.
func (d *Document) Contains(id string) bool {
	return d.Index(id) >= 0
}

// PrevSibling returns the section before the given id, or nil at the head.
func (d *Document) PrevSibling(id string) Section {
	if i := d.Index(id); i > 0 {
		return d.sections[i-1]
	}
	return nil
}

// NextSibling returns the section after the given id, or nil at the tail.
func (d *Document) NextSibling(id string) Section {
	if i := d.Index(id); i >= 0 && i+1 < len(d.sections) {
		return d.sections[i+1]
	}
	return nil
}

// InsertAfter inserts a section after the section with the given id.
// An unknown id appends at the end. Invariants are re-established.
func (d *Document) InsertAfter(afterID string, sec Section) {
	i := d.Index(afterID)
	if i < 0 {
		i = len(d.sections) - 1
	}
	d.insertAt(i+1, sec)
}

// InsertBefore inserts a section before the section with the given id.
// An unknown id prepends at the head. Invariants are re-established.
func (d *Document) InsertBefore(beforeID string, sec Section) {
	i := d.Index(beforeID)
	if i < 0 {
		i = 0
	}
	d.insertAt(i, sec)
}

func (d *Document) insertAt(i int, sec Section) {
	if i < 0 {
		i = 0
	}
	if i > len(d.sections) {
		i = len(d.sections)
	}
	d.sections = append(d.sections, nil)
	copy(d.sections[i+1:], d.sections[i:])
	d.sections[i] = sec
	d.ensureInvariants()
}

// InsertTextSection creates an empty TextSection after the given section
// and returns it.
func (d *Document) InsertTextSection(afterID string) *TextSection {
	ts := NewTextSection()
	d.InsertAfter(afterID, ts)
	return ts
}

// InsertContainerSection creates a ContainerSection wrapping obj after the
// given section and returns it.
func (d *Document) InsertContainerSection(afterID string, obj AtomicObject) *ContainerSection {
	cs := NewContainerSection(obj)
	d.InsertAfter(afterID, cs)
	return cs
}

// RemoveSection detaches the section with the given id. Removing the only
// section, or the leading TextSection of a document whose next section is
// a container, substitutes a fresh empty TextSection so the invariants
// hold. Returns ErrSectionNotFound for unknown ids.
func (d *Document) RemoveSection(id string) error {
	i := d.Index(id)
	if i < 0 {
		return ErrSectionNotFound
	}
	d.sections = append(d.sections[:i], d.sections[i+1:]...)
	d.ensureInvariants()
	return nil
}

// ReplaceSections swaps the entire section list for a new one, keeping
// every outstanding reference to the document valid. Invariants are
// re-established on the new list.
func (d *Document) ReplaceSections(sections []Section) {
	d.sections = append([]Section(nil), sections...)
	d.ensureInvariants()
}

// Normalize canonicalizes the runs of the TextSection with the given id.
// Unknown or container ids are benign no-ops.
func (d *Document) Normalize(id string) {
	if ts, err := d.TextByID(id); err == nil {
		ts.Normalize()
	}
}

// NormalizeAll canonicalizes every TextSection.
func (d *Document) NormalizeAll() {
	for _, s := range d.sections {
		if ts, ok := s.(*TextSection); ok {
			ts.Normalize()
		}
	}
}

// NearestText returns the TextSection nearest to index i, searching
// backward first, then forward. Returns nil only for a document with no
// TextSection, which the invariants rule out.
func (d *Document) NearestText(i int) *TextSection {
	for j := i; j >= 0; j-- {
		if ts, ok := d.At(j).(*TextSection); ok {
			return ts
		}
	}
	for j := i + 1; j < len(d.sections); j++ {
		if ts, ok := d.At(j).(*TextSection); ok {
			return ts
		}
	}
	return nil
}

// StructurallyEquals reports whether two documents have the same section
// shapes, text content, marks, headings, and atomic objects. Section ids
// are ignored: a deserialized document is structurally equal to its
// source despite carrying fresh ids.
func (d *Document) StructurallyEquals(other *Document) bool {
	if len(d.sections) != len(other.sections) {
		return false
	}
	for i, s := range d.sections {
		switch a := s.(type) {
		case *TextSection:
			b, ok := other.sections[i].(*TextSection)
			if !ok || a.heading != b.heading {
				return false
			}
			ar, br := a.runs, b.runs
			if len(ar) != len(br) {
				return false
			}
			for j := range ar {
				if ar[j].Text != br[j].Text ||
					ar[j].Marks.Bold != br[j].Marks.Bold ||
					ar[j].Marks.Italic != br[j].Marks.Italic ||
					ar[j].Marks.LinkHref != br[j].Marks.LinkHref {
					return false
				}
			}
		case *ContainerSection:
			b, ok := other.sections[i].(*ContainerSection)
			if !ok || a.object != b.object {
				return false
			}
		}
	}
	return true
}

// String returns a debug representation of the document.
func (d *Document) String() string {
	parts := make([]string, len(d.sections))
	for i, s := range d.sections {
		parts[i] = s.(interface{ String() string }).String()
	}
	return "Document[" + strings.Join(parts, ", ") + "]"
}
