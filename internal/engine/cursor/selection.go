package cursor

import "fmt"

// Selection represents the active edit range. Anchor is where the
// selection started; Focus is the current cursor position. When
// Anchor == Focus the selection is collapsed to a cursor.
// Selection is an immutable value type.
type Selection struct {
	Anchor Position
	Focus  Position
}

// NewSelection creates a selection from anchor to focus.
func NewSelection(anchor, focus Position) Selection {
	return Selection{Anchor: anchor, Focus: focus}
}

// NewCursorSelection creates a collapsed selection at the given position.
func NewCursorSelection(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

// IsCollapsed returns true if the selection has no extent.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// IsZero returns true if neither end resolves to a section.
func (s Selection) IsZero() bool {
	return s.Anchor.IsZero() && s.Focus.IsZero()
}

// InSingleSection returns true if both ends sit in the same section.
func (s Selection) InSingleSection() bool {
	return s.Anchor.SectionID == s.Focus.SectionID
}

// Collapse returns the selection collapsed to its focus.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Focus, Focus: s.Focus}
}

// CollapseTo returns a collapsed selection at the given position.
func (s Selection) CollapseTo(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

// Ordered returns the selection with its ends ordered by offset. Only
// meaningful within a single section; cross-section selections are
// returned unchanged, since section order is owned by the document.
func (s Selection) Ordered() Selection {
	if s.InSingleSection() && s.Focus.Offset < s.Anchor.Offset {
		return Selection{Anchor: s.Focus, Focus: s.Anchor}
	}
	return s
}

// Equals returns true if two selections have the same anchor and focus.
func (s Selection) Equals(other Selection) bool {
	return s == other
}

// SameRange returns true if two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	a, b := s.Ordered(), other.Ordered()
	return a == b
}

// String returns a debug representation of the selection.
func (s Selection) String() string {
	if s.IsCollapsed() {
		return s.Focus.String()
	}
	return fmt.Sprintf("Selection(%s..%s)", s.Anchor, s.Focus)
}
