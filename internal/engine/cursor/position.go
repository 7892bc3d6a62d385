package cursor

import "fmt"

// Position is an insertion point: a section id plus a rune offset within
// that section. Position is an immutable value type.
type Position struct {
	SectionID string
	Offset    int
}

// NewPosition creates a position, clamping negative offsets to zero.
func NewPosition(sectionID string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	return Position{SectionID: sectionID, Offset: offset}
}

// IsZero returns true for the zero position (no section).
func (p Position) IsZero() bool {
	return p.SectionID == ""
}

// MoveTo returns a position in the same section at the given offset.
func (p Position) MoveTo(offset int) Position {
	return NewPosition(p.SectionID, offset)
}

// MoveBy returns a position shifted by delta runes, clamped at zero.
func (p Position) MoveBy(delta int) Position {
	return NewPosition(p.SectionID, p.Offset+delta)
}

// Equals returns true if two positions are identical.
func (p Position) Equals(other Position) bool {
	return p == other
}

// String returns a debug representation of the position.
func (p Position) String() string {
	id := p.SectionID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Position(%s:%d)", id, p.Offset)
}
