package cursor

import (
	"github.com/dshills/inkstorm/internal/engine/section"
)

// Direction identifies a document-order direction for navigation and
// deletion.
type Direction int8

const (
	// Backward is toward the document head (Backspace, ArrowUp, ArrowLeft).
	Backward Direction = -1
	// Forward is toward the document tail (Delete, ArrowDown, ArrowRight).
	Forward Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// lastGood is the pre-mutation snapshot taken on key-down: the position
// plus the id of the section's previous sibling at that moment. The
// sibling id implies the search direction when the position itself can no
// longer be restored.
type lastGood struct {
	sectionID     string
	offset        int
	prevSiblingID string
}

// Controller tracks the live selection for one document and repairs
// host-reported positions that violate the text-only cursor invariant.
type Controller struct {
	doc      *section.Document
	current  Selection
	snapshot lastGood
}

// NewController creates a controller with the cursor collapsed at the
// start of the document's first section.
func NewController(doc *section.Document) *Controller {
	c := &Controller{doc: doc}
	c.current = NewCursorSelection(NewPosition(doc.First().SectionID(), 0))
	return c
}

// Selection returns the live selection.
func (c *Controller) Selection() Selection {
	return c.current
}

// SetSelection adopts a host-reported selection without validation.
// Callers follow up with Repair; the pair models the host placing the
// caret first and the core validating after.
func (c *Controller) SetSelection(sel Selection) {
	c.current = sel
}

// Collapse collapses the live selection to the given position.
func (c *Controller) Collapse(p Position) {
	c.current = c.current.CollapseTo(p)
}

// InText returns the TextSection the focus resolves into, or nil when the
// focus is invalid (container, detached, or unknown section).
func (c *Controller) InText() *section.TextSection {
	ts, err := c.doc.TextByID(c.current.Focus.SectionID)
	if err != nil {
		return nil
	}
	return ts
}

// RecordLastGood snapshots the current position if it is valid. Invoked
// on every key-down, before the host applies its native mutation. An
// invalid current position leaves the previous snapshot in place.
func (c *Controller) RecordLastGood() {
	focus := c.current.Focus
	ts, err := c.doc.TextByID(focus.SectionID)
	if err != nil {
		return
	}

	snap := lastGood{
		sectionID: ts.SectionID(),
		offset:    focus.Offset,
	}
	if prev := c.doc.PrevSibling(ts.SectionID()); prev != nil {
		snap.prevSiblingID = prev.SectionID()
	}
	c.snapshot = snap
}

// Repair validates the live selection against the document and relocates
// any end that resolves inside a ContainerSection or an unrecognized
// section. Runs synchronously; invoked on key-up and on every
// selection-change. Returns the repaired selection.
func (c *Controller) Repair() Selection {
	focus := c.repairPosition(c.current.Focus)
	if c.current.IsCollapsed() {
		c.current = NewCursorSelection(focus)
		return c.current
	}

	anchor := c.repairPosition(c.current.Anchor)
	c.current = Selection{Anchor: anchor, Focus: focus}
	return c.current
}

// repairPosition applies the documented relocation policy to one position:
// (a) clamp in place when valid, (b) the last known-good position when its
// section is still attached, (c) the nearest sibling TextSection in the
// direction implied by the previous-sibling snapshot, (d) a newly
// synthesized adjacent TextSection.
func (c *Controller) repairPosition(p Position) Position {
	// Valid position: clamp the offset and keep it.
	if ts, err := c.doc.TextByID(p.SectionID); err == nil {
		return clampTo(ts, p.Offset)
	}

	// Last known-good position, if still attached.
	if ts, err := c.doc.TextByID(c.snapshot.sectionID); err == nil {
		return clampTo(ts, c.snapshot.offset)
	}

	refIdx, dir := c.referencePoint(p)

	// Nearest sibling TextSection in the implied direction, then the
	// opposite direction.
	if ts, arrived := c.nearestText(refIdx, dir); ts != nil {
		return landOn(ts, arrived)
	}

	// No TextSection reachable: synthesize one next to the reference
	// point. The document invariants make this case unreachable for a
	// live document, but the policy stays total.
	ref := c.doc.At(refIdx)
	if ref == nil {
		return NewPosition(c.doc.First().SectionID(), 0)
	}
	ts := c.doc.InsertTextSection(ref.SectionID())
	return NewPosition(ts.SectionID(), 0)
}

// referencePoint finds the index to search from and the implied search
// direction for an invalid position. A snapshot that recorded a previous
// sibling implies the cursor sat past the document head, so recovery
// searches backward first; otherwise it searches forward.
func (c *Controller) referencePoint(p Position) (int, Direction) {
	dir := Forward
	if c.snapshot.prevSiblingID != "" {
		dir = Backward
	}

	if idx := c.doc.Index(p.SectionID); idx >= 0 {
		return idx, dir
	}
	if idx := c.doc.Index(c.snapshot.prevSiblingID); idx >= 0 {
		return idx, Backward
	}
	return 0, Forward
}

// nearestText searches for a TextSection starting at refIdx, first in
// dir, then opposite. Returns the section and the direction of arrival.
func (c *Controller) nearestText(refIdx int, dir Direction) (*section.TextSection, Direction) {
	step := int(dir)
	for i := refIdx; i >= 0 && i < c.doc.Len(); i += step {
		if ts, ok := c.doc.At(i).(*section.TextSection); ok {
			return ts, dir
		}
	}
	for i := refIdx; i >= 0 && i < c.doc.Len(); i -= step {
		if ts, ok := c.doc.At(i).(*section.TextSection); ok {
			return ts, -dir
		}
	}
	return nil, dir
}

// PreventEditInContainer relocates the cursor out of a ContainerSection
// when a navigation key arrives while the focus sits inside one. The
// cursor moves to the adjacent TextSection in the key's direction,
// synthesizing one when absent. A focus already in text is untouched.
func (c *Controller) PreventEditInContainer(dir Direction) Selection {
	focus := c.current.Focus

	cs, err := c.doc.ByID(focus.SectionID)
	if err != nil {
		return c.Repair()
	}
	if _, ok := cs.(*section.ContainerSection); !ok {
		return c.current
	}

	idx := c.doc.Index(cs.SectionID())
	var target *section.TextSection
	if dir == Backward {
		if ts, ok := c.doc.At(idx - 1).(*section.TextSection); ok {
			target = ts
		}
	} else {
		if ts, ok := c.doc.At(idx + 1).(*section.TextSection); ok {
			target = ts
		}
	}

	if target == nil {
		if dir == Backward {
			prev := c.doc.PrevSibling(cs.SectionID())
			if prev == nil {
				// Head of document; the text-first invariant inserts the
				// synthesized section before the container.
				target = section.NewTextSection()
				c.doc.InsertBefore(cs.SectionID(), target)
			} else {
				target = c.doc.InsertTextSection(prev.SectionID())
			}
		} else {
			target = c.doc.InsertTextSection(cs.SectionID())
		}
	}

	c.current = NewCursorSelection(landOn(target, dir))
	return c.current
}

// clampTo returns a position in ts with the offset clamped to its length.
func clampTo(ts *section.TextSection, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if n := ts.Len(); offset > n {
		offset = n
	}
	return NewPosition(ts.SectionID(), offset)
}

// landOn places the cursor at the near edge of a section arrived at in
// the given direction: the end when moving backward, the start when
// moving forward.
func landOn(ts *section.TextSection, arrived Direction) Position {
	if arrived == Backward {
		return NewPosition(ts.SectionID(), ts.Len())
	}
	return NewPosition(ts.SectionID(), 0)
}
