package host

import (
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/event"
)

// MemorySurface is the in-memory reference surface. It shares the
// document with the core and mutates it the way a native surface would:
// raw rune insertion and deletion at its own caret, with the lifecycle
// hooks invoked around every edit.
//
// MemorySurface is not safe for concurrent use.
type MemorySurface struct {
	doc   *section.Document
	sel   cursor.Selection
	hooks Hooks

	// onSelection is notified when the surface moves its own selection
	// (caret placement, range selection). Native edits do not fire it;
	// the key-up hook covers those.
	onSelection func(cursor.Selection)

	// blockTags records presentation tag changes per section id.
	blockTags map[string]string
}

// NewMemorySurface creates a surface over the given document with the
// caret collapsed at the start of the first section.
func NewMemorySurface(doc *section.Document) *MemorySurface {
	return &MemorySurface{
		doc:       doc,
		sel:       cursor.NewCursorSelection(cursor.NewPosition(doc.First().SectionID(), 0)),
		blockTags: make(map[string]string),
	}
}

// NewDetachedMemorySurface creates a surface with no document yet. The
// editor hands its document over through AdoptDocument when it binds.
func NewDetachedMemorySurface() *MemorySurface {
	return &MemorySurface{blockTags: make(map[string]string)}
}

// AdoptDocument binds the surface to a document and collapses the caret
// at the start of its first section.
func (s *MemorySurface) AdoptDocument(doc *section.Document) {
	s.doc = doc
	s.sel = cursor.NewCursorSelection(cursor.NewPosition(doc.First().SectionID(), 0))
}

// BindHooks registers the lifecycle hooks.
func (s *MemorySurface) BindHooks(h Hooks) {
	s.hooks = h
}

// OnSelectionChange registers the selection-change listener.
func (s *MemorySurface) OnSelectionChange(fn func(cursor.Selection)) {
	s.onSelection = fn
}

// Surface interface

// ApplyFormat toggles an inline format over sel, native-command style:
// if every rune in the range already carries the mark it is removed,
// otherwise it is applied to the whole range.
func (s *MemorySurface) ApplyFormat(f Format, sel cursor.Selection) error {
	active := FormatActive(s.doc, sel, f)
	toggle := func(m section.Marks) section.Marks {
		switch f {
		case FormatBold:
			m.Bold = !active
		case FormatItalic:
			m.Italic = !active
		}
		return m
	}
	forEachTextSpan(s.doc, sel, func(ts *section.TextSection, start, end int) {
		ts.ApplyMarks(start, end, toggle)
	})
	return nil
}

// SetBlockTag records the rendered block tag for a section.
func (s *MemorySurface) SetBlockTag(sectionID, tag string) error {
	if !s.doc.Contains(sectionID) {
		return section.ErrSectionNotFound
	}
	s.blockTags[sectionID] = tag
	return nil
}

// BlockTag returns the recorded block tag for a section, if any.
func (s *MemorySurface) BlockTag(sectionID string) string {
	return s.blockTags[sectionID]
}

// SelectionRange returns the live surface selection.
func (s *MemorySurface) SelectionRange() (cursor.Selection, bool) {
	if s.sel.IsZero() {
		return cursor.Selection{}, false
	}
	return s.sel, true
}

// SetSelectionRange places the surface selection without firing the
// selection listener; the core uses it to push repaired positions back.
func (s *MemorySurface) SetSelectionRange(sel cursor.Selection) {
	s.sel = sel
}

// BlockInserted mirrors a model-side insertion. The memory surface shares
// the model, so there is no node tree to update.
func (s *MemorySurface) BlockInserted(sec section.Section) {}

// BlockRemoved mirrors a model-side removal and drops the recorded tag.
func (s *MemorySurface) BlockRemoved(sectionID string) {
	delete(s.blockTags, sectionID)
}

// Native input simulation
//
// These methods stand in for the user typing into a native surface. Each
// one wraps its mutation in the lifecycle hook pair.

// PlaceCaret collapses the surface selection at the given position and
// fires the selection listener.
func (s *MemorySurface) PlaceCaret(p cursor.Position) {
	s.sel = cursor.NewCursorSelection(p)
	s.notifySelection()
}

// SelectRange sets a ranged selection and fires the selection listener.
func (s *MemorySurface) SelectRange(sel cursor.Selection) {
	s.sel = sel
	s.notifySelection()
}

// Type delivers printable input one rune at a time, invoking the hook
// pair around each native insertion.
func (s *MemorySurface) Type(text string) {
	for _, r := range text {
		k := event.Char(r)
		if !s.before(k) {
			s.nativeInsert(r)
		}
		s.after(k)
	}
}

// PressKey delivers one named key. The surface's own default applies only
// to deletion keys; everything else either belongs to the core (Enter,
// navigation interception) or has no default in this surface.
func (s *MemorySurface) PressKey(k event.Key) {
	if !s.before(k) {
		if dir, ok := k.DeletionDirection(); ok {
			s.nativeDelete(dir)
		}
	}
	s.after(k)
}

func (s *MemorySurface) before(k event.Key) bool {
	if s.hooks == nil {
		return false
	}
	return s.hooks.BeforeNativeEdit(k)
}

func (s *MemorySurface) after(k event.Key) {
	if s.hooks != nil {
		s.hooks.AfterNativeEdit(k)
	}
}

func (s *MemorySurface) notifySelection() {
	if s.onSelection != nil {
		s.onSelection(s.sel)
	}
}

// nativeInsert inserts one rune at the caret, replacing a non-collapsed
// selection first. Input landing outside a TextSection is dropped; the
// repair pass relocates the caret afterwards.
func (s *MemorySurface) nativeInsert(r rune) {
	s.replaceSelection()
	ts, err := s.doc.TextByID(s.sel.Focus.SectionID)
	if err != nil {
		return
	}
	ts.InsertText(s.sel.Focus.Offset, string(r))
	s.sel = cursor.NewCursorSelection(s.sel.Focus.MoveBy(1))
}

// nativeDelete applies the surface's default deletion: a non-collapsed
// selection is removed, a collapsed caret deletes one rune within its
// section. Deletion across a section boundary has no default here; the
// core intercepts those keystrokes before they reach the surface.
func (s *MemorySurface) nativeDelete(dir cursor.Direction) {
	if !s.sel.IsCollapsed() {
		s.replaceSelection()
		return
	}

	ts, err := s.doc.TextByID(s.sel.Focus.SectionID)
	if err != nil {
		return
	}

	off := s.sel.Focus.Offset
	if dir == cursor.Backward {
		if off == 0 {
			return
		}
		ts.DeleteRange(off-1, off)
		s.sel = cursor.NewCursorSelection(s.sel.Focus.MoveBy(-1))
		return
	}
	if off >= ts.Len() {
		return
	}
	ts.DeleteRange(off, off+1)
}

// replaceSelection deletes the content of a non-collapsed selection and
// collapses the caret at its start. Only single-section selections have a
// surface default; cross-section deletes are core-owned.
func (s *MemorySurface) replaceSelection() {
	if s.sel.IsCollapsed() || !s.sel.InSingleSection() {
		s.sel = s.sel.Collapse()
		return
	}
	ordered := s.sel.Ordered()
	if ts, err := s.doc.TextByID(ordered.Focus.SectionID); err == nil {
		ts.DeleteRange(ordered.Anchor.Offset, ordered.Focus.Offset)
	}
	s.sel = cursor.NewCursorSelection(ordered.Anchor)
}

// Range helpers shared with the format query.

// forEachTextSpan visits every TextSection span covered by sel in
// document order, with start/end rune offsets local to each section.
func forEachTextSpan(doc *section.Document, sel cursor.Selection, fn func(*section.TextSection, int, int)) {
	sel = orderByDocument(doc, sel)

	if sel.InSingleSection() {
		if ts, err := doc.TextByID(sel.Focus.SectionID); err == nil {
			fn(ts, sel.Anchor.Offset, sel.Focus.Offset)
		}
		return
	}

	startIdx := doc.Index(sel.Anchor.SectionID)
	endIdx := doc.Index(sel.Focus.SectionID)
	if startIdx < 0 || endIdx < 0 {
		return
	}
	for i := startIdx; i <= endIdx; i++ {
		ts, ok := doc.At(i).(*section.TextSection)
		if !ok {
			continue
		}
		start, end := 0, ts.Len()
		if i == startIdx {
			start = sel.Anchor.Offset
		}
		if i == endIdx {
			end = sel.Focus.Offset
		}
		fn(ts, start, end)
	}
}

// orderByDocument orders a selection by document position, using section
// indices for cross-section selections.
func orderByDocument(doc *section.Document, sel cursor.Selection) cursor.Selection {
	if sel.InSingleSection() {
		return sel.Ordered()
	}
	a := doc.Index(sel.Anchor.SectionID)
	f := doc.Index(sel.Focus.SectionID)
	if f < a {
		return cursor.NewSelection(sel.Focus, sel.Anchor)
	}
	return sel
}

// FormatActive reports whether every rune covered by sel already carries
// the given format mark. Empty or collapsed selections report false.
func FormatActive(doc *section.Document, sel cursor.Selection, f Format) bool {
	covered := false
	active := true
	forEachTextSpan(doc, sel, func(ts *section.TextSection, start, end int) {
		if start >= end {
			return
		}
		covered = true
		for _, r := range spanRuns(ts, start, end) {
			switch f {
			case FormatBold:
				if !r.Marks.Bold {
					active = false
				}
			case FormatItalic:
				if !r.Marks.Italic {
					active = false
				}
			}
		}
	})
	return covered && active
}

// spanRuns returns the runs of ts overlapping [start, end).
func spanRuns(ts *section.TextSection, start, end int) []section.Run {
	var out []section.Run
	pos := 0
	for _, r := range ts.Runs() {
		rEnd := pos + r.Len()
		if rEnd > start && pos < end {
			out = append(out, r)
		}
		pos = rEnd
	}
	return out
}
