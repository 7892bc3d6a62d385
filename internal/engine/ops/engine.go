package ops

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/host"
)

// Errors returned by editing operations.
var (
	// ErrInvalidURL indicates a link or image target that failed
	// validation. The document is left unchanged.
	ErrInvalidURL = errors.New("invalid url")
)

// Block tags used when re-applying heading presentation.
const (
	tagHeadingLarge = "h1"
	tagHeadingSmall = "h2"
)

// Engine executes editing operations against one document, keeping the
// cursor controller and the host surface in step with every mutation.
type Engine struct {
	doc      *section.Document
	ctrl     *cursor.Controller
	surface  host.Surface
	blockTag string
}

// Option configures the engine.
type Option func(*Engine)

// WithBlockTag sets the tag used for plain (non-heading) sections.
// Accepted values are "p" and "div"; anything else falls back to "p".
func WithBlockTag(tag string) Option {
	return func(e *Engine) {
		if tag == "p" || tag == "div" {
			e.blockTag = tag
		}
	}
}

// SetBlockTag changes the plain-section tag at runtime, for options
// reloads. Invalid values are ignored.
func (e *Engine) SetBlockTag(tag string) {
	if tag == "p" || tag == "div" {
		e.blockTag = tag
	}
}

// New creates an engine over the given document, controller, and surface.
func New(doc *section.Document, ctrl *cursor.Controller, surface host.Surface, opts ...Option) *Engine {
	e := &Engine{
		doc:      doc,
		ctrl:     ctrl,
		surface:  surface,
		blockTag: "p",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Formatting Operations

// ToggleBold delegates a bold toggle over the current selection to the
// host's format command. Collapsed selections are no-ops.
func (e *Engine) ToggleBold() {
	e.toggleFormat(host.FormatBold)
}

// ToggleItalic delegates an italic toggle over the current selection to
// the host's format command. Collapsed selections are no-ops.
func (e *Engine) ToggleItalic() {
	e.toggleFormat(host.FormatItalic)
}

func (e *Engine) toggleFormat(f host.Format) {
	sel := e.ctrl.Selection()
	if sel.IsCollapsed() {
		return
	}
	// The surface owns inline run splitting; the model is re-normalized
	// afterwards so equal-mark neighbors merge back.
	_ = e.surface.ApplyFormat(f, sel)
	e.doc.Normalize(sel.Anchor.SectionID)
	e.doc.Normalize(sel.Focus.SectionID)
}

// FormatActive reports whether the whole current selection carries the
// given format mark. Drives the pressed state of toolbar controls.
func (e *Engine) FormatActive(f host.Format) bool {
	return host.FormatActive(e.doc, e.ctrl.Selection(), f)
}

// WrapHeading cycles the heading state of the section under the cursor:
// none becomes large on the first section and small elsewhere; any
// heading returns to none. Entering a heading strips all inline marks.
func (e *Engine) WrapHeading() {
	ts := e.ctrl.InText()
	if ts == nil {
		return
	}

	var next section.HeadingLevel
	if ts.Heading() == section.HeadingNone {
		if e.doc.First() == ts {
			next = section.HeadingLarge
		} else {
			next = section.HeadingSmall
		}
	} else {
		next = section.HeadingNone
	}

	ts.SetHeading(next)
	_ = e.surface.SetBlockTag(ts.SectionID(), e.tagFor(next))
}

// tagFor maps a heading level to its rendered block tag.
func (e *Engine) tagFor(h section.HeadingLevel) string {
	switch h {
	case section.HeadingLarge:
		return tagHeadingLarge
	case section.HeadingSmall:
		return tagHeadingSmall
	default:
		return e.blockTag
	}
}

// WrapLink validates url and wraps the current selection in a link mark.
// Validation: the url must contain a dot; a missing scheme is prefixed
// with http://. On success the cursor collapses to the end of the range
// and the new link's id is returned. Heading sections hold plain text
// only and are left unchanged.
func (e *Engine) WrapLink(url string) (string, error) {
	href, err := NormalizeURL(url)
	if err != nil {
		return "", err
	}

	sel := e.ctrl.Selection().Ordered()
	if sel.IsCollapsed() || !sel.InSingleSection() {
		return "", ErrInvalidURL
	}
	ts, err := e.doc.TextByID(sel.Focus.SectionID)
	if err != nil || ts.Heading() != section.HeadingNone {
		return "", ErrInvalidURL
	}

	linkID := uuid.New().String()
	ts.ApplyMarks(sel.Anchor.Offset, sel.Focus.Offset, func(m section.Marks) section.Marks {
		m.LinkHref = href
		m.LinkID = linkID
		return m
	})
	e.ctrl.Collapse(sel.Focus)
	return linkID, nil
}

// RemoveLink replaces the link with the given id by equivalent plain
// text and collapses the cursor to its end. Unknown ids are no-ops.
func (e *Engine) RemoveLink(linkID string) {
	for _, sec := range e.doc.Sections() {
		ts, ok := sec.(*section.TextSection)
		if !ok {
			continue
		}
		end, found := linkSpanEnd(ts, linkID)
		if !found {
			continue
		}
		ts.ApplyMarks(0, ts.Len(), func(m section.Marks) section.Marks {
			if m.LinkID == linkID {
				return m.WithoutLink()
			}
			return m
		})
		ts.Normalize()
		e.ctrl.Collapse(cursor.NewPosition(ts.SectionID(), end))
		return
	}
}

// linkSpanEnd returns the rune offset just past the last run carrying
// the link id.
func linkSpanEnd(ts *section.TextSection, linkID string) (int, bool) {
	end, found := 0, false
	pos := 0
	for _, r := range ts.Runs() {
		pos += r.Len()
		if r.Marks.LinkID == linkID {
			end = pos
			found = true
		}
	}
	return end, found
}

// Structural Operations

// SplitAtCursor splits the current TextSection at the cursor into two
// sections, preserving marks across the boundary. The cursor moves to
// the start of the new trailing section.
func (e *Engine) SplitAtCursor() {
	ts := e.ctrl.InText()
	if ts == nil {
		return
	}

	tail := ts.SplitAt(e.ctrl.Selection().Focus.Offset)
	e.doc.InsertAfter(ts.SectionID(), tail)
	e.surface.BlockInserted(tail)
	e.ctrl.Collapse(cursor.NewPosition(tail.SectionID(), 0))
}

// InsertContainer inserts a ContainerSection wrapping obj before the
// section with the given id. A rule refused as or before the very first
// section is corrected to land after it instead. An image is guaranteed
// an empty TextSection immediately before and after; when the insertion
// point is the document head, a fresh empty TextSection is
// re-established as the first section. Unknown ids are no-ops.
func (e *Engine) InsertContainer(obj section.AtomicObject, beforeID string) {
	idx := e.doc.Index(beforeID)
	if idx < 0 {
		return
	}

	if _, isRule := obj.(section.Rule); isRule && idx == 0 {
		// A rule can never lead the document; the nearest safe placement
		// is after the first section.
		cs := e.doc.InsertContainerSection(e.doc.First().SectionID(), obj)
		e.surface.BlockInserted(cs)
		return
	}

	cs := section.NewContainerSection(obj)
	e.doc.InsertBefore(beforeID, cs)
	e.surface.BlockInserted(cs)

	if _, isImage := obj.(section.Image); isImage {
		e.ensureTextAround(cs)
	}
}

// ensureTextAround guarantees empty TextSections flank the container.
// The leading side is covered by the text-first invariant when the
// container landed at the former document head.
func (e *Engine) ensureTextAround(cs *section.ContainerSection) {
	if _, ok := e.doc.PrevSibling(cs.SectionID()).(*section.TextSection); !ok {
		before := section.NewTextSection()
		e.doc.InsertBefore(cs.SectionID(), before)
		e.surface.BlockInserted(before)
	}
	if _, ok := e.doc.NextSibling(cs.SectionID()).(*section.TextSection); !ok {
		after := e.doc.InsertTextSection(cs.SectionID())
		e.surface.BlockInserted(after)
	}
}

// DeleteAdjacentContainer handles a collapsed-selection deletion
// keystroke at a TextSection boundary: if a ContainerSection is
// immediately adjacent in the deletion direction, it is removed
// wholesale. Returns true when a container was removed, in which case
// the caller must suppress the host's own default deletion.
func (e *Engine) DeleteAdjacentContainer(dir cursor.Direction) bool {
	sel := e.ctrl.Selection()
	if !sel.IsCollapsed() {
		return false
	}
	ts := e.ctrl.InText()
	if ts == nil {
		return false
	}

	off := sel.Focus.Offset
	var adjacent section.Section
	if dir == cursor.Backward && off == 0 {
		adjacent = e.doc.PrevSibling(ts.SectionID())
	} else if dir == cursor.Forward && off == ts.Len() {
		adjacent = e.doc.NextSibling(ts.SectionID())
	}

	cs, ok := adjacent.(*section.ContainerSection)
	if !ok {
		return false
	}
	if err := e.doc.RemoveSection(cs.SectionID()); err != nil {
		return false
	}
	e.surface.BlockRemoved(cs.SectionID())
	return true
}

// MergeBackward merges the current TextSection into its preceding
// TextSection sibling, for a Backspace at offset zero. The cursor lands
// at the join point. Returns true when a merge happened.
func (e *Engine) MergeBackward() bool {
	sel := e.ctrl.Selection()
	ts := e.ctrl.InText()
	if ts == nil || !sel.IsCollapsed() || sel.Focus.Offset != 0 {
		return false
	}
	prev, ok := e.doc.PrevSibling(ts.SectionID()).(*section.TextSection)
	if !ok {
		return false
	}

	join := prev.Len()
	prev.AppendRuns(ts.Runs())
	_ = e.doc.RemoveSection(ts.SectionID())
	e.surface.BlockRemoved(ts.SectionID())
	e.ctrl.Collapse(cursor.NewPosition(prev.SectionID(), join))
	return true
}

// MergeForward merges the following TextSection sibling into the current
// one, for a Delete at the section end. The cursor stays put. Returns
// true when a merge happened.
func (e *Engine) MergeForward() bool {
	sel := e.ctrl.Selection()
	ts := e.ctrl.InText()
	if ts == nil || !sel.IsCollapsed() || sel.Focus.Offset != ts.Len() {
		return false
	}
	next, ok := e.doc.NextSibling(ts.SectionID()).(*section.TextSection)
	if !ok {
		return false
	}

	ts.AppendRuns(next.Runs())
	_ = e.doc.RemoveSection(next.SectionID())
	e.surface.BlockRemoved(next.SectionID())
	return true
}

// URL validation

// NormalizeURL validates a link or image target: it must contain a dot,
// and a missing scheme is prefixed with http://.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.Contains(raw, ".") || strings.ContainsAny(raw, " \t") {
		return "", ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return raw, nil
}
