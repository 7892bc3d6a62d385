package dispatcher

import (
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/ops"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/host"
	"github.com/dshills/inkstorm/internal/toolbar"
)

// Logger receives pipeline diagnostics. The editor supplies its own
// logger; a nil Logger disables output.
type Logger interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
}

// ChangeListener is notified after every mutation the pipeline applied
// to the document.
type ChangeListener func()

// Pipeline routes surface events through the cursor controller, the
// operations engine, and the toolbar coordinator. It implements
// host.Hooks and must be bound to the surface before events flow.
type Pipeline struct {
	doc     *section.Document
	ctrl    *cursor.Controller
	eng     *ops.Engine
	surface host.Surface
	coord   *toolbar.Coordinator

	// source identifies this editor instance. Events stamped with a
	// different non-empty source belong to another instance sharing
	// the page and are dropped.
	source string

	log       Logger
	listeners []ChangeListener
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a diagnostic logger.
func WithLogger(l Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithSource sets the instance identity used to filter shared events.
func WithSource(source string) Option {
	return func(p *Pipeline) { p.source = source }
}

// NewPipeline builds a pipeline over an assembled core and binds itself
// to the surface as its lifecycle hooks.
func NewPipeline(doc *section.Document, ctrl *cursor.Controller, eng *ops.Engine, surface host.Surface, coord *toolbar.Coordinator, opts ...Option) *Pipeline {
	p := &Pipeline{doc: doc, ctrl: ctrl, eng: eng, surface: surface, coord: coord}
	for _, opt := range opts {
		opt(p)
	}
	surface.BindHooks(p)
	return p
}

// OnChange registers a listener invoked after each applied mutation.
// The returned function unregisters it.
func (p *Pipeline) OnChange(l ChangeListener) func() {
	p.listeners = append(p.listeners, l)
	idx := len(p.listeners) - 1
	return func() { p.listeners[idx] = nil }
}

func (p *Pipeline) notifyChange() {
	for _, l := range p.listeners {
		if l != nil {
			l()
		}
	}
}

// mine reports whether an event belongs to this editor instance.
// Events with an empty source are assumed local.
func (p *Pipeline) mine(ev event.Event) bool {
	return ev.Metadata.Source == "" || p.source == "" || ev.Metadata.Source == p.source
}

// HandleEvent processes a surface event synchronously. Key events are
// normally delivered through the hook pair instead; HandleEvent accepts
// them for hosts that drive the pipeline directly.
func (p *Pipeline) HandleEvent(ev event.Event) {
	if !p.mine(ev) {
		p.debugf("dropped %s event from source %q", ev.Kind, ev.Metadata.Source)
		return
	}
	switch ev.Kind {
	case event.KindSelectionChange, event.KindClick, event.KindMouseUp:
		p.handleSelection(ev.Selection)
	case event.KindPaste:
		p.handlePaste(ev.Text)
	case event.KindKeyDown:
		p.BeforeNativeEdit(ev.Key)
	case event.KindKeyUp:
		p.AfterNativeEdit(ev.Key)
	}
}

// BeforeNativeEdit implements host.Hooks. It records the selection for
// later repair and intercepts keys whose default behavior would corrupt
// the section tree.
func (p *Pipeline) BeforeNativeEdit(k event.Key) (suppress bool) {
	p.adoptSurfaceSelection()
	p.ctrl.RecordLastGood()

	if dir, ok := k.NavigationDirection(); ok {
		return p.interceptNavigation(dir)
	}
	if k.IsEnter() {
		p.eng.SplitAtCursor()
		p.pushSelection()
		p.notifyChange()
		return true
	}
	if dir, ok := k.DeletionDirection(); ok {
		return p.interceptDeletion(dir)
	}
	if k.IsPrintable() && p.ctrl.InText() == nil {
		// Typing while the caret sits in a container. Move the caret to
		// editable text first and let the native insert proceed there.
		p.ctrl.PreventEditInContainer(cursor.Forward)
		p.pushSelection()
	}
	return false
}

// AfterNativeEdit implements host.Hooks. The native mutation (or its
// suppression) has completed; reconcile the model with the surface.
func (p *Pipeline) AfterNativeEdit(k event.Key) {
	p.adoptSurfaceSelection()
	repaired := p.ctrl.Repair()
	p.surface.SetSelectionRange(repaired)
	p.doc.Normalize(repaired.Focus.SectionID)
	p.coord.DeriveFromSelection()
	if k.IsPrintable() || k.IsEnter() {
		p.notifyChange()
	} else if _, ok := k.DeletionDirection(); ok {
		p.notifyChange()
	}
}

// interceptNavigation keeps arrow movement from parking the caret
// inside a non-editable container.
func (p *Pipeline) interceptNavigation(dir cursor.Direction) bool {
	if p.ctrl.InText() != nil {
		return false
	}
	p.debugf("navigation %s landed in container, relocating caret", dir)
	p.ctrl.PreventEditInContainer(dir)
	p.pushSelection()
	return true
}

// interceptDeletion handles Backspace and Delete. In-section character
// deletion stays native; anything that would cross a section boundary
// is taken over by the engine.
func (p *Pipeline) interceptDeletion(dir cursor.Direction) bool {
	sel := p.ctrl.Selection()
	if !sel.IsCollapsed() {
		if sel.InSingleSection() {
			return false
		}
		// A multi-section range deletion has no safe native default.
		p.debugf("suppressed native deletion across sections")
		return true
	}

	ts := p.ctrl.InText()
	if ts == nil {
		p.ctrl.PreventEditInContainer(dir)
		p.pushSelection()
		return true
	}

	atBoundary := (dir == cursor.Backward && sel.Focus.Offset == 0) ||
		(dir == cursor.Forward && sel.Focus.Offset == ts.Len())
	if !atBoundary {
		return false
	}

	if p.eng.DeleteAdjacentContainer(dir) {
		p.pushSelection()
		p.notifyChange()
		return true
	}
	merged := false
	if dir == cursor.Backward {
		merged = p.eng.MergeBackward()
	} else {
		merged = p.eng.MergeForward()
	}
	if merged {
		p.pushSelection()
		p.notifyChange()
	}
	// At the edge of the document there is nothing to merge with; the
	// native default would still be wrong, so stay suppressed.
	return true
}

// handleSelection adopts a reported selection, repairs it, pushes the
// repaired range back to the surface, and re-derives the toolbar.
func (p *Pipeline) handleSelection(sel cursor.Selection) {
	p.ctrl.SetSelection(sel)
	repaired := p.ctrl.Repair()
	p.surface.SetSelectionRange(repaired)
	p.coord.DeriveFromSelection()
}

// handlePaste inserts clipboard text as plain text at the caret. Any
// selected range is replaced.
func (p *Pipeline) handlePaste(text string) {
	if text == "" {
		return
	}
	p.ctrl.RecordLastGood()
	sel := p.ctrl.Repair()
	ts := p.ctrl.InText()
	if ts == nil {
		moved := p.ctrl.PreventEditInContainer(cursor.Forward)
		sel = moved
		ts = p.ctrl.InText()
		if ts == nil {
			p.warnf("paste dropped: no editable section at caret")
			return
		}
	}
	start := sel.Focus.Offset
	if !sel.IsCollapsed() && sel.InSingleSection() {
		o := sel.Ordered()
		ts.DeleteRange(o.Anchor.Offset, o.Focus.Offset)
		start = o.Anchor.Offset
	}
	ts.InsertText(start, text)
	ts.Normalize()
	end := start + len([]rune(text))
	p.ctrl.Collapse(sel.Focus.MoveTo(end))
	p.pushSelection()
	p.coord.DeriveFromSelection()
	p.notifyChange()
}

// adoptSurfaceSelection pulls the live host selection into the
// controller when the surface has one inside this editor.
func (p *Pipeline) adoptSurfaceSelection() {
	if sel, ok := p.surface.SelectionRange(); ok {
		p.ctrl.SetSelection(sel)
	}
}

// pushSelection mirrors the controller's selection into the surface.
func (p *Pipeline) pushSelection() {
	p.surface.SetSelectionRange(p.ctrl.Selection())
}

func (p *Pipeline) debugf(format string, args ...any) {
	if p.log != nil {
		p.log.Debug(format, args...)
	}
}

func (p *Pipeline) warnf(format string, args ...any) {
	if p.log != nil {
		p.log.Warn(format, args...)
	}
}
