package toolbar

import (
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/ops"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/host"
)

// State identifies what the control surface currently shows.
type State uint8

const (
	// Hidden shows no controls.
	Hidden State = iota
	// ShowingFormatControls shows bold/italic/heading/link controls over
	// a non-collapsed selection.
	ShowingFormatControls
	// ShowingLinkInput awaits a link URL.
	ShowingLinkInput
	// ShowingInsertControls shows image/rule insertion controls in an
	// empty section.
	ShowingInsertControls
	// ShowingImageURLInput awaits an image URL.
	ShowingImageURLInput
	// ShowingImageAltInput awaits image alt text.
	ShowingImageAltInput
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case ShowingFormatControls:
		return "format"
	case ShowingLinkInput:
		return "link-input"
	case ShowingInsertControls:
		return "insert"
	case ShowingImageURLInput:
		return "image-url-input"
	case ShowingImageAltInput:
		return "image-alt-input"
	default:
		return "unknown"
	}
}

// FormatState reports which format controls are active for the current
// selection.
type FormatState struct {
	Bold   bool
	Italic bool
	Link   bool
}

// ChangeCallback is notified when the coordinator changes state.
type ChangeCallback func(from, to State)

// pendingInput remembers an input control awaiting submission: the state
// that spawned it, the selection active at that moment, and any partial
// payload collected so far.
type pendingInput struct {
	spawnedFrom State
	selection   cursor.Selection
	imageSrc    string
}

// Coordinator is the toolbar state machine for one editor instance.
// It is not safe for concurrent use; it runs inside the same
// single-threaded event callbacks as the rest of the core.
type Coordinator struct {
	doc  *section.Document
	ctrl *cursor.Controller
	eng  *ops.Engine

	state     State
	pending   *pendingInput
	callbacks []ChangeCallback
}

// NewCoordinator creates a hidden coordinator over the given core.
func NewCoordinator(doc *section.Document, ctrl *cursor.Controller, eng *ops.Engine) *Coordinator {
	return &Coordinator{doc: doc, ctrl: ctrl, eng: eng, state: Hidden}
}

// State returns the current state.
func (c *Coordinator) State() State {
	return c.state
}

// OnChange registers a state-change callback and returns an unregister
// function.
func (c *Coordinator) OnChange(cb ChangeCallback) func() {
	c.callbacks = append(c.callbacks, cb)
	idx := len(c.callbacks) - 1
	return func() {
		if idx < len(c.callbacks) {
			c.callbacks[idx] = nil
		}
	}
}

// transition moves to a new state and notifies callbacks.
func (c *Coordinator) transition(to State) {
	if c.state == to {
		return
	}
	from := c.state
	c.state = to
	for _, cb := range c.callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// DeriveFromSelection re-derives the visible controls from the current
// selection: a non-collapsed selection fully inside the document shows
// the format controls, a collapsed selection in an empty TextSection
// shows the insert controls, anything else hides the toolbar. A pending
// input survives only while the selection it was opened over is still
// active; an incompatible selection discards it. Unlike Cancel, which
// restores the spawning state and its selection, an implicit discard
// follows the new selection rather than restoring the old range.
func (c *Coordinator) DeriveFromSelection() {
	sel := c.ctrl.Selection()

	if c.pending != nil {
		if sel.SameRange(c.pending.selection) {
			return // input still open over its own selection
		}
		c.pending = nil
	}

	c.transition(c.derive(sel))
}

func (c *Coordinator) derive(sel cursor.Selection) State {
	anchorOK := c.inText(sel.Anchor)
	focusOK := c.inText(sel.Focus)

	if !sel.IsCollapsed() && anchorOK && focusOK {
		return ShowingFormatControls
	}
	if sel.IsCollapsed() && focusOK {
		if ts, err := c.doc.TextByID(sel.Focus.SectionID); err == nil && ts.IsEmpty() {
			return ShowingInsertControls
		}
	}
	return Hidden
}

func (c *Coordinator) inText(p cursor.Position) bool {
	_, err := c.doc.TextByID(p.SectionID)
	return err == nil
}

// ActiveFormats reports the pressed state of the format controls.
func (c *Coordinator) ActiveFormats() FormatState {
	sel := c.ctrl.Selection()
	linked := false
	if ts, err := c.doc.TextByID(sel.Focus.SectionID); err == nil {
		linked = ts.MarksAt(sel.Focus.Offset).IsLink()
	}
	return FormatState{
		Bold:   c.eng.FormatActive(host.FormatBold),
		Italic: c.eng.FormatActive(host.FormatItalic),
		Link:   linked,
	}
}

// Control activations

// ActivateLink opens the link URL input. Only reachable from the format
// controls.
func (c *Coordinator) ActivateLink() {
	if c.state != ShowingFormatControls {
		return
	}
	c.pending = &pendingInput{
		spawnedFrom: ShowingFormatControls,
		selection:   c.ctrl.Selection(),
	}
	c.transition(ShowingLinkInput)
}

// SubmitLink wraps the pending selection in a link. An invalid URL keeps
// the input open for re-entry and returns the validation error; success
// closes the input and re-derives from the collapsed cursor.
func (c *Coordinator) SubmitLink(url string) error {
	if c.state != ShowingLinkInput || c.pending == nil {
		return nil
	}
	c.ctrl.SetSelection(c.pending.selection)
	if _, err := c.eng.WrapLink(url); err != nil {
		return err // input stays open
	}
	c.pending = nil
	c.transition(c.derive(c.ctrl.Selection()))
	return nil
}

// ActivateImage opens the image URL input. Only reachable from the
// insert controls.
func (c *Coordinator) ActivateImage() {
	if c.state != ShowingInsertControls {
		return
	}
	c.pending = &pendingInput{
		spawnedFrom: ShowingInsertControls,
		selection:   c.ctrl.Selection(),
	}
	c.transition(ShowingImageURLInput)
}

// SubmitImageURL records the image source and advances to the alt-text
// input. An invalid URL keeps the input open and returns the error.
func (c *Coordinator) SubmitImageURL(url string) error {
	if c.state != ShowingImageURLInput || c.pending == nil {
		return nil
	}
	src, err := ops.NormalizeURL(url)
	if err != nil {
		return err // input stays open
	}
	c.pending.imageSrc = src
	c.transition(ShowingImageAltInput)
	return nil
}

// SubmitImageAlt completes the image flow: the container is inserted
// before the section the insert controls were opened in, and the toolbar
// hides.
func (c *Coordinator) SubmitImageAlt(alt string) {
	if c.state != ShowingImageAltInput || c.pending == nil {
		return
	}
	beforeID := c.pending.selection.Focus.SectionID
	c.eng.InsertContainer(section.Image{Src: c.pending.imageSrc, Alt: alt}, beforeID)
	c.pending = nil
	c.transition(Hidden)
}

// InsertRule inserts a horizontal rule before the current section from
// the insert controls.
func (c *Coordinator) InsertRule() {
	if c.state != ShowingInsertControls {
		return
	}
	c.eng.InsertContainer(section.Rule{}, c.ctrl.Selection().Focus.SectionID)
	c.transition(Hidden)
}

// Cancel closes a pending input explicitly: the selection active when
// the input was opened is restored and the spawning state returns.
func (c *Coordinator) Cancel() {
	if c.pending == nil {
		return
	}
	spawn := c.pending.spawnedFrom
	c.ctrl.SetSelection(c.pending.selection)
	c.pending = nil
	c.transition(spawn)
}

// Display re-derives and shows the toolbar; part of the external handle.
func (c *Coordinator) Display() {
	c.DeriveFromSelection()
}

// Hide hides the toolbar and discards any pending input; part of the
// external handle.
func (c *Coordinator) Hide() {
	c.pending = nil
	c.transition(Hidden)
}
