package editor

import (
	"github.com/dshills/inkstorm/internal/toolbar"
)

// ToolbarState identifies what the toolbar currently shows.
type ToolbarState = toolbar.State

// Toolbar states.
const (
	// ToolbarHidden means no toolbar is visible.
	ToolbarHidden = toolbar.Hidden
	// ToolbarFormatControls shows the inline format buttons over a
	// ranged selection.
	ToolbarFormatControls = toolbar.ShowingFormatControls
	// ToolbarLinkInput shows the link URL prompt.
	ToolbarLinkInput = toolbar.ShowingLinkInput
	// ToolbarInsertControls shows the insert buttons at an empty section.
	ToolbarInsertControls = toolbar.ShowingInsertControls
	// ToolbarImageURLInput shows the image URL prompt.
	ToolbarImageURLInput = toolbar.ShowingImageURLInput
	// ToolbarImageAltInput shows the image alt-text prompt.
	ToolbarImageAltInput = toolbar.ShowingImageAltInput
)

// FormatState reports which inline formats cover the active selection.
type FormatState = toolbar.FormatState

// ToolbarHandle exposes the toolbar coordinator of one editor instance
// to its host UI.
type ToolbarHandle struct {
	coord *toolbar.Coordinator
}

// State returns the current toolbar state.
func (h *ToolbarHandle) State() ToolbarState {
	return h.coord.State()
}

// OnChange registers a state-change callback and returns an
// unregister function.
func (h *ToolbarHandle) OnChange(cb func(from, to ToolbarState)) func() {
	return h.coord.OnChange(toolbar.ChangeCallback(cb))
}

// ActiveFormats reports the formats covering the active selection.
func (h *ToolbarHandle) ActiveFormats() FormatState {
	return h.coord.ActiveFormats()
}

// Display re-derives and shows the toolbar for the current selection.
func (h *ToolbarHandle) Display() {
	h.coord.Display()
}

// Hide hides the toolbar and discards any pending input.
func (h *ToolbarHandle) Hide() {
	h.coord.Hide()
}

// ActivateLink switches the format controls to the link URL prompt.
func (h *ToolbarHandle) ActivateLink() {
	h.coord.ActivateLink()
}

// SubmitLink wraps the pending selection in a link. An invalid URL
// keeps the prompt open and returns the validation error.
func (h *ToolbarHandle) SubmitLink(url string) error {
	return h.coord.SubmitLink(url)
}

// ActivateImage switches the insert controls to the image URL prompt.
func (h *ToolbarHandle) ActivateImage() {
	h.coord.ActivateImage()
}

// SubmitImageURL accepts the image URL and advances to the alt prompt.
func (h *ToolbarHandle) SubmitImageURL(url string) error {
	return h.coord.SubmitImageURL(url)
}

// SubmitImageAlt accepts the alt text and inserts the image.
func (h *ToolbarHandle) SubmitImageAlt(alt string) {
	h.coord.SubmitImageAlt(alt)
}

// InsertRule inserts a horizontal rule from the insert controls.
func (h *ToolbarHandle) InsertRule() {
	h.coord.InsertRule()
}

// Cancel abandons the pending prompt and restores the state and
// selection the prompt was opened from.
func (h *ToolbarHandle) Cancel() {
	h.coord.Cancel()
}
