package host

import (
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/event"
)

// Format identifies an inline format toggle the surface executes natively.
type Format uint8

const (
	// FormatBold toggles the bold mark.
	FormatBold Format = iota
	// FormatItalic toggles the italic mark.
	FormatItalic
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatBold:
		return "bold"
	case FormatItalic:
		return "italic"
	default:
		return "unknown"
	}
}

// Hooks are the two lifecycle callbacks a surface must invoke around
// every native edit. The dispatcher implements them.
type Hooks interface {
	// BeforeNativeEdit runs before the surface applies the default edit
	// for the key. Returning true suppresses that default edit.
	BeforeNativeEdit(k event.Key) (suppress bool)

	// AfterNativeEdit runs after the surface's mutation for the key
	// completed (or was suppressed).
	AfterNativeEdit(k event.Key)
}

// Surface is the host text surface the core collaborates with.
type Surface interface {
	// BindHooks registers the lifecycle hooks. Must be called before any
	// native edit is delivered.
	BindHooks(h Hooks)

	// ApplyFormat executes a native inline format toggle over sel.
	ApplyFormat(f Format, sel cursor.Selection) error

	// SetBlockTag changes the rendered block tag of a section
	// (paragraph vs heading presentation).
	SetBlockTag(sectionID, tag string) error

	// SelectionRange returns the live host selection. The second return
	// is false when the surface has no selection inside the editor.
	SelectionRange() (cursor.Selection, bool)

	// SetSelectionRange places the native caret or selection.
	SetSelectionRange(sel cursor.Selection)

	// BlockInserted mirrors a model-side section insertion into the
	// surface's node tree.
	BlockInserted(sec section.Section)

	// BlockRemoved mirrors a model-side section removal.
	BlockRemoved(sectionID string)
}
