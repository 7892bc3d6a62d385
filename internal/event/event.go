package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkstorm/internal/engine/cursor"
)

// Kind identifies a host event type.
type Kind uint8

const (
	// KindKeyDown fires before the host applies its native edit for a key.
	KindKeyDown Kind = iota
	// KindKeyUp fires after the native edit for a key completed.
	KindKeyUp
	// KindClick fires on a pointer click inside the editor container.
	KindClick
	// KindSelectionChange fires whenever the host-reported selection moves.
	KindSelectionChange
	// KindPaste fires when plain text is pasted at the caret.
	KindPaste
	// KindMouseUp fires when a pointer drag ends inside the container.
	KindMouseUp
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "keydown"
	case KindKeyUp:
		return "keyup"
	case KindClick:
		return "click"
	case KindSelectionChange:
		return "selectionchange"
	case KindPaste:
		return "paste"
	case KindMouseUp:
		return "mouseup"
	default:
		return "unknown"
	}
}

// Event is one host-delivered input event. Events are immutable once
// created.
type Event struct {
	// Kind is the event type.
	Kind Kind

	// Key carries the key for KindKeyDown and KindKeyUp.
	Key Key

	// Selection carries the host-reported selection for
	// KindSelectionChange, KindClick, and KindMouseUp.
	Selection cursor.Selection

	// Text carries pasted plain text for KindPaste.
	Text string

	// Metadata is standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the surface that delivered the event.
	Source string
}

// New creates an event of the given kind with fresh metadata.
func New(kind Kind, source string) Event {
	return Event{
		Kind: kind,
		Metadata: Metadata{
			ID:        uuid.New().String(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// NewKey creates a key event.
func NewKey(kind Kind, k Key, source string) Event {
	ev := New(kind, source)
	ev.Key = k
	return ev
}

// NewSelection creates a selection-carrying event.
func NewSelection(kind Kind, sel cursor.Selection, source string) Event {
	ev := New(kind, source)
	ev.Selection = sel
	return ev
}

// NewPaste creates a paste event carrying plain text.
func NewPaste(text string, source string) Event {
	ev := New(KindPaste, source)
	ev.Text = text
	return ev
}
