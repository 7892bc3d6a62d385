package event

import "github.com/dshills/inkstorm/internal/engine/cursor"

// Named keys the core classifies. Printable input carries a rune instead.
const (
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// Key describes one keyboard key as reported by the host surface.
type Key struct {
	// Name is the named-key identifier, empty for printable input.
	Name string

	// Rune is the printable character, zero for named keys.
	Rune rune

	// Modifier state at the time of the event.
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// Char creates a printable key.
func Char(r rune) Key {
	return Key{Rune: r}
}

// Named creates a named key.
func Named(name string) Key {
	return Key{Name: name}
}

// IsPrintable returns true if the key produces text input.
func (k Key) IsPrintable() bool {
	return k.Name == "" && k.Rune != 0 && !k.Ctrl && !k.Meta
}

// DeletionDirection classifies deletion keys: Backspace deletes backward,
// Delete forward.
func (k Key) DeletionDirection() (cursor.Direction, bool) {
	switch k.Name {
	case KeyBackspace:
		return cursor.Backward, true
	case KeyDelete:
		return cursor.Forward, true
	}
	return 0, false
}

// NavigationDirection classifies navigation keys by their document-order
// direction. Left/Up/Home move backward, Right/Down/End forward.
func (k Key) NavigationDirection() (cursor.Direction, bool) {
	switch k.Name {
	case KeyArrowLeft, KeyArrowUp, KeyHome:
		return cursor.Backward, true
	case KeyArrowRight, KeyArrowDown, KeyEnd:
		return cursor.Forward, true
	}
	return 0, false
}

// IsEnter returns true for the Enter key.
func (k Key) IsEnter() bool {
	return k.Name == KeyEnter
}

// String returns a debug representation of the key.
func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	return string(k.Rune)
}
