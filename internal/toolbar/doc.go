// Package toolbar implements the coordinator behind the editor's control
// surface: a state machine that decides which controls are visible from
// the current selection, and routes control activations into the editing
// operations engine.
//
// The coordinator renders nothing. A host component consumes the state
// and the change callbacks and draws whatever control surface it wants;
// the demo host renders it with lipgloss.
//
// Pending inputs (a link URL, an image URL, image alt text) remember the
// state that spawned them and the selection active at that moment. An
// explicit cancel returns to the spawning state and restores that
// selection; an incompatible new selection discards the pending input and
// re-derives the state.
package toolbar
