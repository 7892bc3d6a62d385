// Package dispatcher wires host events into the editing core.
//
// A Pipeline implements the two lifecycle hooks a surface invokes around
// every native edit. Before the edit it records the last known-good
// selection and intercepts structural keys (Enter, boundary deletions,
// caret movement into non-editable containers), suppressing the native
// default when the core takes over. After the edit it repairs the
// selection, re-normalizes the mutated section, and re-derives the
// toolbar state.
//
// All handling is synchronous. An event is fully processed before the
// call returns, so the document, selection, and toolbar never disagree
// between events.
package dispatcher
