// Package cursor provides selection tracking and repair for the editing
// core.
//
// The cursor package handles:
//
//   - Position: a (section id, rune offset) pair
//   - Selection: an anchor/focus pair of positions
//   - Controller: validation and repair of host-reported positions
//
// Selection Model:
//
// Selections use an anchor/focus model where:
//   - Anchor: the position where the selection started
//   - Focus: the current cursor position (where typing would occur)
//
// When Anchor == Focus the selection represents just a cursor.
//
// Repair Model:
//
// The host surface places the caret outside the core's control. A position
// that resolves inside a ContainerSection, or into a section no longer
// attached to the document, is an invalid transient state. The Controller
// snapshots the last known-good position before each native mutation and
// repairs invalid positions after it, using a fixed policy:
//
//  1. the last known-good position, if its section is still attached
//  2. the nearest sibling TextSection in the direction implied by the
//     previous-sibling snapshot
//  3. a newly synthesized adjacent TextSection
//
// The exact order is load-bearing for determinism and must not change.
//
// Thread Safety:
//
// Position and Selection are immutable value types. Controller is not
// thread-safe; the editing core is single-threaded and event-driven.
package cursor
