// Package host defines the collaborator boundary between the editing core
// and the text surface that owns native text mutation.
//
// The surface performs raw typing, native deletion, and caret placement
// outside the core's control. The core never reimplements those
// primitives; it drives them through the Surface interface and validates
// their results through the two lifecycle hooks:
//
//   - BeforeNativeEdit runs on key-down, before the surface mutates
//     anything, and may suppress the surface's default edit for that key.
//   - AfterNativeEdit runs on key-up, after the native mutation completed.
//
// This before/after pairing is load-bearing for cursor-repair correctness:
// any surface implementation must invoke the hooks in exactly this order
// around every native edit.
//
// MemorySurface is the reference implementation: an in-memory surface that
// mutates the shared document the way a native surface would. It backs the
// test suite and the demo host.
package host
