// Package ops implements the editing operations engine: formatting,
// structural splits and merges, and container insertion and removal,
// built on the section tree and the cursor controller.
//
// Failure semantics follow best-effort event handling: structural
// operations never fail to the caller. Stale section ids are benign
// no-ops, and an operation that would violate a structural invariant is
// corrected to the nearest safe equivalent instead of rejected. The only
// surfaced error is ErrInvalidURL from link and image input validation,
// which the toolbar uses to keep its input control open.
package ops
