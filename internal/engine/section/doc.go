// Package section provides the block-level document model for the editing
// core: an ordered sequence of sections owned by a Document.
//
// The section package provides:
//
//   - TextSection: an editable block holding rich inline text as mark runs
//   - ContainerSection: a non-editable block wrapping one atomic object
//   - AtomicObject: embeddable non-text units (Image, Rule)
//   - Document: the ordered section sequence plus structural invariants
//
// Structural Invariants:
//
// A live Document always satisfies:
//
//  1. It contains at least one section.
//  2. The first section is a TextSection.
//  3. Adjacent runs with identical mark sets are merged after every
//     mutation (Normalize is idempotent).
//  4. Every TextSection has a well-defined, possibly empty, body.
//
// Operations that would violate an invariant are corrected to the nearest
// safe equivalent instead of failing: removing the last section, or the
// leading TextSection, substitutes a fresh empty TextSection.
//
// Offsets:
//
// All offsets within a TextSection are measured in runes, not bytes. The
// host surface reports caret positions in user-perceived characters and
// rune offsets keep the model aligned with it for any UTF-8 content.
//
// Thread Safety:
//
// Document is not safe for concurrent use. The editing core is strictly
// event-driven and single-threaded; all mutation happens synchronously
// inside host event callbacks.
package section
