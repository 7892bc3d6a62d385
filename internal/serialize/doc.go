// Package serialize converts a document to and from its portable
// snapshot form: an HTML fragment whose outermost element carries the
// root fingerprint class.
//
// Serialization is presentation-complete: section class names, inline
// styles, heading styles, and the placeholder from the editor options are
// baked into the snapshot so it renders standalone. Deserialization only
// reads structure back out of it; a snapshot missing the root fingerprint
// is rejected and never partially adopted.
package serialize
