// Package editor assembles the editing core into an embeddable editor
// instance: document model, cursor repair, editing operations, toolbar
// coordination, serialization, options, and scripting.
//
// An Editor is created over a host surface and drives it through the
// lifecycle hooks. Multiple instances coexist on one page; each filters
// shared events by its own instance identity.
//
//	ed, err := editor.New(surface)
//	if err != nil { ... }
//	defer ed.Close()
//
//	snapshot := ed.Serialize()
//	err = ed.LoadSnapshot(snapshot)
//
// All methods are synchronous and must be called from one goroutine.
package editor
