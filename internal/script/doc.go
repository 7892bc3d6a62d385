// Package script embeds a Lua runtime for editor automation.
//
// Host applications load short Lua snippets that inspect and mutate the
// document through the "ink" module: reading section text, running
// editing operations, and subscribing to document-change notifications.
// The runtime is synchronous and single-threaded; scripts run to
// completion before control returns to the caller.
package script
