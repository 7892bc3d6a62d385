// Package event defines the fixed set of host-delivered events the
// editing core reacts to, plus the key model used to classify them.
//
// The core is strictly event-driven: all mutation happens synchronously
// inside the callback for one of these events (key-down, key-up, click,
// selection-change, paste, mouse-up). This package holds types only; the
// binding of events to engine operations lives in the dispatcher.
package event
