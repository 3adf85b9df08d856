// Package form exposes the controller a user interface talks to. It owns a
// field registry, a validation engine, a tab controller and a persistence
// bridge, and runs the Editing → Submitting → Submitted state machine over
// them.
//
// Every accepted change flows one way: the registry stores the value, the
// persistence bridge mirrors the snapshot, and the validation engine
// recomputes the error for the edited field only. Submission validates every
// registered field regardless of the active tab.
package form
