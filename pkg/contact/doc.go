// Package contact implements the contact form controller: it owns the field
// values, the per-field error state and the Editing/Submitted state machine.
//
// The controller is synchronous and holds no locks. Hosts that receive events
// from several goroutines must serialise them per controller.
package contact
