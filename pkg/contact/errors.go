package contact

import "errors"

var (
	// ErrUnknownField is returned when an event names a field the form does
	// not declare.
	ErrUnknownField = errors.New("contact: unknown field")
	// ErrUnknownEvent is returned by HandleEvent for unsupported event kinds.
	ErrUnknownEvent = errors.New("contact: unknown event")
)
