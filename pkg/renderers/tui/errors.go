package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrDeclined is returned when the user answers no at the submit prompt.
	ErrDeclined = errors.New("tui: submission declined")
	// ErrTooManyAttempts stops a session that keeps receiving invalid input
	// from a non-interactive driver.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
