// Package tui provides a Bubble Tea-based terminal UI for apply and destroy
// progress.
package tui

// ResourceMsg reports progress of one resource in the run.
type ResourceMsg struct {
	ID     string
	Detail string
	Done   bool
	Err    error
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
