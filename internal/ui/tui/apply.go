package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunApplyTUI wraps an apply run with a Bubble Tea TUI. runFn performs the
// actual work, sending per-resource updates on the channel.
func RunApplyTUI(ctx context.Context, runFn func(ch chan<- ResourceMsg) error, component, region string, rows []ResourceRow) error {
	return run(ctx, NewApplyModel(component, region, rows), runFn)
}

// RunDestroyTUI wraps a destroy run with a Bubble Tea TUI.
func RunDestroyTUI(ctx context.Context, runFn func(ch chan<- ResourceMsg) error, component string, rows []ResourceRow) error {
	return run(ctx, NewDestroyModel(component, rows), runFn)
}

func run(ctx context.Context, m Model, runFn func(ch chan<- ResourceMsg) error) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run the work in a background goroutine, forwarding its progress into
	// the program.
	go func() {
		ch := make(chan ResourceMsg, 16)
		errc := make(chan error, 1)
		go func() {
			defer close(ch)
			errc <- runFn(ch)
		}()

		for msg := range ch {
			p.Send(msg)
		}

		if err := <-errc; err != nil {
			p.Send(ErrMsg{Err: err})
		} else {
			p.Send(DoneMsg{})
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
