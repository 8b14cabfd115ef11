package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ResourceRow is one resource's display state.
type ResourceRow struct {
	ID     string
	Kind   string
	Detail string
	Done   bool
	Active bool
	Err    error
}

// Model is the Bubble Tea model for apply and destroy runs.
type Model struct {
	Component string
	Region    string
	Verb      string // "apply", "destroy"

	Rows []ResourceRow

	// Animation
	SpinnerFrame int
	StartTime    time.Time

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// NewApplyModel creates a model for the apply command TUI. Rows are listed in
// the order the engine processes them.
func NewApplyModel(component, region string, rows []ResourceRow) Model {
	return Model{
		Component: component,
		Region:    region,
		Verb:      "apply",
		Rows:      rows,
		StartTime: time.Now(),
	}
}

// NewDestroyModel creates a model for the destroy command TUI.
func NewDestroyModel(component string, rows []ResourceRow) Model {
	return Model{
		Component: component,
		Verb:      "destroy",
		Rows:      rows,
		StartTime: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case ResourceMsg:
		m.updateRow(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updateRow(msg ResourceMsg) {
	idx := -1
	for i, row := range m.Rows {
		if row.ID == msg.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	// The engine is sequential, so everything before this row is done.
	for i := 0; i < idx; i++ {
		m.Rows[i].Done = true
		m.Rows[i].Active = false
	}

	if msg.Done {
		m.Rows[idx].Done = true
		m.Rows[idx].Active = false
	} else {
		m.Rows[idx].Active = true
	}
	if msg.Detail != "" {
		m.Rows[idx].Detail = msg.Detail
	}
	if msg.Err != nil {
		m.Rows[idx].Err = msg.Err
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/4, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
