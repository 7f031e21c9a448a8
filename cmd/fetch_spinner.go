package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fetchDoneMsg struct {
	err error
}

// fetchSpinnerModel animates a one-line label while a remote call runs and
// quits the moment the call settles. Export and ask both ride on it.
type fetchSpinnerModel struct {
	spin  spinner.Model
	label string
	fetch tea.Cmd
	err   error
	done  bool
}

func (m fetchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetch)
}

func (m fetchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case fetchDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m fetchSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spin.View(), m.label)
}

// runFetchSpinner blocks until fetch returns, keeping the label spinning on
// output the whole time. The fetch's own error comes back unchanged.
func runFetchSpinner(ctx context.Context, output io.Writer, label string, fetch func(context.Context) error) error {
	model := fetchSpinnerModel{
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		label: label,
		fetch: func() tea.Msg {
			return fetchDoneMsg{err: fetch(ctx)}
		},
	}

	finalModel, err := tea.NewProgram(
		model,
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return err
	}

	settled, ok := finalModel.(fetchSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return settled.err
}
