package session

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clubstack/crm-cli/internal/application"
	"github.com/clubstack/crm-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	state   application.GuardState
	session domain.Session
	opts    RenderOptions
	styles  styles
	output  string
}

func newModel(state application.GuardState, session domain.Session, opts RenderOptions) model {
	return model{
		state:   state,
		session: session,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.state, m.session, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func Render(state application.GuardState, session domain.Session, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(state, session, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
