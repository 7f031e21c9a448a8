// Package chat is the interactive AI Ideas view: a transcript, an input line,
// and a transient error banner. The transcript itself lives in the chat
// service; this model only drives sends and renders what the service holds.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clubstack/crm-cli/internal/application"
	"github.com/clubstack/crm-cli/internal/domain"
)

const unavailableBanner = "AI Ideas is unavailable right now. Your question is kept in the transcript; send it again to retry."

type answerMsg struct {
	err error
}

type Model struct {
	chat    *application.ChatService
	input   textinput.Model
	spin    spinner.Model
	styles  styles
	waiting bool
	banner  string
	done    bool
}

func NewModel(chat *application.ChatService) Model {
	input := textinput.New()
	input.Placeholder = "Ask about your CRM data..."
	input.CharLimit = 500
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		chat:   chat,
		input:  input,
		spin:   spin,
		styles: newStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if m.waiting || question == "" {
				return m, nil
			}
			m.waiting = true
			m.banner = ""
			m.input.Reset()
			return m, tea.Batch(m.spin.Tick, m.sendCmd(question))
		}
	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.banner = unavailableBanner
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendCmd runs the remote ask off the UI loop. Quitting mid-flight leaves
// the request to finish on its own; the resulting message is simply never
// delivered.
func (m Model) sendCmd(question string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.chat.Send(context.Background(), question)
		return answerMsg{err: err}
	}
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	lines := []string{m.styles.title.Render("AI Ideas"), ""}

	for _, message := range m.chat.Transcript() {
		label := m.styles.assistant.Render("assistant")
		if message.Role == domain.ChatRoleUser {
			label = m.styles.user.Render("you")
		}
		lines = append(lines, label+" "+m.styles.content.Render(message.Content))
	}

	if m.banner != "" {
		lines = append(lines, "", m.styles.banner.Render(m.banner))
	}

	if m.waiting {
		lines = append(lines, "", m.spin.View()+" thinking...")
	} else {
		lines = append(lines, "", m.input.View(), m.styles.hint.Render("enter to send, esc to leave"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Run drives the interactive chat until the user leaves.
func Run(chat *application.ChatService) error {
	_, err := tea.NewProgram(NewModel(chat)).Run()
	return err
}
