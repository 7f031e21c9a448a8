package session

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/clubstack/crm-cli/internal/application"
	"github.com/clubstack/crm-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(state application.GuardState, session domain.Session, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("CRM Session")}

	switch state {
	case application.GuardAuthenticated:
		lines = append(lines,
			line(s, "status", s.good.Render("signed in")),
			line(s, "user", s.value.Render(session.User.DisplayName())),
			line(s, "email", s.value.Render(session.User.Email)),
			line(s, "expires", s.value.Render(formatExpiry(session.ExpiresAt, opts.Now))),
		)
	case application.GuardChecking:
		lines = append(lines, line(s, "status", s.muted.Render("checking...")))
	default:
		lines = append(lines,
			line(s, "status", s.warning.Render("signed out")),
			s.muted.Render("Run `crm login` to sign in."),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func line(s styles, label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label+": "), value)
}

func formatExpiry(expiresAt, now time.Time) string {
	if expiresAt.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return expiresAt.Format(time.RFC3339)
	}
	if expiresAt.Before(now) {
		return "expired (refresh pending)"
	}

	remaining := expiresAt.Sub(now)
	if remaining < time.Minute {
		return "in under a minute"
	}
	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		return fmt.Sprintf("in %d min (%s)", minutes, expiresAt.Format("15:04"))
	}

	hours := int(math.Ceil(remaining.Hours()))
	return fmt.Sprintf("in %d h (%s)", hours, expiresAt.Format("15:04"))
}
