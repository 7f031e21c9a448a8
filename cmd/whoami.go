package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sessionrender "github.com/clubstack/crm-cli/internal/adapters/render/session"
	"github.com/clubstack/crm-cli/internal/application"
	"github.com/clubstack/crm-cli/internal/domain"
)

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := app.guard.Resolve(cmd.Context())
			if err != nil {
				return fmt.Errorf("resolve session: %w", err)
			}

			session, _ := app.sessions.Current()
			out, err := sessionrender.Render(state, session, sessionrender.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render session: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// requireSignedIn settles the guard before a protected command touches the
// network, so an expired-but-refreshable session never bounces to sign-in.
func requireSignedIn(cmd *cobra.Command, app *app) error {
	state, err := app.guard.Resolve(cmd.Context())
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}
	if state != application.GuardAuthenticated {
		return fmt.Errorf("%w: run \"crm login\" first", domain.ErrNoSession)
	}
	return nil
}
