package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	chatrender "github.com/clubstack/crm-cli/internal/adapters/render/chat"
	"github.com/clubstack/crm-cli/internal/domain"
)

func newAskCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask AI Ideas about your CRM data",
		Long:  "ask answers a free-text question over your CRM data. With a question argument it prints the answer and exits; without one it opens an interactive chat.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSignedIn(cmd, app); err != nil {
				return err
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return chatrender.Run(app.chat)
			}

			var answer domain.ChatMessage
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Asking AI Ideas...", func(ctx context.Context) error {
				sent, sendErr := app.chat.Send(ctx, question)
				answer = sent
				return sendErr
			})
			if err != nil {
				if answer.Content == "" {
					return err
				}
				app.logger.Debug().Err(err).Msg("assistant request failed")
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "AI Ideas is unavailable right now; showing a fallback answer.")
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), answer.Content)
			return nil
		},
	}
}
