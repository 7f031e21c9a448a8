package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your CRM credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", session.User.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
