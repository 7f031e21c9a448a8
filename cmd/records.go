package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	recordrender "github.com/clubstack/crm-cli/internal/adapters/render/record"
	"github.com/clubstack/crm-cli/internal/domain"
)

func newContractCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "contract <id>",
		Short: "Show a contract's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSignedIn(cmd, app); err != nil {
				return err
			}

			var contract domain.Contract
			err := app.sessions.WithAccessToken(cmd.Context(), func(ctx context.Context, accessToken string) error {
				fetched, fetchErr := app.records.ContractByID(ctx, accessToken, args[0])
				if fetchErr != nil {
					return fetchErr
				}
				contract = fetched
				return nil
			})
			if err != nil {
				return fmt.Errorf("fetch contract %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), recordrender.RenderContract(contract))
			return nil
		},
	}
}

func newInvoiceCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invoice <id>",
		Short: "Show an invoice's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSignedIn(cmd, app); err != nil {
				return err
			}

			var invoice domain.Invoice
			err := app.sessions.WithAccessToken(cmd.Context(), func(ctx context.Context, accessToken string) error {
				fetched, fetchErr := app.records.InvoiceByID(ctx, accessToken, args[0])
				if fetchErr != nil {
					return fetchErr
				}
				invoice = fetched
				return nil
			})
			if err != nil {
				return fmt.Errorf("fetch invoice %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), recordrender.RenderInvoice(invoice))
			return nil
		},
	}
}
