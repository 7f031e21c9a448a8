package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crm",
		Short:         "ClubStack CRM CLI: sign in, export pipeline data, ask AI Ideas",
		Long:          "crm is the terminal client for the ClubStack sports CRM. It keeps your session fresh in the background, exports any pipeline module to PDF or CSV, shows contract and invoice details, and answers free-text questions over your CRM data.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newModulesCmd(),
		newExportCmd(app),
		newAskCmd(app),
		newContractCmd(app),
		newInvoiceCmd(app),
	)

	return rootCmd
}
