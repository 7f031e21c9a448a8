package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clubstack/crm-cli/internal/application"
	"github.com/clubstack/crm-cli/internal/domain"
)

const dateLayout = "2006-01-02"

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the pipeline modules available for export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, module := range domain.Modules() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", int(module), module.DisplayName())
			}
			return nil
		},
	}
}

func newExportCmd(app *app) *cobra.Command {
	var (
		moduleID int
		from     string
		to       string
		format   string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a pipeline module to PDF or CSV",
		Long:  "export fetches the selected module's records for a date range and writes them to a local file. Both dates are inclusive whole days; an omitted range means today. Nothing is written when the range holds no records.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildExportRequest(moduleID, from, to, format)
			if err != nil {
				return err
			}

			if err := requireSignedIn(cmd, app); err != nil {
				return err
			}

			var result application.ExportResult
			label := fmt.Sprintf("Exporting %s...", req.Module.DisplayName())
			err = runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), label, func(ctx context.Context) error {
				exported, exportErr := app.exports.Export(ctx, req, outPath)
				if exportErr != nil {
					return exportErr
				}
				result = exported
				return nil
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", result.RowCount, result.Path)
			return nil
		},
	}

	cmd.Flags().IntVar(&moduleID, "module", 0, "Module ID 1-10 (see \"crm modules\")")
	cmd.Flags().StringVar(&from, "from", "", "Range start, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&to, "to", "", "Range end, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: pdf or csv")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (default: derived from module and range)")
	_ = cmd.MarkFlagRequired("module")

	return cmd
}

func buildExportRequest(moduleID int, from, to, format string) (domain.ExportRequest, error) {
	module, err := domain.ParseModule(moduleID)
	if err != nil {
		return domain.ExportRequest{}, err
	}

	exportFormat, err := domain.ParseExportFormat(format)
	if err != nil {
		return domain.ExportRequest{}, err
	}

	req := domain.ExportRequest{Module: module, Format: exportFormat}

	if from != "" || to != "" {
		if req.Start, err = parseDate(from, "--from"); err != nil {
			return domain.ExportRequest{}, err
		}
		if req.End, err = parseDate(to, "--to"); err != nil {
			return domain.ExportRequest{}, err
		}
	}

	return req, nil
}

func parseDate(value, flag string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required when the other bound is set", flag)
	}

	parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: want YYYY-MM-DD, got %q", flag, value)
	}
	return parsed, nil
}
