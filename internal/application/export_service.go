package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	exportfile "github.com/clubstack/crm-cli/internal/adapters/export"
	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

// ExportService turns a module + date range + format selection into exactly
// one downloaded file. Export never mutates server state, so re-running with
// identical inputs is always safe.
type ExportService struct {
	api      ports.ExportAPI
	sessions *SessionService
	clock    ports.Clock
	logger   zerolog.Logger
}

func NewExportService(api ports.ExportAPI, sessions *SessionService, clock ports.Clock, logger zerolog.Logger) *ExportService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ExportService{
		api:      api,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

type ExportResult struct {
	Path     string
	RowCount int
}

// Export validates the selection, fetches the raw rows, and renders them
// client-side. Validation failures never reach the network; remote failures
// and empty results abort before any file is produced. An untouched range
// defaults to today–today; an empty outPath derives the file name from the
// module and range.
func (s *ExportService) Export(ctx context.Context, req domain.ExportRequest, outPath string) (ExportResult, error) {
	if req.Start.IsZero() && req.End.IsZero() {
		today := s.clock.Now()
		req.Start = today
		req.End = today
	}

	if err := req.Validate(); err != nil {
		return ExportResult{}, err
	}
	req = req.Normalized()

	var rows []domain.ExportRow
	err := s.sessions.WithAccessToken(ctx, func(ctx context.Context, accessToken string) error {
		fetched, err := s.api.ExportRows(ctx, accessToken, req)
		if err != nil {
			return err
		}
		rows = fetched
		return nil
	})
	if err != nil {
		return ExportResult{}, err
	}

	if len(rows) == 0 {
		return ExportResult{}, fmt.Errorf("%w: %s between %s and %s", domain.ErrEmptyExport,
			req.Module.DisplayName(), req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
	}

	if outPath == "" {
		outPath = exportfile.FileName(req.Module, req.Format, req.Start, req.End)
	}

	if err := s.writeFile(outPath, req, rows); err != nil {
		return ExportResult{}, err
	}

	s.logger.Info().
		Str("module", req.Module.DisplayName()).
		Str("path", outPath).
		Int("rows", len(rows)).
		Msg("export written")

	return ExportResult{Path: outPath, RowCount: len(rows)}, nil
}

func (s *ExportService) writeFile(outPath string, req domain.ExportRequest, rows []domain.ExportRow) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	doc := exportfile.Document{
		Module: req.Module,
		Start:  req.Start,
		End:    req.End,
		Rows:   rows,
	}

	var writeErr error
	switch req.Format {
	case domain.ExportFormatCSV:
		writeErr = exportfile.WriteCSV(file, doc)
	case domain.ExportFormatPDF:
		writeErr = exportfile.WritePDF(file, doc)
	default:
		writeErr = fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, req.Format)
	}

	closeErr := file.Close()
	if writeErr != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("render export: %w", writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("close export file: %w", closeErr)
	}

	return nil
}

// IsValidationError reports whether err was caught before any network call.
func IsValidationError(err error) bool {
	return errors.Is(err, domain.ErrNoModuleSelected) ||
		errors.Is(err, domain.ErrUnknownModule) ||
		errors.Is(err, domain.ErrUnsupportedFormat) ||
		errors.Is(err, domain.ErrInvalidDateRange)
}
