package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clubstack/crm-cli/internal/domain"
	"github.com/clubstack/crm-cli/internal/ports"
)

var _ ports.ExportAPI = (*Client)(nil)

// rfc3339Millis matches the wire format of the export endpoint's day-boundary
// timestamps, millisecond precision included.
const rfc3339Millis = "2006-01-02T15:04:05.000Z07:00"

type exportRequest struct {
	ModuleID  int    `json:"moduleId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (c *Client) ExportRows(ctx context.Context, accessToken string, req domain.ExportRequest) ([]domain.ExportRow, error) {
	payload, err := c.roundTrip(ctx, http.MethodPost, "/export", accessToken, exportRequest{
		ModuleID:  int(req.Module),
		StartDate: req.Start.Format(rfc3339Millis),
		EndDate:   req.End.Format(rfc3339Millis),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch export rows: %w", err)
	}

	data, err := decodeEnvelope(payload)
	if err != nil {
		return nil, err
	}

	var rows []domain.ExportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("export payload is not a row list: %w", err)
	}

	return rows, nil
}
