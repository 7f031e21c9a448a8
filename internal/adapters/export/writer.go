// Package export renders fetched CRM rows into downloadable files entirely
// on the client. Row shapes are module-dependent, so columns are derived from
// the data itself.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clubstack/crm-cli/internal/domain"
)

// Document carries everything a renderer needs besides the rows themselves.
type Document struct {
	Module domain.Module
	Start  time.Time
	End    time.Time
	Rows   []domain.ExportRow
}

func (d Document) Title() string {
	return d.Module.DisplayName() + " Export"
}

func (d Document) DateRange() string {
	return d.Start.Format("2006-01-02") + " to " + d.End.Format("2006-01-02")
}

// Columns is the sorted union of keys across all rows. Sorting keeps repeated
// exports of the same data byte-identical.
func Columns(rows []domain.ExportRow) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

// FileName derives the output file name from the module and range, e.g.
// leads_2025-06-01_2025-06-30.csv.
func FileName(module domain.Module, format domain.ExportFormat, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		strings.ToLower(module.DisplayName()),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
		format)
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
