package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders a raw tabular dump: one header row of derived columns,
// then every fetched row in order.
func WriteCSV(w io.Writer, doc Document) error {
	columns := Columns(doc.Rows)

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range doc.Rows {
		for i, column := range columns {
			record[i] = formatCell(row[column])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}
