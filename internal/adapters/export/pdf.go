package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMarginMM     = 10.0
	pdfHeaderSizePt = 14.0
	pdfMetaSizePt   = 9.0
	pdfCellSizePt   = 8.0
	pdfRowHeightMM  = 6.0
	maxCellRunes    = 48
)

// WritePDF renders a formatted report: document header with the module's
// display name and range, a labelled column header row, then the data grid.
func WritePDF(w io.Writer, doc Document) error {
	columns := Columns(doc.Rows)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(true, pdfMarginMM)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", pdfHeaderSizePt)
	pdf.CellFormat(0, 8, doc.Title(), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", pdfMetaSizePt)
	pdf.CellFormat(0, 5, doc.DateRange(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%d records", len(doc.Rows)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Rows of empty objects carry no columns; an empty grid would divide the
	// usable width by zero.
	if len(columns) == 0 {
		pdf.SetFont("Helvetica", "I", pdfCellSizePt)
		pdf.CellFormat(0, pdfRowHeightMM, "No exportable fields in these records", "", 1, "L", false, 0, "")
		if err := pdf.Output(w); err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		return nil
	}

	pageWidth, _ := pdf.GetPageSize()
	usableWidth := pageWidth - 2*pdfMarginMM
	cellWidth := usableWidth / float64(len(columns))

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", pdfCellSizePt)
		pdf.SetFillColor(230, 230, 230)
		for _, column := range columns {
			pdf.CellFormat(cellWidth, pdfRowHeightMM, truncateCell(column), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	writeHeader()
	pdf.SetFont("Helvetica", "", pdfCellSizePt)

	_, pageHeight := pdf.GetPageSize()
	for _, row := range doc.Rows {
		if pdf.GetY()+pdfRowHeightMM > pageHeight-pdfMarginMM {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Helvetica", "", pdfCellSizePt)
		}
		for _, column := range columns {
			pdf.CellFormat(cellWidth, pdfRowHeightMM, truncateCell(formatCell(row[column])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	return nil
}

func truncateCell(value string) string {
	runes := []rune(value)
	if len(runes) <= maxCellRunes {
		return value
	}
	return string(runes[:maxCellRunes-1]) + "…"
}
