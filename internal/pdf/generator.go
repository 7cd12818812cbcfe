package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/ecosort/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(report model.FleetReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "EcoSort Fleet Report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", formatTime(report.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Fleet overview", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Bins: %d, full: %d, warning: %d, offline: %d",
		len(report.Bins),
		report.CountByStatus(model.BinStatusFull),
		report.CountByStatus(model.BinStatusWarning),
		report.CountByStatus(model.BinStatusOffline)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Classifications recorded: %d", len(report.Classifications)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Complaints: %d", len(report.Complaints)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Bins", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"ID", "Type", "Address", "Fill, %", "Status", "Battery, %"}
	colWidths := []float64{22, 22, 70, 20, 24, 22}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, bin := range report.Bins {
		row := []string{
			bin.ID,
			string(bin.Type),
			bin.Address,
			fmt.Sprintf("%d", bin.FillLevel),
			string(bin.Status),
			fmt.Sprintf("%.0f", bin.BatteryLevel),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	if len(report.Classifications) > 0 {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Recent classifications", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)

		clsHeaders := []string{"Category", "Confidence", "Source", "Timestamp"}
		clsWidths := []float64{40, 30, 30, 80}
		drawTableRow(pdf, g.fontName, clsHeaders, clsWidths, true)

		limit := len(report.Classifications)
		if limit > 15 {
			limit = 15
		}
		for _, record := range report.Classifications[:limit] {
			row := []string{
				string(record.Result.Category),
				fmt.Sprintf("%.2f", record.Result.Confidence),
				record.Source,
				formatTime(record.Timestamp),
			}
			drawTableRow(pdf, g.fontName, row, clsWidths, false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}
