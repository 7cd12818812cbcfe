package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/ecosort/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.FleetReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	file.NewSheet("Bins")
	if err := g.writeBins(file, "Bins", report.Bins); err != nil {
		return nil, err
	}

	file.NewSheet("Classifications")
	if err := g.writeClassifications(file, "Classifications", report.Classifications); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.FleetReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Generated at")
	set("B1", formatTime(report.GeneratedAt))
	set("A2", "Total bins")
	set("B2", len(report.Bins))
	set("A3", "Bins full")
	set("B3", report.CountByStatus(model.BinStatusFull))
	set("A4", "Bins in warning")
	set("B4", report.CountByStatus(model.BinStatusWarning))
	set("A5", "Bins offline")
	set("B5", report.CountByStatus(model.BinStatusOffline))
	set("A6", "Classifications recorded")
	set("B6", len(report.Classifications))
	set("A7", "Open complaints")
	set("B7", countOpenComplaints(report.Complaints))

	return nil
}

func (g *Generator) writeBins(file *excelize.File, sheet string, bins []model.Bin) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"ID", "Type", "Address", "Fill level, %", "Status", "Battery, %", "Last collection"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, bin := range bins {
		row := i + 2
		set(fmt.Sprintf("A%d", row), bin.ID)
		set(fmt.Sprintf("B%d", row), string(bin.Type))
		set(fmt.Sprintf("C%d", row), bin.Address)
		set(fmt.Sprintf("D%d", row), bin.FillLevel)
		set(fmt.Sprintf("E%d", row), string(bin.Status))
		set(fmt.Sprintf("F%d", row), bin.BatteryLevel)
		set(fmt.Sprintf("G%d", row), formatTime(bin.LastCollection))
	}
	return nil
}

func (g *Generator) writeClassifications(file *excelize.File, sheet string, records []model.ClassificationRecord) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"ID", "Category", "Confidence", "Source", "Timestamp", "Tips"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, record := range records {
		row := i + 2
		set(fmt.Sprintf("A%d", row), record.ID)
		set(fmt.Sprintf("B%d", row), string(record.Result.Category))
		set(fmt.Sprintf("C%d", row), record.Result.Confidence)
		set(fmt.Sprintf("D%d", row), record.Source)
		set(fmt.Sprintf("E%d", row), formatTime(record.Timestamp))
		set(fmt.Sprintf("F%d", row), record.Result.Tips)
	}
	return nil
}

func countOpenComplaints(complaints []model.Complaint) int {
	count := 0
	for _, complaint := range complaints {
		if complaint.Status != model.ComplaintResolved {
			count++
		}
	}
	return count
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}
