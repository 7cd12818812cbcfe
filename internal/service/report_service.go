package service

import (
	"fmt"
	"time"

	"github.com/nurpe/ecosort/internal/model"
	"github.com/nurpe/ecosort/internal/store"
)

type ExcelGenerator interface {
	Generate(report model.FleetReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.FleetReport) ([]byte, error)
}

type ReportResult struct {
	FileName string
	Content  []byte
}

// ReportService renders the admin fleet report from the current store
// state.
type ReportService struct {
	store *store.Store
	excel ExcelGenerator
	pdf   PDFGenerator
}

func NewReportService(st *store.Store, excel ExcelGenerator, pdf PDFGenerator) *ReportService {
	return &ReportService{store: st, excel: excel, pdf: pdf}
}

func (s *ReportService) GenerateExcel() (*ReportResult, error) {
	report := s.buildReport()
	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		FileName: buildFileName(report, "xlsx"),
		Content:  content,
	}, nil
}

func (s *ReportService) GeneratePDF() (*ReportResult, error) {
	report := s.buildReport()
	content, err := s.pdf.Generate(report)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		FileName: buildFileName(report, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) buildReport() model.FleetReport {
	return model.FleetReport{
		GeneratedAt:     time.Now().UTC(),
		Bins:            s.store.Bins(),
		Classifications: s.store.Classifications(),
		Complaints:      s.store.Complaints(),
	}
}

func buildFileName(report model.FleetReport, ext string) string {
	return fmt.Sprintf("ecosort-fleet-%s.%s", report.GeneratedAt.Format("20060102-150405"), ext)
}
