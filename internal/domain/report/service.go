package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// GenerateMonthlyReport summarizes every matching employee for one month
	GenerateMonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// ExportMonthlyReport renders the monthly report as an XLSX workbook
	ExportMonthlyReport(ctx context.Context, req MonthlyReportRequest) (ExportFile, error)
}
