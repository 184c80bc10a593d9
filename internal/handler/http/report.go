package http

import (
	"net/http"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/report"
	"github.com/diskominfo-klu/absensi-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Monthly Attendance Report
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)

	// Monthly Attendance Report as XLSX
	ExportMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthlyAttendanceReport handles GET /admin/reports/monthly
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GenerateMonthlyReport(r.Context(), monthlyReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyAttendanceReport handles GET /admin/reports/monthly/export
func (h *reportHandlerImpl) ExportMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportMonthlyReport(r.Context(), monthlyReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

func monthlyReportRequest(r *http.Request) report.MonthlyReportRequest {
	req := report.MonthlyReportRequest{
		Month: r.URL.Query().Get("month"),
	}
	if department := r.URL.Query().Get("department"); department != "" {
		req.Department = &department
	}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	return req
}
