package http

import (
	"net/http"

	empDashboard "github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee_dashboard"
	"github.com/diskominfo-klu/absensi-backend-go/internal/handler/http/response"
)

type EmployeeDashboardHandler interface {
	// GetAttendanceSummary returns the caller's month-to-date attendance tally
	GetAttendanceSummary(w http.ResponseWriter, r *http.Request)
}

type employeeDashboardHandlerImpl struct {
	service empDashboard.EmployeeDashboardService
}

func NewEmployeeDashboardHandler(service empDashboard.EmployeeDashboardService) EmployeeDashboardHandler {
	return &employeeDashboardHandlerImpl{service: service}
}

// GetAttendanceSummary handles GET /attendance/my/summary
// Query params:
//   - month: 1-12 (default: current month)
//   - year: YYYY (default: current year)
func (h *employeeDashboardHandlerImpl) GetAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := monthFilter(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetAttendanceSummary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
