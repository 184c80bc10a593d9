package http

import (
	"net/http"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/dashboard"
	"github.com/diskominfo-klu/absensi-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDashboard returns today's recap and the month-to-date tally
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// GetDailyRecap returns attendance counts for a day
	GetDailyRecap(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard handles GET /admin/dashboard
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailyRecap handles GET /admin/dashboard/daily-recap
func (h *dashboardHandlerImpl) GetDailyRecap(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date") // format: YYYY-MM-DD, default: today

	result, err := h.dashboardService.GetDailyRecap(r.Context(), dashboard.DailyRecapRequest{Date: date})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
