package http

import (
	"net/http"
	"strconv"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/securitylog"
	"github.com/diskominfo-klu/absensi-backend-go/internal/handler/http/response"
)

type SecurityLogHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type securityLogHandlerImpl struct {
	securityLogService securitylog.SecurityLogService
}

func NewSecurityLogHandler(securityLogService securitylog.SecurityLogService) SecurityLogHandler {
	return &securityLogHandlerImpl{securityLogService: securityLogService}
}

// List handles GET /admin/security-logs
func (h *securityLogHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := securitylog.ListFilter{}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limit
	}
	if eventType := r.URL.Query().Get("event_type"); eventType != "" {
		filter.EventType = &eventType
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}

	result, err := h.securityLogService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
