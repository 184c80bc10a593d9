package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Tap(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	ListDaily(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Tap implements AttendanceHandler.
func (h *attendanceHandlerImpl) Tap(w http.ResponseWriter, r *http.Request) {
	var req attendance.TapRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Tap decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ClientIP = clientIP(r)

	result, err := h.attendanceService.Tap(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	var req attendance.TodayStatusRequest

	// Coordinates are optional; malformed ones are ignored
	if lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64); err == nil {
		req.Latitude = &lat
	}
	if lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64); err == nil {
		req.Longitude = &lng
	}

	result, err := h.attendanceService.GetTodayStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter, ok := monthFilter(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// monthFilter reads optional month and year query params. It writes a 400
// and returns false when either is not a number.
func monthFilter(w http.ResponseWriter, r *http.Request) (attendance.MyAttendanceFilter, bool) {
	filter := attendance.MyAttendanceFilter{}

	if m := r.URL.Query().Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			response.BadRequest(w, "month must be a number", nil)
			return filter, false
		}
		filter.Month = month
	}
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return filter, false
		}
		filter.Year = year
	}
	return filter, true
}

// ListDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListDaily(w http.ResponseWriter, r *http.Request) {
	filter := attendance.DailyAttendanceFilter{
		Date: r.URL.Query().Get("date"),
	}

	result, err := h.attendanceService.ListDaily(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
