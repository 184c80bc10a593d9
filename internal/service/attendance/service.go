package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/geofence"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/sse"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"github.com/diskominfo-klu/absensi-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx postgresql.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	evaluator geofence.Evaluator
	clock     *timezone.Clock
	office    attendance.OfficeResponse
	events    sse.Publisher
}

func NewAttendanceService(
	tx postgresql.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	evaluator geofence.Evaluator,
	clock *timezone.Clock,
	office attendance.OfficeResponse,
	events sse.Publisher,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		evaluator:            evaluator,
		clock:                clock,
		office:               office,
		events:               events,
	}
}

// currentEmployee resolves the caller's profile. The employee id always comes
// from the stored profile, never from the token.
func (a *AttendanceServiceImpl) currentEmployee(ctx context.Context) (employee.Employee, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	emp, err := a.EmployeeRepository.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee profile: %w", err)
	}
	return emp, nil
}

// Tap implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Tap(ctx context.Context, req attendance.TapRequest) (attendance.TapResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return attendance.TapResponse{}, geofence.ErrLocationUnavailable
	}
	if err := req.Validate(); err != nil {
		return attendance.TapResponse{}, err
	}

	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.TapResponse{}, err
	}

	now := a.clock.Now()
	date := a.clock.DateOf(now)

	fix := geofence.Fix{Latitude: *req.Latitude, Longitude: *req.Longitude, AccuracyMeters: *req.Accuracy}
	result, err := a.evaluator.Evaluate(ctx, emp.UserID, fix, req.ClientIP)
	if err != nil {
		return attendance.TapResponse{}, err
	}

	saved, decision, err := a.recordTap(ctx, emp, date, now, fix)
	if errors.Is(err, attendance.ErrConcurrentWrite) {
		// Another tap created the row first; the re-read sees it.
		slog.Info("Concurrent attendance write, retrying", "employee_id", emp.EmployeeID, "date", date)
		saved, decision, err = a.recordTap(ctx, emp, date, now, fix)
	}
	if err != nil {
		return attendance.TapResponse{}, err
	}

	slog.Info("Attendance recorded",
		"employee_id", emp.EmployeeID,
		"date", date,
		"action", string(decision.Action),
		"status", string(saved.Status),
		"distance_meters", result.DistanceMeters,
	)

	saved.EmployeeName = &emp.Name
	saved.Department = &emp.Department
	saved.Position = &emp.Position
	resp := a.mapAttendanceToResponse(saved)

	a.publish(emp.UserID, resp, decision.Action)

	return attendance.TapResponse{
		Action:         string(decision.Action),
		Message:        a.tapMessage(decision.Action, saved, now),
		DistanceMeters: result.DistanceMeters,
		Attendance:     resp,
	}, nil
}

// recordTap runs one read-decide-write cycle with the day row locked.
func (a *AttendanceServiceImpl) recordTap(ctx context.Context, emp employee.Employee, date string, now time.Time, fix geofence.Fix) (attendance.Attendance, attendance.Decision, error) {
	var saved attendance.Attendance
	var decision attendance.Decision

	err := a.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(txCtx, emp.EmployeeID, date, true)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		decision, err = attendance.Decide(attendance.DeriveState(existing), now)
		if err != nil {
			return err
		}

		next := attendance.Apply(existing, decision, now, fix.Latitude, fix.Longitude)
		if existing == nil {
			next.EmployeeID = emp.EmployeeID
			next.UserID = emp.UserID
			next.Date = date
			saved, err = a.AttendanceRepository.Create(txCtx, next)
			if err != nil {
				if errors.Is(err, attendance.ErrConcurrentWrite) {
					return err
				}
				return fmt.Errorf("failed to create attendance: %w", err)
			}
			return nil
		}

		saved, err = a.AttendanceRepository.Update(txCtx, next)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})

	return saved, decision, err
}

func (a *AttendanceServiceImpl) publish(userID string, resp attendance.AttendanceResponse, action attendance.Action) {
	if a.events == nil {
		return
	}
	event := sse.Event{
		Event: sse.EventAttendanceRecorded,
		Data: map[string]interface{}{
			"action":     string(action),
			"attendance": resp,
		},
	}
	a.events.Publish(userID, event)
	a.events.PublishToAdmins(event)
}

func (a *AttendanceServiceImpl) tapMessage(action attendance.Action, rec attendance.Attendance, now time.Time) string {
	at := a.clock.FormatTime(now)
	switch action {
	case attendance.ActionCheckIn:
		if rec.Status == attendance.StatusLate {
			return fmt.Sprintf("Check-in recorded at %s WITA (late)", at)
		}
		return fmt.Sprintf("Check-in recorded at %s WITA (on time)", at)
	case attendance.ActionCheckOut:
		return fmt.Sprintf("Check-out recorded at %s WITA", at)
	case attendance.ActionLateCheckOut:
		return fmt.Sprintf("Late check-out recorded at %s WITA without check-in", at)
	}
	return "Attendance recorded"
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, req attendance.TodayStatusRequest) (attendance.TodayStatusResponse, error) {
	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	now := a.clock.Now()
	date := a.clock.DateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.EmployeeID, date, false)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	state := attendance.DeriveState(existing)
	resp := attendance.TodayStatusResponse{
		Date:       date,
		ServerTime: now.UTC().Format(time.RFC3339),
		LocalTime:  a.clock.FormatTime(now),
		State:      state.String(),
		Hint:       attendance.WindowHint(state, now),
		Office:     a.office,
	}

	decision, err := attendance.Decide(state, now)
	if err != nil {
		reason := err.Error()
		resp.Blocked = &reason
	} else {
		action := previewAction(decision)
		resp.NextAction = &action
		if decision.Status != "" {
			status := string(decision.Status)
			resp.NextStatus = &status
		}
	}

	if existing != nil {
		existing.EmployeeName = &emp.Name
		existing.Department = &emp.Department
		existing.Position = &emp.Position
		r := a.mapAttendanceToResponse(*existing)
		resp.Attendance = &r
	}

	if req.Latitude != nil && req.Longitude != nil {
		m := a.evaluator.Measure(geofence.Fix{Latitude: *req.Latitude, Longitude: *req.Longitude})
		resp.Distance = &m.DistanceMeters
		resp.InRange = &m.InRange
	}

	return resp, nil
}

// previewAction names what a tap would do, splitting check-in by status.
func previewAction(d attendance.Decision) string {
	if d.Action == attendance.ActionCheckIn {
		return string(d.Action) + "_" + string(d.Status)
	}
	return string(d.Action)
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(a.clock.Now()); err != nil {
		return nil, err
	}

	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return nil, err
	}

	first, last := a.clock.MonthRange(filter.Year, time.Month(filter.Month))
	records, err := a.AttendanceRepository.ListByEmployee(ctx, emp.EmployeeID, first.Format(timezone.DateLayout), last.Format(timezone.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.mapAttendanceToResponse(rec))
	}
	return responses, nil
}

// ListDaily implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListDaily(ctx context.Context, filter attendance.DailyAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(a.clock.Today()); err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByDate(ctx, filter.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		fillUnknownProfile(&rec)
		responses = append(responses, a.mapAttendanceToResponse(rec))
	}
	return responses, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	// ids are UUIDs; anything else cannot match a row.
	parsed, err := uuid.Parse(id)
	if err != nil {
		return attendance.ErrAttendanceNotFound
	}
	id = parsed.String()

	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	slog.Info("Attendance deleted", "attendance_id", id)
	return nil
}

func fillUnknownProfile(rec *attendance.Attendance) {
	if rec.EmployeeName == nil {
		name := employee.UnknownName
		rec.EmployeeName = &name
	}
	if rec.Department == nil {
		dept := employee.UnknownDepartment
		rec.Department = &dept
	}
	if rec.Position == nil {
		pos := employee.UnknownPosition
		rec.Position = &pos
	}
}

func (a *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := a.clock.FormatTime(*t)
	return &s
}

func timePtrToRFC3339(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func (a *AttendanceServiceImpl) mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: att.EmployeeName,
		Department:   att.Department,
		Position:     att.Position,
		Date:         att.Date,
		CheckInTime:  a.timePtrToString(att.CheckIn),
		CheckOutTime: a.timePtrToString(att.CheckOut),
		CheckInAt:    timePtrToRFC3339(att.CheckIn),
		CheckOutAt:   timePtrToRFC3339(att.CheckOut),
		Status:       string(att.Status),
		Latitude:     att.Latitude,
		Longitude:    att.Longitude,
		WorkingHours: att.WorkingHours(),
		CreatedAt:    att.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    att.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
