package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Tap validates the location, then checks in, checks out or records a late
	// check-out for the authenticated employee.
	Tap(ctx context.Context, req TapRequest) (TapResponse, error)

	// GetTodayStatus previews the current state and what a tap would do now.
	GetTodayStatus(ctx context.Context, req TodayStatusRequest) (TodayStatusResponse, error)

	// GetMyAttendance returns the authenticated employee's records for a month.
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) ([]AttendanceResponse, error)

	// ListDaily returns all records for one date (admin).
	ListDaily(ctx context.Context, filter DailyAttendanceFilter) ([]AttendanceResponse, error)

	// DeleteAttendance removes a record (admin housekeeping).
	DeleteAttendance(ctx context.Context, id string) error
}
