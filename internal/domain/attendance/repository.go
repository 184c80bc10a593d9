package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are YYYY-MM-DD strings in the office zone.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns the day's record or nil when none exists.
	// Inside a transaction, forUpdate locks the row until commit.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string, forUpdate bool) (*Attendance, error)

	// Create inserts a new record. It returns ErrConcurrentWrite when a record
	// for the same employee and date already exists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update writes check-in, check-out, status and location of an existing record.
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// ListByEmployee returns one employee's records in [from, to], newest first.
	ListByEmployee(ctx context.Context, employeeID string, from, to string) ([]Attendance, error)

	// ListByDate returns every record on a date joined with the employee profile.
	ListByDate(ctx context.Context, date string) ([]Attendance, error)

	// ListByDateRange returns raw records in [from, to]. Duplicates are not removed.
	ListByDateRange(ctx context.Context, from, to string) ([]Attendance, error)

	// Delete removes a record by id. It returns ErrAttendanceNotFound when nothing matched.
	Delete(ctx context.Context, id string) error
}
