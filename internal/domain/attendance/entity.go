package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// Attendance is one employee's record for one local day. Date is YYYY-MM-DD
// in the office zone; CheckIn and CheckOut are absolute instants.
type Attendance struct {
	ID         string
	EmployeeID string
	UserID     string
	Date       string
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     Status
	Latitude   *float64
	Longitude  *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	EmployeeName *string
	Department   *string
	Position     *string
}

// WorkingHours returns hours between check-in and check-out, when both exist.
func (a Attendance) WorkingHours() *float64 {
	if a.CheckIn == nil || a.CheckOut == nil {
		return nil
	}
	hours := a.CheckOut.Sub(*a.CheckIn).Hours()
	if hours < 0 {
		return nil
	}
	return &hours
}
