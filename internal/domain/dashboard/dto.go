package dashboard

import (
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/validator"
)

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the admin dashboard endpoint
type DashboardResponse struct {
	DailyRecap        DailyRecapResponse        `json:"daily_recap"`
	MonthlyAttendance MonthlyAttendanceResponse `json:"monthly_attendance"`
}

// ========== DAILY RECAP ==========

// DailyRecapResponse counts how many employees checked in on one local date.
type DailyRecapResponse struct {
	Date            string  `json:"date"` // Format: "YYYY-MM-DD"
	WorkingDay      bool    `json:"working_day"`
	TotalEmployees  int64   `json:"total_employees"`
	Present         int64   `json:"present"`
	Late            int64   `json:"late"`
	CheckedOut      int64   `json:"checked_out"`
	NoRecord        int64   `json:"no_record"`
	PresentPercent  float64 `json:"present_percent"`
	LatePercent     float64 `json:"late_percent"`
	NoRecordPercent float64 `json:"no_record_percent"`
	GeneratedAt     string  `json:"generated_at"`
}

// ========== MONTHLY ATTENDANCE ==========

// MonthlyAttendanceResponse is the month-to-date tally with the latest records
type MonthlyAttendanceResponse struct {
	Present int64                  `json:"present"`
	Late    int64                  `json:"late"`
	Records []AttendanceRecordItem `json:"records"` // Latest 10 records
	Month   string                 `json:"month"`   // Format: "YYYY-MM"
}

// AttendanceRecordItem represents a single attendance record in the list
type AttendanceRecordItem struct {
	No           int     `json:"no"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in,omitempty"` // Format: "HH:MM"
}

// DailyRecapRequest selects the date; empty means today.
type DailyRecapRequest struct {
	Date string `json:"date"`
}

func (r *DailyRecapRequest) Validate(today string) error {
	if validator.IsEmpty(r.Date) {
		r.Date = today
		return nil
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}
