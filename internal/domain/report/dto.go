package report

import (
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyReportRequest struct {
	Month      string  `json:"month"`
	Department *string `json:"department,omitempty"`
	Search     *string `json:"search,omitempty"`

	// Parsed by Validate
	Year       int        `json:"-"`
	MonthValue time.Month `json:"-"`
}

// Validate defaults Month to the month of now and parses it.
func (r *MonthlyReportRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		r.Month = now.Format("2006-01")
	}

	parsed, ok := validator.IsValidMonth(r.Month)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	} else if parsed.Year() < 2020 || parsed.Year() > now.Year()+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is out of the supported range",
		})
	} else {
		r.Year = parsed.Year()
		r.MonthValue = parsed.Month()
	}

	if r.Department != nil && validator.IsEmpty(*r.Department) {
		r.Department = nil
	}
	if r.Search != nil && validator.IsEmpty(*r.Search) {
		r.Search = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	Month            string           `json:"month"`
	PeriodStart      string           `json:"period_start"`
	PeriodEnd        string           `json:"period_end"`
	TotalWorkingDays int              `json:"total_working_days"`
	GeneratedAt      string           `json:"generated_at"`
	Averages         Averages         `json:"averages"`
	Employees        []MonthlySummary `json:"employees"`
}

// Averages are the means of the per-employee percentages, one decimal place.
type Averages struct {
	PresentPercentage float64 `json:"present_percentage"`
	LatePercentage    float64 `json:"late_percentage"`
	AbsentPercentage  float64 `json:"absent_percentage"`
}

// MonthlySummary is derived on every request and never stored.
type MonthlySummary struct {
	EmployeeID        string `json:"employee_id"`
	Name              string `json:"name"`
	Department        string `json:"department"`
	Position          string `json:"position"`
	TotalWorkingDays  int    `json:"total_days"`
	PresentDays       int    `json:"present_days"`
	LateDays          int    `json:"late_days"`
	AbsentDays        int    `json:"absent_days"`
	PresentPercentage int    `json:"present_percentage"`
	LatePercentage    int    `json:"late_percentage"`
	AbsentPercentage  int    `json:"absent_percentage"`

	// DataIntegrityWarning is set when attended days exceeded working days and
	// AbsentDays was clamped to zero.
	DataIntegrityWarning bool `json:"data_integrity_warning"`

	Details []DailyDetail `json:"attendance_details"`
}

type DailyDetail struct {
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	WorkingDay   bool    `json:"working_day"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
