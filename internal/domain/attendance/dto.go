package attendance

import (
	"fmt"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// TapRequest is one press of the attendance button. The server decides whether
// it is a check-in, a check-out or a late check-out.
type TapRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	ClientIP  string   `json:"-"`
}

func (r *TapRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Accuracy == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy is required",
		})
	} else if *r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TapResponse struct {
	Action         string             `json:"action"`
	Message        string             `json:"message"`
	DistanceMeters int                `json:"distance_meters"`
	Attendance     AttendanceResponse `json:"attendance"`
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName *string  `json:"employee_name,omitempty"`
	Department   *string  `json:"department,omitempty"`
	Position     *string  `json:"position,omitempty"`
	Date         string   `json:"date"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	CheckInAt    *string  `json:"check_in_at"`
	CheckOutAt   *string  `json:"check_out_at"`
	Status       string   `json:"status"`
	Latitude     *float64 `json:"location_lat,omitempty"`
	Longitude    *float64 `json:"location_lng,omitempty"`
	WorkingHours *float64 `json:"working_hours,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type OfficeResponse struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// TodayStatusResponse previews what a tap would do right now.
type TodayStatusResponse struct {
	Date       string              `json:"date"`
	ServerTime string              `json:"server_time"`
	LocalTime  string              `json:"local_time"`
	State      string              `json:"state"`
	NextAction *string             `json:"next_action"`
	NextStatus *string             `json:"next_status,omitempty"`
	Blocked    *string             `json:"blocked_reason,omitempty"`
	Hint       string              `json:"hint"`
	Attendance *AttendanceResponse `json:"attendance"`
	Office     OfficeResponse      `json:"office"`
	Distance   *int                `json:"distance_meters,omitempty"`
	InRange    *bool               `json:"in_range,omitempty"`
}

// TodayStatusRequest optionally carries the latest fix so the preview can show distance.
type TodayStatusRequest struct {
	Latitude  *float64
	Longitude *float64
}

type MyAttendanceFilter struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Validate fills in the current month when both fields are zero.
func (f *MyAttendanceFilter) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if f.Month == 0 && f.Year == 0 {
		f.Month = int(now.Month())
		f.Year = now.Year()
	}

	if f.Month < 1 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if f.Year < 2020 || f.Year > now.Year()+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", now.Year()+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyAttendanceFilter struct {
	Date string `json:"date"`
}

func (f *DailyAttendanceFilter) Validate(today string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.Date) {
		f.Date = today
	}

	if _, valid := validator.IsValidDate(f.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
