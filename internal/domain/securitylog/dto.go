package securitylog

import (
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/validator"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type ListFilter struct {
	Limit     int     `json:"limit"`
	EventType *string `json:"event_type,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if f.EventType != nil {
		valid := []string{string(EventSuspiciousLocation), string(EventLocationIPMismatch), string(EventOutOfRange)}
		if !validator.IsInSlice(*f.EventType, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "event_type",
				Message: "event_type must be one of: suspicious_location_data, location_ip_mismatch, location_out_of_range",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EntryResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	EmployeeID     *string  `json:"employee_id,omitempty"`
	EmployeeName   *string  `json:"employee_name,omitempty"`
	EventType      string   `json:"event_type"`
	Description    string   `json:"description"`
	IPAddress      *string  `json:"ip_address,omitempty"`
	GPSLatitude    float64  `json:"gps_location_lat"`
	GPSLongitude   float64  `json:"gps_location_lng"`
	IPLatitude     *float64 `json:"ip_location_lat,omitempty"`
	IPLongitude    *float64 `json:"ip_location_lng,omitempty"`
	DistanceMeters *int     `json:"distance_meters,omitempty"`
	CreatedAt      string   `json:"created_at"`
}
