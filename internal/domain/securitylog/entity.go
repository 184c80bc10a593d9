package securitylog

import "time"

type EventType string

const (
	EventSuspiciousLocation EventType = "suspicious_location_data"
	EventLocationIPMismatch EventType = "location_ip_mismatch"
	EventOutOfRange         EventType = "location_out_of_range"
)

// Entry is one append-only record of a rejected or anomalous location fix.
type Entry struct {
	ID             string
	UserID         string
	EventType      EventType
	Description    string
	IPAddress      *string
	GPSLatitude    float64
	GPSLongitude   float64
	IPLatitude     *float64
	IPLongitude    *float64
	DistanceMeters *int
	CreatedAt      time.Time

	// Join
	EmployeeID   *string
	EmployeeName *string
}
