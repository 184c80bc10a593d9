package geofence

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrLocationUnavailable = errors.New("location is not available, enable GPS and try again")
	ErrSuspiciousLocation  = errors.New("location data looks suspicious, disable mock location apps and try again")
	ErrLocationIPMismatch  = errors.New("device location does not match network location")
	ErrOutOfRange          = errors.New("you are outside the office area")
)

// Fix is a device-reported position.
type Fix struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy"`
}

// Result describes an accepted fix.
type Result struct {
	DistanceMeters int  `json:"distance_meters"`
	InRange        bool `json:"in_range"`
}

// RejectionError carries the measured distance alongside one of the sentinel
// errors above. Use errors.Is against the sentinels.
type RejectionError struct {
	Reason         error
	DistanceMeters int
}

func (e *RejectionError) Error() string {
	if errors.Is(e.Reason, ErrOutOfRange) {
		return fmt.Sprintf("%s (%d m from office)", e.Reason.Error(), e.DistanceMeters)
	}
	return e.Reason.Error()
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// Evaluator decides whether a fix may be used for an attendance action.
type Evaluator interface {
	// Evaluate checks the fix and writes at most one security log entry for userID.
	Evaluate(ctx context.Context, userID string, fix Fix, clientIP string) (Result, error)

	// Measure returns the distance to the office without any side effects.
	Measure(fix Fix) Result
}
