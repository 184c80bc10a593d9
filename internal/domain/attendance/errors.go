package attendance

import "errors"

// Attendance domain errors
var (
	// Time window errors
	ErrCheckInWindowClosed  = errors.New("check-in is only available 07:00-12:00 WITA; between 12:00 and 19:00 WITA only late check-out is available")
	ErrCheckOutWindowClosed = errors.New("check-out is only available 12:00-19:00 WITA")
	ErrAlreadyCheckedIn     = errors.New("you have already checked in today; check-out opens at 12:00 WITA")

	// State conflict errors
	ErrAlreadyLateCheckedOut = errors.New("you already recorded a late check-out today and cannot check in retroactively")
	ErrAttendanceComplete    = errors.New("attendance for today is already complete")

	// Storage errors
	ErrConcurrentWrite    = errors.New("attendance record was written concurrently")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnknownState       = errors.New("unknown attendance state")
)
