package attendance

import "time"

// Local hour boundaries. Windows are inclusive-start, exclusive-end.
const (
	CheckInStartHour  = 7
	LateFromHour      = 8
	CheckOutStartHour = 12
	CheckOutEndHour   = 19
)

// State is the day's progress, derived once from the stored record.
type State int

const (
	StateEmpty State = iota
	StateAwaitingCheckout
	StateLateCheckoutOnly
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAwaitingCheckout:
		return "awaiting_checkout"
	case StateLateCheckoutOnly:
		return "late_checkout_only"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// DeriveState maps a record to its state. A nil record, or a row with neither
// timestamp, is Empty.
func DeriveState(rec *Attendance) State {
	if rec == nil {
		return StateEmpty
	}
	switch {
	case rec.CheckIn != nil && rec.CheckOut != nil:
		return StateComplete
	case rec.CheckIn != nil:
		return StateAwaitingCheckout
	case rec.CheckOut != nil:
		return StateLateCheckoutOnly
	}
	return StateEmpty
}

type Action string

const (
	ActionCheckIn      Action = "check_in"
	ActionCheckOut     Action = "check_out"
	ActionLateCheckOut Action = "late_check_out"
)

// Decision is what a tap at a given moment does to the day's record.
// Status is empty for ActionCheckOut, which keeps the stored status.
type Decision struct {
	Action Action
	Status Status
}

// Decide applies the transition table to a state and the local wall clock.
// localNow must already be in the office zone.
func Decide(state State, localNow time.Time) (Decision, error) {
	hour := localNow.Hour()

	switch state {
	case StateEmpty:
		switch {
		case hour >= CheckInStartHour && hour < LateFromHour:
			return Decision{Action: ActionCheckIn, Status: StatusPresent}, nil
		case hour >= LateFromHour && hour < CheckOutStartHour:
			return Decision{Action: ActionCheckIn, Status: StatusLate}, nil
		case hour >= CheckOutStartHour && hour < CheckOutEndHour:
			return Decision{Action: ActionLateCheckOut, Status: StatusLate}, nil
		}
		return Decision{}, ErrCheckInWindowClosed

	case StateAwaitingCheckout:
		switch {
		case hour >= CheckOutStartHour && hour < CheckOutEndHour:
			return Decision{Action: ActionCheckOut}, nil
		case hour < CheckOutStartHour:
			return Decision{}, ErrAlreadyCheckedIn
		}
		return Decision{}, ErrCheckOutWindowClosed

	case StateLateCheckoutOnly:
		return Decision{}, ErrAlreadyLateCheckedOut

	case StateComplete:
		return Decision{}, ErrAttendanceComplete
	}

	return Decision{}, ErrUnknownState
}

// Apply returns a copy of rec with the decision written at instant now. For a
// nil rec the caller fills in the identity fields.
func Apply(rec *Attendance, d Decision, now time.Time, lat, lng float64) Attendance {
	var next Attendance
	if rec != nil {
		next = *rec
	}

	at := now
	switch d.Action {
	case ActionCheckIn:
		next.CheckIn = &at
		next.CheckOut = nil
		next.Status = d.Status
	case ActionLateCheckOut:
		next.CheckIn = nil
		next.CheckOut = &at
		next.Status = d.Status
	case ActionCheckOut:
		next.CheckOut = &at
	}

	next.Latitude = &lat
	next.Longitude = &lng
	return next
}

// WindowHint is the short guidance shown next to the attendance button.
func WindowHint(state State, localNow time.Time) string {
	hour := localNow.Hour()
	switch state {
	case StateComplete:
		return "Attendance for today is complete"
	case StateLateCheckoutOnly:
		return "Late check-out recorded for today"
	case StateAwaitingCheckout:
		if hour < CheckOutStartHour {
			return "Check-out opens at 12:00 WITA"
		}
		if hour < CheckOutEndHour {
			return "Check-out is open until 19:00 WITA"
		}
		return "Check-out window closed at 19:00 WITA"
	}

	switch {
	case hour >= CheckInStartHour && hour < LateFromHour:
		return "On time: check in before 08:00 WITA"
	case hour >= LateFromHour && hour < CheckOutStartHour:
		return "Late: check-in after 08:00 WITA is recorded as late"
	case hour >= CheckOutStartHour && hour < CheckOutEndHour:
		return "Check-in window missed: only late check-out is available until 19:00 WITA"
	}
	return "Check-in time: 07:00 - 12:00 WITA"
}
