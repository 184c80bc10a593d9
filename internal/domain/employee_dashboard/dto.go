package employee_dashboard

// AttendanceSummaryResponse is one employee's month-to-date tally. Days are
// counted up to today for the current month, through the last day for past
// months, and not at all for future months.
type AttendanceSummaryResponse struct {
	Month                int    `json:"month"`
	Year                 int    `json:"year"`
	Through              string `json:"through,omitempty"` // last date counted, YYYY-MM-DD
	WorkingDaysElapsed   int    `json:"working_days_elapsed"`
	PresentCount         int    `json:"present_count"`
	LateCount            int    `json:"late_count"`
	TotalAttendance      int    `json:"total_attendance"` // present + late
	AbsentCount          int    `json:"absent_count"`
	AttendancePercentage int    `json:"attendance_percentage"`
	PresentPercentage    int    `json:"present_percentage"`
	LatePercentage       int    `json:"late_percentage"`
	AbsentPercentage     int    `json:"absent_percentage"`
	DataIntegrityWarning bool   `json:"data_integrity_warning,omitempty"`
}
