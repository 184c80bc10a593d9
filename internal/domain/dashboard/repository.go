package dashboard

import (
	"context"
	"time"
)

// AttendanceStats counts distinct employees per outcome for one date
type AttendanceStats struct {
	TotalEmployees int64
	Present        int64
	Late           int64
	CheckedOut     int64
}

// MonthlyAttendanceData combines attendance counts with latest records
type MonthlyAttendanceData struct {
	Present int64
	Late    int64
	Records []LatestRecord
}

type LatestRecord struct {
	EmployeeID   string
	EmployeeName *string
	Date         string
	Status       string
	CheckIn      *time.Time
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetAttendanceStatsByDay returns present/late/checked-out counts and the employee total
	GetAttendanceStatsByDay(ctx context.Context, date string) (*AttendanceStats, error)

	// GetMonthlyAttendanceWithRecords returns counts in [from, to] plus the latest records
	GetMonthlyAttendanceWithRecords(ctx context.Context, from, to string, limit int) (*MonthlyAttendanceData, error)
}
