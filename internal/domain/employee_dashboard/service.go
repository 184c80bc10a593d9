package employee_dashboard

import (
	"context"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
)

// EmployeeDashboardService defines the interface for employee dashboard operations
type EmployeeDashboardService interface {
	// GetAttendanceSummary returns the caller's attendance tally for a month
	// (default: current month).
	GetAttendanceSummary(ctx context.Context, filter attendance.MyAttendanceFilter) (AttendanceSummaryResponse, error)
}
