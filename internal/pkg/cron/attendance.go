package cron

import (
	"context"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/dashboard"
)

// DailyRecapSpec fires at 19:05 office time, after the check-out window closes.
const DailyRecapSpec = "5 19 * * *"

type AttendanceJobs struct {
	dashboardService dashboard.DashboardService
}

func NewAttendanceJobs(dashboardService dashboard.DashboardService) *AttendanceJobs {
	return &AttendanceJobs{dashboardService: dashboardService}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("daily_attendance_recap", DailyRecapSpec, j.DailyRecap)
}

// DailyRecap publishes today's attendance counts to connected admins.
func (j *AttendanceJobs) DailyRecap(ctx context.Context) error {
	return j.dashboardService.PublishDailyRecap(ctx)
}
