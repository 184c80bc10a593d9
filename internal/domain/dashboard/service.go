package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns today's recap and the month-to-date tally
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// GetDailyRecap returns attendance counts for a date, today when empty
	GetDailyRecap(ctx context.Context, req DailyRecapRequest) (*DailyRecapResponse, error)

	// PublishDailyRecap computes today's recap and pushes it to connected admins
	PublishDailyRecap(ctx context.Context) error
}
