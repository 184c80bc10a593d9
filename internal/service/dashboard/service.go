package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/dashboard"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/sse"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"golang.org/x/sync/errgroup"
)

const latestRecordLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	clock    *timezone.Clock
	calendar calendar.HolidayCalendar
	events   sse.Publisher
}

func NewDashboardService(repo dashboard.DashboardRepository, clock *timezone.Clock, cal calendar.HolidayCalendar, events sse.Publisher) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		clock:               clock,
		calendar:            cal,
		events:              events,
	}
}

// GetDashboard returns today's recap and the month-to-date tally using parallel goroutines
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	now := s.clock.Now()
	today := s.clock.DateOf(now)
	first, _ := s.clock.MonthRange(now.Year(), now.Month())

	var (
		recap   *dashboard.DailyRecapResponse
		monthly dashboard.MonthlyAttendanceResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Daily recap (1 query: distinct employees per outcome)
	g.Go(func() error {
		var err error
		recap, err = s.GetDailyRecap(gCtx, dashboard.DailyRecapRequest{Date: today})
		return err
	})

	// 2. Month to date (2 queries: counts, latest records)
	g.Go(func() error {
		data, err := s.GetMonthlyAttendanceWithRecords(gCtx, s.clock.DateOf(first), today, latestRecordLimit)
		if err != nil {
			return err
		}
		monthly = dashboard.MonthlyAttendanceResponse{
			Present: data.Present,
			Late:    data.Late,
			Records: s.mapRecords(data.Records),
			Month:   now.Format("2006-01"),
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get dashboard data: %w", err)
	}

	return &dashboard.DashboardResponse{
		DailyRecap:        *recap,
		MonthlyAttendance: monthly,
	}, nil
}

// GetDailyRecap implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDailyRecap(ctx context.Context, req dashboard.DailyRecapRequest) (*dashboard.DailyRecapResponse, error) {
	if err := req.Validate(s.clock.Today()); err != nil {
		return nil, err
	}

	day, err := s.clock.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	stats, err := s.GetAttendanceStatsByDay(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	noRecord := stats.TotalEmployees - stats.Present - stats.Late
	if noRecord < 0 {
		noRecord = 0
	}

	return &dashboard.DailyRecapResponse{
		Date:            req.Date,
		WorkingDay:      s.calendar.IsWorkingDay(day),
		TotalEmployees:  stats.TotalEmployees,
		Present:         stats.Present,
		Late:            stats.Late,
		CheckedOut:      stats.CheckedOut,
		NoRecord:        noRecord,
		PresentPercent:  percent(stats.Present, stats.TotalEmployees),
		LatePercent:     percent(stats.Late, stats.TotalEmployees),
		NoRecordPercent: percent(noRecord, stats.TotalEmployees),
		GeneratedAt:     s.clock.Now().Format(time.RFC3339),
	}, nil
}

// PublishDailyRecap implements dashboard.DashboardService.
func (s *DashboardServiceImpl) PublishDailyRecap(ctx context.Context) error {
	recap, err := s.GetDailyRecap(ctx, dashboard.DailyRecapRequest{})
	if err != nil {
		return fmt.Errorf("failed to build daily recap: %w", err)
	}

	if !recap.WorkingDay {
		slog.Info("Skipping daily recap on non-working day", "date", recap.Date)
		return nil
	}

	slog.Info("Daily attendance recap",
		"date", recap.Date,
		"total_employees", recap.TotalEmployees,
		"present", recap.Present,
		"late", recap.Late,
		"no_record", recap.NoRecord,
	)

	if s.events != nil {
		s.events.PublishToAdmins(sse.Event{Event: sse.EventDailyRecap, Data: recap})
	}
	return nil
}

func (s *DashboardServiceImpl) mapRecords(records []dashboard.LatestRecord) []dashboard.AttendanceRecordItem {
	items := make([]dashboard.AttendanceRecordItem, 0, len(records))
	for i, r := range records {
		item := dashboard.AttendanceRecordItem{
			No:           i + 1,
			EmployeeID:   r.EmployeeID,
			EmployeeName: employee.UnknownName,
			Date:         r.Date,
			Status:       r.Status,
		}
		if r.EmployeeName != nil {
			item.EmployeeName = *r.EmployeeName
		}
		if r.CheckIn != nil {
			t := s.clock.FormatTime(*r.CheckIn)
			item.CheckIn = &t
		}
		items = append(items, item)
	}
	return items
}

// percent returns part/total*100 with one decimal place
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
