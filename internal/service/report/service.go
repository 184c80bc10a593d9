package report

import (
	"context"
	"fmt"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/report"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          *timezone.Clock
	calendar       calendar.HolidayCalendar
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, clock *timezone.Clock, cal calendar.HolidayCalendar) report.ReportService {
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          clock,
		calendar:       cal,
	}
}

// GenerateMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(s.clock.Now()); err != nil {
		return report.MonthlyReport{}, err
	}

	period := NewPeriod(s.clock, s.calendar, req.Year, req.MonthValue)
	from := period.First.Format(timezone.DateLayout)
	to := period.Last.Format(timezone.DateLayout)

	var (
		records  []attendance.Attendance
		profiles []employee.Employee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByDateRange(gctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profiles, err = s.employeeRepo.List(gctx, employee.EmployeeFilter{Department: req.Department, Search: req.Search})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.MonthlyReport{}, err
	}

	summaries := Aggregate(profiles, records, period, s.clock, s.calendar)

	return report.MonthlyReport{
		Month:            req.Month,
		PeriodStart:      from,
		PeriodEnd:        to,
		TotalWorkingDays: period.TotalWorkingDays,
		GeneratedAt:      s.clock.Now().Format(time.RFC3339),
		Averages:         Average(summaries),
		Employees:        summaries,
	}, nil
}

// ExportMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.ExportFile, error) {
	monthly, err := s.GenerateMonthlyReport(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	content, err := WriteMonthlyWorkbook(monthly)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.ExportFile{
		Filename:    fmt.Sprintf("Rekap_Absensi_%s.xlsx", monthly.Month),
		ContentType: XLSXContentType,
		Content:     content,
	}, nil
}
