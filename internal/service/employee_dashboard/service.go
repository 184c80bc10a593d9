package employee_dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	empDashboard "github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee_dashboard"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	reportService "github.com/diskominfo-klu/absensi-backend-go/internal/service/report"
)

type EmployeeDashboardServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	clock    *timezone.Clock
	calendar calendar.HolidayCalendar
}

func NewEmployeeDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clock *timezone.Clock,
	cal calendar.HolidayCalendar,
) empDashboard.EmployeeDashboardService {
	return &EmployeeDashboardServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		clock:                clock,
		calendar:             cal,
	}
}

// getEmployee resolves the caller's profile from the user id in the token.
func (s *EmployeeDashboardServiceImpl) getEmployee(ctx context.Context) (employee.Employee, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	emp, err := s.EmployeeRepository.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee profile: %w", err)
	}
	return emp, nil
}

// GetAttendanceSummary implements empDashboard.EmployeeDashboardService.
func (s *EmployeeDashboardServiceImpl) GetAttendanceSummary(ctx context.Context, filter attendance.MyAttendanceFilter) (empDashboard.AttendanceSummaryResponse, error) {
	now := s.clock.Now()
	if err := filter.Validate(now); err != nil {
		return empDashboard.AttendanceSummaryResponse{}, err
	}

	emp, err := s.getEmployee(ctx)
	if err != nil {
		return empDashboard.AttendanceSummaryResponse{}, err
	}

	result := empDashboard.AttendanceSummaryResponse{Month: filter.Month, Year: filter.Year}

	first, last := s.clock.MonthRange(filter.Year, time.Month(filter.Month))
	today, err := s.clock.ParseDate(s.clock.Today())
	if err != nil {
		return empDashboard.AttendanceSummaryResponse{}, fmt.Errorf("failed to parse today: %w", err)
	}
	if first.After(today) {
		return result, nil
	}
	through := last
	if today.Before(last) {
		through = today
	}
	from, to := first.Format(timezone.DateLayout), through.Format(timezone.DateLayout)

	records, err := s.AttendanceRepository.ListByEmployee(ctx, emp.EmployeeID, from, to)
	if err != nil {
		return empDashboard.AttendanceSummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	period := reportService.Period{
		First:            first,
		Last:             through,
		TotalWorkingDays: calendar.WorkingDays(s.calendar, first, through),
	}
	summary := reportService.Summarize(emp, reportService.Dedup(records), period, s.clock, s.calendar)

	result.Through = to
	result.WorkingDaysElapsed = period.TotalWorkingDays
	result.PresentCount = summary.PresentDays
	result.LateCount = summary.LateDays
	result.TotalAttendance = summary.PresentDays + summary.LateDays
	result.AbsentCount = summary.AbsentDays
	result.AttendancePercentage = reportService.Percent(result.TotalAttendance, period.TotalWorkingDays)
	result.PresentPercentage = summary.PresentPercentage
	result.LatePercentage = summary.LatePercentage
	result.AbsentPercentage = summary.AbsentPercentage
	result.DataIntegrityWarning = summary.DataIntegrityWarning

	return result, nil
}
