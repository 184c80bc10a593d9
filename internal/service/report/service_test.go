package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records  []attendance.Attendance
	from, to string
	err      error
}

func (f *fakeAttendanceRepo) ListByDateRange(_ context.Context, from, to string) ([]attendance.Attendance, error) {
	f.from, f.to = from, to
	return f.records, f.err
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	profiles []employee.Employee
	filter   employee.EmployeeFilter
}

func (f *fakeEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	f.filter = filter
	var out []employee.Employee
	for _, p := range f.profiles {
		if filter.Department != nil && p.Department != *filter.Department {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func newTestService(t *testing.T) (report.ReportService, *fakeAttendanceRepo, *fakeEmployeeRepo) {
	att := &fakeAttendanceRepo{records: []attendance.Attendance{
		record("10", "E1", "2025-09-10", attendance.StatusPresent),
		record("15", "E1", "2025-09-10", attendance.StatusLate),
		record("20", "E2", "2025-09-01", attendance.StatusPresent),
	}}
	emp := &fakeEmployeeRepo{profiles: []employee.Employee{
		{EmployeeID: "E1", Name: "Ayu", Department: "Diskominfo", Position: "Analis"},
		{EmployeeID: "E2", Name: "Bayu", Department: "Keuangan", Position: "Staff"},
	}}
	return NewReportService(att, emp, testClock(), testCalendar(t)), att, emp
}

func TestGenerateMonthlyReport(t *testing.T) {
	svc, att, _ := newTestService(t)

	got, err := svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: "2025-09"})

	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", att.from)
	assert.Equal(t, "2025-09-30", att.to)
	assert.Equal(t, "2025-09", got.Month)
	assert.Equal(t, 22, got.TotalWorkingDays)
	require.Len(t, got.Employees, 2)
	assert.Equal(t, 1, got.Employees[0].LateDays)
	assert.Equal(t, 0, got.Employees[0].PresentDays)
	assert.Equal(t, 1, got.Employees[1].PresentDays)
}

func TestGenerateMonthlyReport_DefaultsToCurrentMonth(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2025-09", got.Month)
}

func TestGenerateMonthlyReport_DepartmentFilter(t *testing.T) {
	svc, _, emp := newTestService(t)
	dept := "Keuangan"

	got, err := svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: "2025-09", Department: &dept})

	require.NoError(t, err)
	require.NotNil(t, emp.filter.Department)
	assert.Equal(t, "Keuangan", *emp.filter.Department)
	require.Len(t, got.Employees, 1)
	assert.Equal(t, "E2", got.Employees[0].EmployeeID)
}

func TestGenerateMonthlyReport_InvalidMonth(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, month := range []string{"2025-13", "09-2025", "2019-12"} {
		_, err := svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: month})
		assert.Error(t, err, month)
	}
}

func TestGenerateMonthlyReport_RepositoryError(t *testing.T) {
	svc, att, _ := newTestService(t)
	att.err = errors.New("connection reset")

	_, err := svc.GenerateMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: "2025-09"})

	assert.ErrorContains(t, err, "connection reset")
}

func TestExportMonthlyReport(t *testing.T) {
	svc, _, _ := newTestService(t)

	file, err := svc.ExportMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: "2025-09"})

	require.NoError(t, err)
	assert.Equal(t, "Rekap_Absensi_2025-09.xlsx", file.Filename)
	assert.Equal(t, XLSXContentType, file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(MonthlySheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "ID Pegawai", rows[0][0])
	assert.Equal(t, "E1", rows[1][0])
	assert.Equal(t, "Ayu", rows[1][1])
	assert.Equal(t, "22", rows[1][4])
	assert.Equal(t, "E2", rows[2][0])
	assert.Equal(t, "Rata-rata", rows[len(rows)-1][0])
}
