package employee_dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records  []attendance.Attendance
	lastFrom string
	lastTo   string
	calls    int
}

func (f *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID, from, to string) ([]attendance.Attendance, error) {
	f.calls++
	f.lastFrom, f.lastTo = from, to
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	profiles map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	emp, ok := f.profiles[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func authCtx(t *testing.T, userID string) context.Context {
	t.Helper()
	j := jwt.NewJWTService("test-secret", "1h", "24h")
	token, _, err := j.GenerateAccessToken(userID, "nurul@example.com", nil, user.RoleEmployee)
	require.NoError(t, err)
	parsed, err := jwtauth.VerifyToken(j.JWTAuth(), token)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), parsed, nil)
}

func rec(id, date string, status attendance.Status) attendance.Attendance {
	return attendance.Attendance{ID: id, EmployeeID: "EMP001", Date: date, Status: status}
}

func newTestService(t *testing.T, records []attendance.Attendance) (*EmployeeDashboardServiceImpl, *fakeAttendanceRepo) {
	t.Helper()
	// Wednesday 10 September 2025, 10:00 WITA
	now := time.Date(2025, time.September, 10, 10, 0, 0, 0, time.FixedZone("WITA", 8*60*60))
	cal, err := calendar.NewFixedCalendar(nil)
	require.NoError(t, err)

	attendanceRepo := &fakeAttendanceRepo{records: records}
	employeeRepo := &fakeEmployeeRepo{profiles: map[string]employee.Employee{
		"user-1": {UserID: "user-1", EmployeeID: "EMP001", Name: "Nurul"},
	}}
	svc := NewEmployeeDashboardService(attendanceRepo, employeeRepo, timezone.NewFixedClock(timezone.DefaultZone, now), cal)
	return svc.(*EmployeeDashboardServiceImpl), attendanceRepo
}

func TestGetAttendanceSummary_CurrentMonthCountsUpToToday(t *testing.T) {
	svc, repo := newTestService(t, []attendance.Attendance{
		rec("1", "2025-09-01", attendance.StatusPresent),
		rec("2", "2025-09-02", attendance.StatusLate),
		rec("3", "2025-09-03", attendance.StatusPresent),
		rec("4", "2025-09-03", attendance.StatusLate),    // later write wins
		rec("5", "2025-09-06", attendance.StatusPresent), // Saturday
	})

	got, err := svc.GetAttendanceSummary(authCtx(t, "user-1"), attendance.MyAttendanceFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2025-09-01", repo.lastFrom)
	assert.Equal(t, "2025-09-10", repo.lastTo)
	assert.Equal(t, 9, got.Month)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, "2025-09-10", got.Through)
	assert.Equal(t, 8, got.WorkingDaysElapsed)
	assert.Equal(t, 1, got.PresentCount)
	assert.Equal(t, 2, got.LateCount)
	assert.Equal(t, 3, got.TotalAttendance)
	assert.Equal(t, 5, got.AbsentCount)
	assert.Equal(t, 38, got.AttendancePercentage)
	assert.Equal(t, 13, got.PresentPercentage)
	assert.Equal(t, 25, got.LatePercentage)
	assert.Equal(t, 63, got.AbsentPercentage)
	assert.False(t, got.DataIntegrityWarning)
}

func TestGetAttendanceSummary_PastMonthCountsWholeMonth(t *testing.T) {
	svc, repo := newTestService(t, []attendance.Attendance{
		rec("1", "2025-08-01", attendance.StatusPresent),
		rec("2", "2025-08-04", attendance.StatusPresent),
	})

	got, err := svc.GetAttendanceSummary(authCtx(t, "user-1"), attendance.MyAttendanceFilter{Month: 8, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, "2025-08-31", repo.lastTo)
	assert.Equal(t, "2025-08-31", got.Through)
	assert.Equal(t, 21, got.WorkingDaysElapsed)
	assert.Equal(t, 2, got.PresentCount)
	assert.Equal(t, 2, got.TotalAttendance)
	assert.Equal(t, 19, got.AbsentCount)
	assert.Equal(t, 10, got.AttendancePercentage)
}

func TestGetAttendanceSummary_FutureMonthIsEmpty(t *testing.T) {
	svc, repo := newTestService(t, nil)

	got, err := svc.GetAttendanceSummary(authCtx(t, "user-1"), attendance.MyAttendanceFilter{Month: 10, Year: 2025})
	require.NoError(t, err)

	assert.Zero(t, repo.calls)
	assert.Empty(t, got.Through)
	assert.Zero(t, got.WorkingDaysElapsed)
	assert.Zero(t, got.AttendancePercentage)
}

func TestGetAttendanceSummary_ProfileNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.GetAttendanceSummary(authCtx(t, "user-unknown"), attendance.MyAttendanceFilter{})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetAttendanceSummary_InvalidMonth(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.GetAttendanceSummary(authCtx(t, "user-1"), attendance.MyAttendanceFilter{Month: 13, Year: 2025})
	assert.Error(t, err)
}
