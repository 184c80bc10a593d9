package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/employee"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/geofence"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/user"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/jwt"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/sse"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wita = time.FixedZone("WITA", 8*60*60)

// ========================================
// FAKES
// ========================================

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) InTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]attendance.Attendance

	// raceWinner, when set, is inserted by the first Create call, which then
	// reports a conflict as if another request committed first.
	raceWinner *attendance.Attendance
	creates    int
	updates    int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func key(employeeID, date string) string { return employeeID + "|" + date }

func (f *fakeAttendanceRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%04d", f.seq)
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID, date string, _ bool) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++

	if f.raceWinner != nil {
		winner := *f.raceWinner
		winner.ID = f.nextID()
		f.records[key(winner.EmployeeID, winner.Date)] = winner
		f.raceWinner = nil
		return attendance.Attendance{}, attendance.ErrConcurrentWrite
	}

	k := key(a.EmployeeID, a.Date)
	if _, exists := f.records[k]; exists {
		return attendance.Attendance{}, attendance.ErrConcurrentWrite
	}
	a.ID = f.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.records[k] = a
	return a, nil
}

func (f *fakeAttendanceRepo) Update(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	a.UpdatedAt = time.Now()
	f.records[key(a.EmployeeID, a.Date)] = a
	return a, nil
}

func (f *fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID, from, to string) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeAttendanceRepo) ListByDate(_ context.Context, date string) ([]attendance.Attendance, error) {
	return f.ListByDateRange(context.Background(), date, date)
}

func (f *fakeAttendanceRepo) ListByDateRange(_ context.Context, from, to string) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttendanceRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, rec := range f.records {
		if rec.ID == id {
			delete(f.records, k)
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byUserID map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	emp, ok := f.byUserID[userID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeEvaluator struct {
	result geofence.Result
	err    error
	calls  int
}

func (f *fakeEvaluator) Evaluate(context.Context, string, geofence.Fix, string) (geofence.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeEvaluator) Measure(geofence.Fix) geofence.Result {
	return f.result
}

type fakePublisher struct {
	mu     sync.Mutex
	user   []sse.Event
	admins []sse.Event
}

func (f *fakePublisher) Publish(_ string, e sse.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = append(f.user, e)
}

func (f *fakePublisher) PublishToAdmins(e sse.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins = append(f.admins, e)
}

// ========================================
// HELPERS
// ========================================

const (
	testUserID     = "0199a000-0000-7000-8000-000000000001"
	testEmployeeID = "199001012020121001"
)

type fixture struct {
	svc       attendance.AttendanceService
	repo      *fakeAttendanceRepo
	tx        *fakeTransactor
	evaluator *fakeEvaluator
	events    *fakePublisher
}

func newFixture(t *testing.T, localNow time.Time) fixture {
	t.Helper()
	repo := newFakeAttendanceRepo()
	tx := &fakeTransactor{}
	evaluator := &fakeEvaluator{result: geofence.Result{DistanceMeters: 12, InRange: true}}
	events := &fakePublisher{}
	employees := &fakeEmployeeRepo{byUserID: map[string]employee.Employee{
		testUserID: {
			ID:         "0199a000-0000-7000-8000-0000000000aa",
			UserID:     testUserID,
			EmployeeID: testEmployeeID,
			Name:       "Baiq Nurul",
			Department: "Diskominfo",
			Position:   "Staff",
		},
	}}

	svc := NewAttendanceService(
		tx, repo, employees, evaluator,
		timezone.NewFixedClock(timezone.DefaultZone, localNow),
		attendance.OfficeResponse{Name: "Kantor Bupati", Latitude: -8.3581056, Longitude: 116.159854, RadiusMeters: 50},
		events,
	)
	return fixture{svc: svc, repo: repo, tx: tx, evaluator: evaluator, events: events}
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

func tapRequest() attendance.TapRequest {
	lat, lng, acc := -8.3581056, 116.159854, 10.0
	return attendance.TapRequest{Latitude: &lat, Longitude: &lng, Accuracy: &acc, ClientIP: "36.84.1.1"}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, time.September, 10, hour, minute, 0, 0, wita)
}

func (f fixture) today(t *testing.T) *attendance.Attendance {
	t.Helper()
	rec, err := f.repo.GetByEmployeeAndDate(context.Background(), testEmployeeID, "2025-09-10", false)
	require.NoError(t, err)
	return rec
}

// ========================================
// TAP
// ========================================

func TestTap_CheckInOnTime(t *testing.T) {
	f := newFixture(t, at(7, 30))

	resp, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	require.NoError(t, err)
	assert.Equal(t, "check_in", resp.Action)
	assert.Equal(t, 12, resp.DistanceMeters)
	assert.Equal(t, "present", resp.Attendance.Status)
	assert.Equal(t, testEmployeeID, resp.Attendance.EmployeeID)
	assert.Equal(t, "2025-09-10", resp.Attendance.Date)
	require.NotNil(t, resp.Attendance.CheckInTime)
	assert.Equal(t, "07:30", *resp.Attendance.CheckInTime)
	assert.Nil(t, resp.Attendance.CheckOutTime)
	assert.Contains(t, resp.Message, "on time")

	rec := f.today(t)
	require.NotNil(t, rec)
	assert.Equal(t, testUserID, rec.UserID)
	assert.Equal(t, 1, f.repo.creates)
	assert.Len(t, f.events.user, 1)
	assert.Len(t, f.events.admins, 1)
	assert.Equal(t, sse.EventAttendanceRecorded, f.events.user[0].Event)
}

func TestTap_CheckInLate(t *testing.T) {
	f := newFixture(t, at(9, 0))

	resp, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	require.NoError(t, err)
	assert.Equal(t, "check_in", resp.Action)
	assert.Equal(t, "late", resp.Attendance.Status)
	assert.Contains(t, resp.Message, "late")
}

func TestTap_LateCheckOutWithoutCheckIn(t *testing.T) {
	f := newFixture(t, at(13, 0))

	resp, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	require.NoError(t, err)
	assert.Equal(t, "late_check_out", resp.Action)
	assert.Equal(t, "late", resp.Attendance.Status)
	assert.Nil(t, resp.Attendance.CheckInTime)
	require.NotNil(t, resp.Attendance.CheckOutTime)
	assert.Equal(t, "13:00", *resp.Attendance.CheckOutTime)

	rec := f.today(t)
	assert.Nil(t, rec.CheckIn)
	assert.NotNil(t, rec.CheckOut)
}

func TestTap_CheckOutKeepsStatus(t *testing.T) {
	f := newFixture(t, at(16, 5))
	checkIn := at(8, 20)
	f.repo.records[key(testEmployeeID, "2025-09-10")] = attendance.Attendance{
		ID: "id-0001", EmployeeID: testEmployeeID, UserID: testUserID, Date: "2025-09-10",
		CheckIn: &checkIn, Status: attendance.StatusLate,
	}

	resp, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	require.NoError(t, err)
	assert.Equal(t, "check_out", resp.Action)
	assert.Equal(t, "late", resp.Attendance.Status)
	require.NotNil(t, resp.Attendance.WorkingHours)
	assert.InDelta(t, 7.75, *resp.Attendance.WorkingHours, 1e-9)
	assert.Equal(t, 1, f.repo.updates)
	assert.Equal(t, 0, f.repo.creates)
}

func TestTap_Rejections(t *testing.T) {
	checkIn := at(7, 10)
	checkOut := at(15, 0)

	tests := []struct {
		name     string
		now      time.Time
		existing *attendance.Attendance
		wantErr  error
	}{
		{"before window", at(6, 30), nil, attendance.ErrCheckInWindowClosed},
		{"after window", at(19, 30), nil, attendance.ErrCheckInWindowClosed},
		{"second check-in in the morning", at(10, 0), &attendance.Attendance{CheckIn: &checkIn, Status: attendance.StatusPresent}, attendance.ErrAlreadyCheckedIn},
		{"check-out after close", at(19, 0), &attendance.Attendance{CheckIn: &checkIn, Status: attendance.StatusPresent}, attendance.ErrCheckOutWindowClosed},
		{"after late check-out", at(14, 0), &attendance.Attendance{CheckOut: &checkOut, Status: attendance.StatusLate}, attendance.ErrAlreadyLateCheckedOut},
		{"complete day", at(17, 0), &attendance.Attendance{CheckIn: &checkIn, CheckOut: &checkOut, Status: attendance.StatusPresent}, attendance.ErrAttendanceComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)
			if tt.existing != nil {
				rec := *tt.existing
				rec.ID, rec.EmployeeID, rec.UserID, rec.Date = "id-0001", testEmployeeID, testUserID, "2025-09-10"
				f.repo.records[key(testEmployeeID, "2025-09-10")] = rec
			}
			before := f.today(t)

			_, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.today(t), "record must be untouched")
			assert.Empty(t, f.events.user)
		})
	}
}

func TestTap_GeofenceRejectionLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t, at(7, 30))
	f.evaluator.err = &geofence.RejectionError{Reason: geofence.ErrOutOfRange, DistanceMeters: 120}

	_, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	assert.ErrorIs(t, err, geofence.ErrOutOfRange)
	var rej *geofence.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, 120, rej.DistanceMeters)
	assert.Nil(t, f.today(t))
	assert.Equal(t, 0, f.tx.calls)
}

func TestTap_MissingLocation(t *testing.T) {
	f := newFixture(t, at(7, 30))
	req := tapRequest()
	req.Latitude = nil

	_, err := f.svc.Tap(authCtx(t, testUserID), req)

	assert.ErrorIs(t, err, geofence.ErrLocationUnavailable)
	assert.Equal(t, 0, f.evaluator.calls)
}

func TestTap_InvalidCoordinates(t *testing.T) {
	f := newFixture(t, at(7, 30))
	req := tapRequest()
	lat := 123.0
	req.Latitude = &lat

	_, err := f.svc.Tap(authCtx(t, testUserID), req)

	assert.Error(t, err)
	assert.Equal(t, 0, f.evaluator.calls)
}

func TestTap_NoClaims(t *testing.T) {
	f := newFixture(t, at(7, 30))

	_, err := f.svc.Tap(context.Background(), tapRequest())

	assert.ErrorIs(t, err, jwt.ErrMissingClaims)
}

func TestTap_ProfileNotFound(t *testing.T) {
	f := newFixture(t, at(7, 30))

	_, err := f.svc.Tap(authCtx(t, "0199a000-0000-7000-8000-00000000ffff"), tapRequest())

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Equal(t, 0, f.evaluator.calls)
}

func TestTap_ConcurrentCreateRetriesOnce(t *testing.T) {
	f := newFixture(t, at(12, 0))
	winnerCheckIn := at(11, 59)
	f.repo.raceWinner = &attendance.Attendance{
		EmployeeID: testEmployeeID, UserID: testUserID, Date: "2025-09-10",
		CheckIn: &winnerCheckIn, Status: attendance.StatusLate,
	}

	resp, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	require.NoError(t, err)
	// The re-read sees the winner's check-in, so this tap becomes its check-out.
	assert.Equal(t, "check_out", resp.Action)
	assert.Equal(t, 2, f.tx.calls)
	assert.Equal(t, 1, f.repo.creates)
	assert.Equal(t, 1, f.repo.updates)

	rec := f.today(t)
	require.NotNil(t, rec.CheckIn)
	require.NotNil(t, rec.CheckOut)
	assert.Equal(t, attendance.StatusLate, rec.Status)
}

func TestTap_ConcurrentCreateSurfacesStateConflict(t *testing.T) {
	f := newFixture(t, at(7, 30))
	winnerCheckIn := at(7, 29)
	f.repo.raceWinner = &attendance.Attendance{
		EmployeeID: testEmployeeID, UserID: testUserID, Date: "2025-09-10",
		CheckIn: &winnerCheckIn, Status: attendance.StatusPresent,
	}

	_, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, 2, f.tx.calls)
}

func TestTap_UTCMidnightBucketsIntoLocalDate(t *testing.T) {
	// 23:30 UTC on the 9th is 07:30 WITA on the 10th.
	f := newFixture(t, time.Date(2025, time.September, 9, 23, 30, 0, 0, time.UTC))

	resp, err := f.svc.Tap(authCtx(t, testUserID), tapRequest())

	require.NoError(t, err)
	assert.Equal(t, "2025-09-10", resp.Attendance.Date)
	assert.Equal(t, "present", resp.Attendance.Status)
}

// ========================================
// TODAY STATUS
// ========================================

func TestGetTodayStatus_Empty(t *testing.T) {
	f := newFixture(t, at(7, 10))
	lat, lng := -8.3581056, 116.159854

	status, err := f.svc.GetTodayStatus(authCtx(t, testUserID), attendance.TodayStatusRequest{Latitude: &lat, Longitude: &lng})

	require.NoError(t, err)
	assert.Equal(t, "2025-09-10", status.Date)
	assert.Equal(t, "07:10", status.LocalTime)
	assert.Equal(t, "empty", status.State)
	require.NotNil(t, status.NextAction)
	assert.Equal(t, "check_in_present", *status.NextAction)
	assert.Nil(t, status.Blocked)
	assert.Nil(t, status.Attendance)
	require.NotNil(t, status.Distance)
	assert.Equal(t, 12, *status.Distance)
	assert.Equal(t, "Kantor Bupati", status.Office.Name)
}

func TestGetTodayStatus_Blocked(t *testing.T) {
	f := newFixture(t, at(10, 0))
	checkIn := at(7, 50)
	f.repo.records[key(testEmployeeID, "2025-09-10")] = attendance.Attendance{
		ID: "id-0001", EmployeeID: testEmployeeID, UserID: testUserID, Date: "2025-09-10",
		CheckIn: &checkIn, Status: attendance.StatusPresent,
	}

	status, err := f.svc.GetTodayStatus(authCtx(t, testUserID), attendance.TodayStatusRequest{})

	require.NoError(t, err)
	assert.Equal(t, "awaiting_checkout", status.State)
	assert.Nil(t, status.NextAction)
	require.NotNil(t, status.Blocked)
	assert.Equal(t, attendance.ErrAlreadyCheckedIn.Error(), *status.Blocked)
	require.NotNil(t, status.Attendance)
	assert.Equal(t, "Baiq Nurul", *status.Attendance.EmployeeName)
	assert.Nil(t, status.Distance)
}

// ========================================
// HISTORY & ADMIN
// ========================================

func TestGetMyAttendance_FiltersMonth(t *testing.T) {
	f := newFixture(t, at(9, 0))
	in := at(7, 45)
	for i, date := range []string{"2025-08-29", "2025-09-01", "2025-09-09"} {
		f.repo.records[key(testEmployeeID, date)] = attendance.Attendance{
			ID: fmt.Sprintf("id-%04d", i+1), EmployeeID: testEmployeeID, Date: date, CheckIn: &in, Status: attendance.StatusPresent,
		}
	}

	records, err := f.svc.GetMyAttendance(authCtx(t, testUserID), attendance.MyAttendanceFilter{})

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-09-09", records[0].Date)
	assert.Equal(t, "2025-09-01", records[1].Date)
}

func TestGetMyAttendance_InvalidMonth(t *testing.T) {
	f := newFixture(t, at(9, 0))

	_, err := f.svc.GetMyAttendance(authCtx(t, testUserID), attendance.MyAttendanceFilter{Month: 13, Year: 2025})

	assert.Error(t, err)
}

func TestListDaily_FillsUnknownProfile(t *testing.T) {
	f := newFixture(t, at(9, 0))
	in := at(7, 45)
	f.repo.records[key("ORPHAN-01", "2025-09-10")] = attendance.Attendance{
		ID: "id-0009", EmployeeID: "ORPHAN-01", Date: "2025-09-10", CheckIn: &in, Status: attendance.StatusPresent,
	}

	records, err := f.svc.ListDaily(context.Background(), attendance.DailyAttendanceFilter{})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, employee.UnknownName, *records[0].EmployeeName)
	assert.Equal(t, employee.UnknownDepartment, *records[0].Department)
	assert.Equal(t, employee.UnknownPosition, *records[0].Position)
}

func TestDeleteAttendance(t *testing.T) {
	const id = "0199a000-0000-7000-8000-000000000001"
	f := newFixture(t, at(9, 0))
	f.repo.records[key(testEmployeeID, "2025-09-10")] = attendance.Attendance{ID: id, EmployeeID: testEmployeeID, Date: "2025-09-10"}

	require.NoError(t, f.svc.DeleteAttendance(context.Background(), id))
	assert.ErrorIs(t, f.svc.DeleteAttendance(context.Background(), id), attendance.ErrAttendanceNotFound)
}

func TestDeleteAttendance_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t, at(9, 0))
	f.repo.records[key(testEmployeeID, "2025-09-10")] = attendance.Attendance{ID: "not-a-uuid", EmployeeID: testEmployeeID, Date: "2025-09-10"}

	err := f.svc.DeleteAttendance(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.Len(t, f.repo.records, 1, "repository must not be reached")
}
