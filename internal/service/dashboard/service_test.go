package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/dashboard"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/calendar"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/sse"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/timezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stats       map[string]dashboard.AttendanceStats
	monthly     dashboard.MonthlyAttendanceData
	from, to    string
	limit       int
	statsCalled []string
}

func (f *fakeRepo) GetAttendanceStatsByDay(_ context.Context, date string) (*dashboard.AttendanceStats, error) {
	f.statsCalled = append(f.statsCalled, date)
	s := f.stats[date]
	return &s, nil
}

func (f *fakeRepo) GetMonthlyAttendanceWithRecords(_ context.Context, from, to string, limit int) (*dashboard.MonthlyAttendanceData, error) {
	f.from, f.to, f.limit = from, to, limit
	d := f.monthly
	return &d, nil
}

type fakePublisher struct {
	events []sse.Event
}

func (f *fakePublisher) Publish(string, sse.Event) {}

func (f *fakePublisher) PublishToAdmins(event sse.Event) {
	f.events = append(f.events, event)
}

// Wednesday 2025-09-10 19:05 WITA
var wednesdayEvening = time.Date(2025, time.September, 10, 11, 5, 0, 0, time.UTC)

func newService(t *testing.T, now time.Time, repo *fakeRepo, pub *fakePublisher) dashboard.DashboardService {
	t.Helper()
	cal, err := calendar.NewFixedCalendar(calendar.DefaultHolidays)
	require.NoError(t, err)
	return NewDashboardService(repo, timezone.NewFixedClock(timezone.DefaultZone, now), cal, pub)
}

func TestGetDailyRecap(t *testing.T) {
	repo := &fakeRepo{stats: map[string]dashboard.AttendanceStats{
		"2025-09-10": {TotalEmployees: 8, Present: 5, Late: 2, CheckedOut: 4},
	}}
	svc := newService(t, wednesdayEvening, repo, &fakePublisher{})

	got, err := svc.GetDailyRecap(context.Background(), dashboard.DailyRecapRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2025-09-10", got.Date)
	assert.True(t, got.WorkingDay)
	assert.Equal(t, int64(1), got.NoRecord)
	assert.Equal(t, 62.5, got.PresentPercent)
	assert.Equal(t, 25.0, got.LatePercent)
	assert.Equal(t, 12.5, got.NoRecordPercent)
}

func TestGetDailyRecap_NoEmployees(t *testing.T) {
	svc := newService(t, wednesdayEvening, &fakeRepo{}, &fakePublisher{})

	got, err := svc.GetDailyRecap(context.Background(), dashboard.DailyRecapRequest{Date: "2025-09-13"})

	require.NoError(t, err)
	assert.False(t, got.WorkingDay)
	assert.Zero(t, got.PresentPercent)
	assert.Zero(t, got.NoRecord)
}

func TestGetDailyRecap_InvalidDate(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(t, wednesdayEvening, repo, &fakePublisher{})

	_, err := svc.GetDailyRecap(context.Background(), dashboard.DailyRecapRequest{Date: "10/09/2025"})

	assert.Error(t, err)
	assert.Empty(t, repo.statsCalled)
}

func TestGetDashboard(t *testing.T) {
	name := "Ayu Lestari"
	checkIn := time.Date(2025, 9, 9, 23, 40, 0, 0, time.UTC)
	repo := &fakeRepo{
		stats: map[string]dashboard.AttendanceStats{
			"2025-09-10": {TotalEmployees: 2, Present: 1},
		},
		monthly: dashboard.MonthlyAttendanceData{
			Present: 12,
			Late:    3,
			Records: []dashboard.LatestRecord{
				{EmployeeID: "E1", EmployeeName: &name, Date: "2025-09-10", Status: "present", CheckIn: &checkIn},
				{EmployeeID: "E9", Date: "2025-09-09", Status: "late"},
			},
		},
	}
	svc := newService(t, wednesdayEvening, repo, &fakePublisher{})

	got, err := svc.GetDashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", repo.from)
	assert.Equal(t, "2025-09-10", repo.to)
	assert.Equal(t, latestRecordLimit, repo.limit)
	assert.Equal(t, "2025-09", got.MonthlyAttendance.Month)
	assert.Equal(t, int64(12), got.MonthlyAttendance.Present)
	require.Len(t, got.MonthlyAttendance.Records, 2)
	assert.Equal(t, 1, got.MonthlyAttendance.Records[0].No)
	require.NotNil(t, got.MonthlyAttendance.Records[0].CheckIn)
	assert.Equal(t, "07:40", *got.MonthlyAttendance.Records[0].CheckIn)
	assert.Equal(t, "Unknown Employee", got.MonthlyAttendance.Records[1].EmployeeName)
	assert.Equal(t, int64(1), got.DailyRecap.NoRecord)
}

func TestPublishDailyRecap(t *testing.T) {
	repo := &fakeRepo{stats: map[string]dashboard.AttendanceStats{
		"2025-09-10": {TotalEmployees: 3, Present: 2, Late: 1},
	}}
	pub := &fakePublisher{}
	svc := newService(t, wednesdayEvening, repo, pub)

	require.NoError(t, svc.PublishDailyRecap(context.Background()))

	require.Len(t, pub.events, 1)
	assert.Equal(t, sse.EventDailyRecap, pub.events[0].Event)
	recap, ok := pub.events[0].Data.(*dashboard.DailyRecapResponse)
	require.True(t, ok)
	assert.Equal(t, int64(0), recap.NoRecord)
}

func TestPublishDailyRecap_SkipsWeekend(t *testing.T) {
	saturday := time.Date(2025, time.September, 13, 11, 5, 0, 0, time.UTC)
	pub := &fakePublisher{}
	svc := newService(t, saturday, &fakeRepo{}, pub)

	require.NoError(t, svc.PublishDailyRecap(context.Background()))

	assert.Empty(t, pub.events)
}
