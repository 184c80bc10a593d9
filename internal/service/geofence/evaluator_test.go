package geofence

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/geofence"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/securitylog"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/ipgeo"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOffice = Office{
	Name:         "Kantor Diskominfo KLU",
	Location:     utils.Coordinate{Latitude: -8.3581056, Longitude: 116.159854},
	RadiusMeters: 50,
}

type fakeLocator struct {
	coord utils.Coordinate
	err   error
	calls int
}

func (f *fakeLocator) Locate(ctx context.Context, ip string) (utils.Coordinate, error) {
	f.calls++
	return f.coord, f.err
}

type fakeSecurityLog struct {
	mu      sync.Mutex
	entries []securitylog.Entry
	err     error
}

func (f *fakeSecurityLog) Record(ctx context.Context, entry securitylog.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *fakeSecurityLog) List(ctx context.Context, filter securitylog.ListFilter) ([]securitylog.EntryResponse, error) {
	return nil, nil
}

// northOfOffice returns a fix the given number of meters due north of the office.
func northOfOffice(meters float64) geofence.Fix {
	dLat := meters / utils.EarthRadiusMeters * 180 / math.Pi
	return geofence.Fix{
		Latitude:       testOffice.Location.Latitude + dLat,
		Longitude:      testOffice.Location.Longitude,
		AccuracyMeters: 12,
	}
}

func TestEvaluate_InRangeBoundary(t *testing.T) {
	cases := []struct {
		name    string
		meters  float64
		inRange bool
		rounded int
	}{
		{"at office", 0.001, true, 0},
		{"just inside", 49.99, true, 50},
		{"just outside", 50.01, false, 50},
		{"far", 120, false, 120},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logs := &fakeSecurityLog{}
			e := NewEvaluator(testOffice, nil, logs)

			res, err := e.Evaluate(context.Background(), "user-1", northOfOffice(c.meters), "")

			if c.inRange {
				require.NoError(t, err)
				assert.True(t, res.InRange)
				assert.Empty(t, logs.entries)
			} else {
				require.ErrorIs(t, err, geofence.ErrOutOfRange)
				var rej *geofence.RejectionError
				require.True(t, errors.As(err, &rej))
				assert.Equal(t, c.rounded, rej.DistanceMeters)
				require.Len(t, logs.entries, 1)
				assert.Equal(t, securitylog.EventOutOfRange, logs.entries[0].EventType)
				require.NotNil(t, logs.entries[0].DistanceMeters)
				assert.Equal(t, c.rounded, *logs.entries[0].DistanceMeters)
			}
			assert.Equal(t, c.rounded, res.DistanceMeters)
		})
	}
}

func TestEvaluate_SuspiciousFixes(t *testing.T) {
	good := northOfOffice(10)
	cases := []struct {
		name string
		fix  geofence.Fix
	}{
		{"zero accuracy", geofence.Fix{Latitude: good.Latitude, Longitude: good.Longitude, AccuracyMeters: 0}},
		{"coarse accuracy", geofence.Fix{Latitude: good.Latitude, Longitude: good.Longitude, AccuracyMeters: 1000.5}},
		{"rounded latitude", geofence.Fix{Latitude: -8.35, Longitude: good.Longitude, AccuracyMeters: 10}},
		{"rounded longitude", geofence.Fix{Latitude: good.Latitude, Longitude: 116.1, AccuracyMeters: 10}},
		{"integer coordinates", geofence.Fix{Latitude: -8, Longitude: 116, AccuracyMeters: 10}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logs := &fakeSecurityLog{}
			locator := &fakeLocator{}
			e := NewEvaluator(testOffice, locator, logs)

			_, err := e.Evaluate(context.Background(), "user-1", c.fix, "36.68.1.1")

			require.ErrorIs(t, err, geofence.ErrSuspiciousLocation)
			require.Len(t, logs.entries, 1)
			assert.Equal(t, securitylog.EventSuspiciousLocation, logs.entries[0].EventType)
			assert.Equal(t, "user-1", logs.entries[0].UserID)
			assert.Zero(t, locator.calls, "suspicious fixes never reach the IP lookup")
		})
	}
}

func TestEvaluate_AccuracyBoundaryIsAccepted(t *testing.T) {
	fix := northOfOffice(10)
	fix.AccuracyMeters = 1000

	_, err := NewEvaluator(testOffice, nil, &fakeSecurityLog{}).Evaluate(context.Background(), "u", fix, "")
	assert.NoError(t, err)
}

func TestEvaluate_IPMismatch(t *testing.T) {
	logs := &fakeSecurityLog{}
	// Jakarta is ~1,000 km from North Lombok.
	locator := &fakeLocator{coord: utils.Coordinate{Latitude: -6.2088, Longitude: 106.8456}}
	e := NewEvaluator(testOffice, locator, logs)

	_, err := e.Evaluate(context.Background(), "user-1", northOfOffice(5), "36.68.1.1")

	require.ErrorIs(t, err, geofence.ErrLocationIPMismatch)
	require.Len(t, logs.entries, 1)
	entry := logs.entries[0]
	assert.Equal(t, securitylog.EventLocationIPMismatch, entry.EventType)
	require.NotNil(t, entry.IPLatitude)
	assert.Equal(t, -6.2088, *entry.IPLatitude)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "36.68.1.1", *entry.IPAddress)
}

func TestEvaluate_IPNearbyPasses(t *testing.T) {
	// Mataram is ~25 km away, well inside the 500 km tolerance.
	locator := &fakeLocator{coord: utils.Coordinate{Latitude: -8.5833, Longitude: 116.1167}}
	logs := &fakeSecurityLog{}

	res, err := NewEvaluator(testOffice, locator, logs).Evaluate(context.Background(), "u", northOfOffice(5), "36.68.1.1")

	require.NoError(t, err)
	assert.True(t, res.InRange)
	assert.Equal(t, 1, locator.calls)
	assert.Empty(t, logs.entries)
}

func TestEvaluate_IPLookupFailureDegradesToGPS(t *testing.T) {
	for _, lookupErr := range []error{ipgeo.ErrLookupFailed, context.DeadlineExceeded, ipgeo.ErrUnroutableIP} {
		locator := &fakeLocator{err: lookupErr}
		logs := &fakeSecurityLog{}

		res, err := NewEvaluator(testOffice, locator, logs).Evaluate(context.Background(), "u", northOfOffice(5), "36.68.1.1")

		require.NoError(t, err, lookupErr.Error())
		assert.True(t, res.InRange)
		assert.Empty(t, logs.entries)
	}
}

func TestEvaluate_IPLookupFailureStillChecksRange(t *testing.T) {
	locator := &fakeLocator{err: ipgeo.ErrLookupFailed}
	logs := &fakeSecurityLog{}

	_, err := NewEvaluator(testOffice, locator, logs).Evaluate(context.Background(), "u", northOfOffice(300), "36.68.1.1")

	require.ErrorIs(t, err, geofence.ErrOutOfRange)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, securitylog.EventOutOfRange, logs.entries[0].EventType)
}

func TestEvaluate_SecurityLogFailureStillRejects(t *testing.T) {
	logs := &fakeSecurityLog{err: errors.New("db down")}

	_, err := NewEvaluator(testOffice, nil, logs).Evaluate(context.Background(), "u", northOfOffice(300), "")

	assert.ErrorIs(t, err, geofence.ErrOutOfRange)
}

func TestEvaluate_InvalidCoordinates(t *testing.T) {
	e := NewEvaluator(testOffice, nil, &fakeSecurityLog{})
	for _, fix := range []geofence.Fix{
		{Latitude: math.NaN(), Longitude: 116.159, AccuracyMeters: 10},
		{Latitude: 91.123, Longitude: 116.159, AccuracyMeters: 10},
		{Latitude: -8.358, Longitude: 181.123, AccuracyMeters: 10},
		{Latitude: -8.358, Longitude: 116.159, AccuracyMeters: -1},
	} {
		_, err := e.Evaluate(context.Background(), "u", fix, "")
		assert.ErrorIs(t, err, geofence.ErrLocationUnavailable)
	}
}

func TestRejectionError_Message(t *testing.T) {
	err := &geofence.RejectionError{Reason: geofence.ErrOutOfRange, DistanceMeters: 120}
	assert.Contains(t, err.Error(), "120 m")

	err = &geofence.RejectionError{Reason: geofence.ErrSuspiciousLocation, DistanceMeters: 3}
	assert.Equal(t, geofence.ErrSuspiciousLocation.Error(), err.Error())
}

func TestNewEvaluator_DefaultRadius(t *testing.T) {
	e := NewEvaluator(Office{Location: testOffice.Location}, nil, nil)
	assert.True(t, e.Measure(northOfOffice(49)).InRange)
	assert.False(t, e.Measure(northOfOffice(51)).InRange)
}
