package geofence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/geofence"
	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/securitylog"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/ipgeo"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/utils"
)

const (
	DefaultRadiusMeters = 50

	// IPMismatchThresholdMeters is how far the GPS fix may be from the IP location.
	IPMismatchThresholdMeters = 500000

	maxAccuracyMeters = 1000
	minDecimalPlaces  = 3
)

type Office struct {
	Name         string
	Location     utils.Coordinate
	RadiusMeters float64
}

type EvaluatorImpl struct {
	office      Office
	locator     ipgeo.Locator
	securityLog securitylog.SecurityLogService
}

// NewEvaluator builds the evaluator. A nil locator disables the IP cross-check.
func NewEvaluator(office Office, locator ipgeo.Locator, securityLog securitylog.SecurityLogService) geofence.Evaluator {
	if office.RadiusMeters <= 0 {
		office.RadiusMeters = DefaultRadiusMeters
	}
	return &EvaluatorImpl{
		office:      office,
		locator:     locator,
		securityLog: securityLog,
	}
}

// Measure implements geofence.Evaluator.
func (e *EvaluatorImpl) Measure(fix geofence.Fix) geofence.Result {
	d := utils.Distance(utils.Coordinate{Latitude: fix.Latitude, Longitude: fix.Longitude}, e.office.Location)
	return geofence.Result{
		DistanceMeters: utils.RoundMeters(d),
		InRange:        d <= e.office.RadiusMeters,
	}
}

// Evaluate implements geofence.Evaluator.
func (e *EvaluatorImpl) Evaluate(ctx context.Context, userID string, fix geofence.Fix, clientIP string) (geofence.Result, error) {
	if !validCoordinate(fix) {
		return geofence.Result{}, geofence.ErrLocationUnavailable
	}

	result := e.Measure(fix)

	if reason := suspiciousReason(fix); reason != "" {
		e.record(ctx, securitylog.Entry{
			UserID:       userID,
			EventType:    securitylog.EventSuspiciousLocation,
			Description:  reason,
			IPAddress:    optionalString(clientIP),
			GPSLatitude:  fix.Latitude,
			GPSLongitude: fix.Longitude,
		})
		return geofence.Result{}, &geofence.RejectionError{Reason: geofence.ErrSuspiciousLocation, DistanceMeters: result.DistanceMeters}
	}

	if e.locator != nil && clientIP != "" {
		ipLocation, err := e.locator.Locate(ctx, clientIP)
		switch {
		case err == nil:
			gap := utils.Distance(utils.Coordinate{Latitude: fix.Latitude, Longitude: fix.Longitude}, ipLocation)
			if gap > IPMismatchThresholdMeters {
				gapMeters := utils.RoundMeters(gap)
				e.record(ctx, securitylog.Entry{
					UserID:         userID,
					EventType:      securitylog.EventLocationIPMismatch,
					Description:    fmt.Sprintf("GPS fix is %d m away from IP location", gapMeters),
					IPAddress:      optionalString(clientIP),
					GPSLatitude:    fix.Latitude,
					GPSLongitude:   fix.Longitude,
					IPLatitude:     &ipLocation.Latitude,
					IPLongitude:    &ipLocation.Longitude,
					DistanceMeters: &gapMeters,
				})
				return geofence.Result{}, &geofence.RejectionError{Reason: geofence.ErrLocationIPMismatch, DistanceMeters: result.DistanceMeters}
			}
		case errors.Is(err, ipgeo.ErrUnroutableIP):
			slog.Debug("Skipping IP cross-check for non-public address", "ip", clientIP)
		default:
			slog.Warn("IP cross-check unavailable, continuing with GPS only", "ip", clientIP, "error", err)
		}
	}

	if !result.InRange {
		distance := result.DistanceMeters
		e.record(ctx, securitylog.Entry{
			UserID:         userID,
			EventType:      securitylog.EventOutOfRange,
			Description:    fmt.Sprintf("Attendance attempt %d m from %s (limit %.0f m)", distance, e.office.Name, e.office.RadiusMeters),
			IPAddress:      optionalString(clientIP),
			GPSLatitude:    fix.Latitude,
			GPSLongitude:   fix.Longitude,
			DistanceMeters: &distance,
		})
		return result, &geofence.RejectionError{Reason: geofence.ErrOutOfRange, DistanceMeters: distance}
	}

	return result, nil
}

// record writes a security log entry. A failed write never turns a rejection into an acceptance.
func (e *EvaluatorImpl) record(ctx context.Context, entry securitylog.Entry) {
	slog.Warn("Geofence rejected location fix",
		"user_id", entry.UserID,
		"event_type", entry.EventType,
		"description", entry.Description,
	)
	if e.securityLog == nil {
		return
	}
	if err := e.securityLog.Record(ctx, entry); err != nil {
		slog.Error("Failed to write security log", "user_id", entry.UserID, "event_type", entry.EventType, "error", err)
	}
}

func suspiciousReason(fix geofence.Fix) string {
	switch {
	case fix.AccuracyMeters == 0:
		return "Reported accuracy is exactly 0 m"
	case fix.AccuracyMeters > maxAccuracyMeters:
		return fmt.Sprintf("Reported accuracy %.0f m is coarser than %d m", fix.AccuracyMeters, maxAccuracyMeters)
	case utils.DecimalPlaces(fix.Latitude) < minDecimalPlaces || utils.DecimalPlaces(fix.Longitude) < minDecimalPlaces:
		return fmt.Sprintf("Coordinates %v, %v have fewer than %d decimal places", fix.Latitude, fix.Longitude, minDecimalPlaces)
	}
	return ""
}

func validCoordinate(fix geofence.Fix) bool {
	for _, v := range []float64{fix.Latitude, fix.Longitude, fix.AccuracyMeters} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if fix.AccuracyMeters < 0 {
		return false
	}
	return fix.Latitude >= -90 && fix.Latitude <= 90 && fix.Longitude >= -180 && fix.Longitude <= 180
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
