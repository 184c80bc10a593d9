package securitylog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/securitylog"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/sse"
)

type SecurityLogServiceImpl struct {
	securitylog.SecurityLogRepository
	events sse.Publisher
}

func NewSecurityLogService(repo securitylog.SecurityLogRepository, events sse.Publisher) securitylog.SecurityLogService {
	return &SecurityLogServiceImpl{
		SecurityLogRepository: repo,
		events:                events,
	}
}

// Record implements securitylog.SecurityLogService.
func (s *SecurityLogServiceImpl) Record(ctx context.Context, entry securitylog.Entry) error {
	created, err := s.SecurityLogRepository.Create(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to write security log: %w", err)
	}

	slog.Info("Security log recorded", "id", created.ID, "user_id", created.UserID, "event_type", created.EventType)

	if s.events != nil {
		s.events.PublishToAdmins(sse.Event{
			Event: sse.EventSecurityAlert,
			Data:  mapEntryToResponse(created),
		})
	}
	return nil
}

// List implements securitylog.SecurityLogService.
func (s *SecurityLogServiceImpl) List(ctx context.Context, filter securitylog.ListFilter) ([]securitylog.EntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.SecurityLogRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]securitylog.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapEntryToResponse(e))
	}
	return responses, nil
}

func mapEntryToResponse(e securitylog.Entry) securitylog.EntryResponse {
	return securitylog.EntryResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		EventType:      string(e.EventType),
		Description:    e.Description,
		IPAddress:      e.IPAddress,
		GPSLatitude:    e.GPSLatitude,
		GPSLongitude:   e.GPSLongitude,
		IPLatitude:     e.IPLatitude,
		IPLongitude:    e.IPLongitude,
		DistanceMeters: e.DistanceMeters,
		CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
