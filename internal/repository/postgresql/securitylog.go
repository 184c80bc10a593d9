package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/securitylog"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type securityLogRepositoryImpl struct {
	db *database.DB
}

func NewSecurityLogRepository(db *database.DB) securitylog.SecurityLogRepository {
	return &securityLogRepositoryImpl{db: db}
}

// Create implements securitylog.SecurityLogRepository.
func (r *securityLogRepositoryImpl) Create(ctx context.Context, entry securitylog.Entry) (securitylog.Entry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return securitylog.Entry{}, err
	}

	query := `
		INSERT INTO security_logs (
			id, user_id, event_type, description, ip_address,
			gps_latitude, gps_longitude, ip_latitude, ip_longitude, distance_meters
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err = q.QueryRow(ctx, query,
		id.String(),
		entry.UserID,
		string(entry.EventType),
		entry.Description,
		entry.IPAddress,
		entry.GPSLatitude,
		entry.GPSLongitude,
		entry.IPLatitude,
		entry.IPLongitude,
		entry.DistanceMeters,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return securitylog.Entry{}, fmt.Errorf("failed to insert security log: %w", err)
	}

	return entry, nil
}

// List implements securitylog.SecurityLogRepository.
func (r *securityLogRepositoryImpl) List(ctx context.Context, filter securitylog.ListFilter) ([]securitylog.Entry, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EventType != nil {
		conditions = append(conditions, fmt.Sprintf("s.event_type = $%d", argIdx))
		args = append(args, *filter.EventType)
		argIdx++
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("s.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT s.id, s.user_id, s.event_type, s.description, s.ip_address,
			   s.gps_latitude, s.gps_longitude, s.ip_latitude, s.ip_longitude,
			   s.distance_meters, s.created_at,
			   e.employee_id, e.name
		FROM security_logs s
		LEFT JOIN employees e ON e.user_id = s.user_id
		WHERE %s
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $%d
	`, strings.Join(conditions, " AND "), argIdx)
	args = append(args, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list security logs: %w", err)
	}
	defer rows.Close()

	var entries []securitylog.Entry
	for rows.Next() {
		var e securitylog.Entry
		err := rows.Scan(
			&e.ID, &e.UserID, &e.EventType, &e.Description, &e.IPAddress,
			&e.GPSLatitude, &e.GPSLongitude, &e.IPLatitude, &e.IPLongitude,
			&e.DistanceMeters, &e.CreatedAt,
			&e.EmployeeID, &e.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security log: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
