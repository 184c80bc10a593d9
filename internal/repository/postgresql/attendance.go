package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/attendance"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, COALESCE(a.user_id::text, ''), a.date::text, a.check_in, a.check_out, a.status,
	a.latitude, a.longitude, a.created_at, a.updated_at
`

const attendanceWithProfileColumns = attendanceColumns + `,
	e.name, e.department, e.position
`

func scanAttendance(row pgx.Row, withProfile bool) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []interface{}{
		&att.ID, &att.EmployeeID, &att.UserID, &att.Date, &att.CheckIn, &att.CheckOut, &att.Status,
		&att.Latitude, &att.Longitude, &att.CreatedAt, &att.UpdatedAt,
	}
	if withProfile {
		dest = append(dest, &att.EmployeeName, &att.Department, &att.Position)
	}
	err := row.Scan(dest...)
	return att, err
}

func collectAttendances(rows pgx.Rows, withProfile bool) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, withProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string, forUpdate bool) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// Newest first so legacy duplicates resolve to the latest write
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2::date
		ORDER BY a.id DESC
		LIMIT 1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, user_id, date, check_in, check_out, status, latitude, longitude
		) VALUES (
			$1, $2, $3, $4::date, $5, $6, $7, $8, $9
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	var userID interface{}
	if newAttendance.UserID != "" {
		userID = newAttendance.UserID
	}

	err = q.QueryRow(ctx, query,
		id.String(),
		newAttendance.EmployeeID,
		userID,
		newAttendance.Date,
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		string(newAttendance.Status),
		newAttendance.Latitude,
		newAttendance.Longitude,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrConcurrentWrite
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, status = $3, latitude = $4, longitude = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := q.QueryRow(ctx, query,
		att.CheckIn, att.CheckOut, string(att.Status), att.Latitude, att.Longitude, att.ID,
	).Scan(&att.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return att, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2::date AND $3::date
		ORDER BY a.date DESC, a.id DESC
	`
	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return collectAttendances(rows, false)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceWithProfileColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		WHERE a.date = $1::date
		ORDER BY a.check_in ASC NULLS LAST, a.employee_id ASC
	`
	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	return collectAttendances(rows, true)
}

// ListByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, from, to string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.date BETWEEN $1::date AND $2::date
	`
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by range: %w", err)
	}
	return collectAttendances(rows, false)
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
