package postgresql

import (
	"context"
	"fmt"

	"github.com/diskominfo-klu/absensi-backend-go/internal/domain/dashboard"
	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetAttendanceStatsByDay counts distinct employees so legacy duplicate rows are not double counted
func (r *dashboardRepositoryImpl) GetAttendanceStatsByDay(ctx context.Context, date string) (*dashboard.AttendanceStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees) AS total_employees,
			COUNT(DISTINCT a.employee_id) FILTER (WHERE a.status = 'present') AS present,
			COUNT(DISTINCT a.employee_id) FILTER (WHERE a.status = 'late') AS late,
			COUNT(DISTINCT a.employee_id) FILTER (WHERE a.check_out IS NOT NULL) AS checked_out
		FROM attendances a
		JOIN employees e ON e.employee_id = a.employee_id
		WHERE a.date = $1::date
	`

	var stats dashboard.AttendanceStats
	err := q.QueryRow(ctx, query, date).Scan(
		&stats.TotalEmployees, &stats.Present, &stats.Late, &stats.CheckedOut,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance stats by day: %w", err)
	}
	return &stats, nil
}

// GetMonthlyAttendanceWithRecords returns counts in [from, to] plus the latest records
// Uses 2 queries but they run in the same DB call context
func (r *dashboardRepositoryImpl) GetMonthlyAttendanceWithRecords(ctx context.Context, from, to string, limit int) (*dashboard.MonthlyAttendanceData, error) {
	q := GetQuerier(ctx, r.db)

	// Query 1: Get counts
	countQuery := `
		SELECT
			COUNT(DISTINCT (employee_id, date)) FILTER (WHERE status = 'present') AS present,
			COUNT(DISTINCT (employee_id, date)) FILTER (WHERE status = 'late') AS late
		FROM attendances
		WHERE date BETWEEN $1::date AND $2::date
	`

	var data dashboard.MonthlyAttendanceData
	if err := q.QueryRow(ctx, countQuery, from, to).Scan(&data.Present, &data.Late); err != nil {
		return nil, fmt.Errorf("failed to get monthly attendance counts: %w", err)
	}

	// Query 2: Latest records
	recordsQuery := `
		SELECT a.employee_id, e.name, a.date::text, a.status, a.check_in
		FROM attendances a
		LEFT JOIN employees e ON e.employee_id = a.employee_id
		WHERE a.date BETWEEN $1::date AND $2::date
		ORDER BY a.updated_at DESC
		LIMIT $3
	`
	rows, err := q.Query(ctx, recordsQuery, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest attendance records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec dashboard.LatestRecord
		if err := rows.Scan(&rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.Status, &rec.CheckIn); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		data.Records = append(data.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &data, nil
}
