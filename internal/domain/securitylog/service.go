package securitylog

import "context"

type SecurityLogService interface {
	// Record appends an entry. Failures are returned but callers may only log them.
	Record(ctx context.Context, entry Entry) error

	// List returns recent entries for administrators.
	List(ctx context.Context, filter ListFilter) ([]EntryResponse, error)
}
