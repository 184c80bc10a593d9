package securitylog

import "context"

type SecurityLogRepository interface {
	// Create appends an entry and returns it with id and created_at set.
	Create(ctx context.Context, entry Entry) (Entry, error)

	// List returns the newest entries first, joined with the owner's profile.
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}
