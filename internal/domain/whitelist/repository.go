package whitelist

import "context"

// Repository defines the interface for role-assignment data access
type Repository interface {
	// Upsert inserts the role row if absent; an existing row is left as-is.
	Upsert(ctx context.Context, userID string, role Role) error
	// HasRole is the primary membership check, backed by a server-side
	// lookup function.
	HasRole(ctx context.Context, userID string) (bool, error)
	// Lookup is the fallback membership check: a direct table read, used
	// when the primary check errors.
	Lookup(ctx context.Context, userID string) (bool, error)
}
