package postgres

import (
	"context"
	"fmt"

	"skarbonka/internal/domain/whitelist"
)

type WhitelistRepository struct {
	db *DB
}

func NewWhitelistRepository(db *DB) *WhitelistRepository {
	return &WhitelistRepository{db: db}
}

func (r *WhitelistRepository) Upsert(ctx context.Context, userID string, role whitelist.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to upsert role: %w", err)
	}
	return nil
}

// HasRole goes through the server-side has_role function so the check
// matches what row-level policies see.
func (r *WhitelistRepository) HasRole(ctx context.Context, userID string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT has_role($1)`, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return ok, nil
}

// Lookup reads the table directly, the fallback when has_role is
// unavailable.
func (r *WhitelistRepository) Lookup(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(
		ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1)`, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to look up role: %w", err)
	}
	return ok, nil
}
