package whitelist

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Service resolves whether an authenticated user may use the application.
type Service struct {
	repo Repository
	// allow maps lowercased e-mail addresses to the role they should be
	// provisioned with. Users outside the map are never auto-provisioned.
	allow map[string]Role
	log   zerolog.Logger
}

func NewService(repo Repository, allow map[string]Role, log zerolog.Logger) *Service {
	normalized := make(map[string]Role, len(allow))
	for email, role := range allow {
		normalized[strings.ToLower(email)] = role
	}
	return &Service{repo: repo, allow: normalized, log: log}
}

// EnsureByEmail auto-provisions a whitelist entry when the user's e-mail is
// on the fixed allow-list. Best-effort: failures are logged and discarded so
// they can never block the membership check that follows.
func (s *Service) EnsureByEmail(ctx context.Context, userID, email string) {
	role, ok := s.allow[strings.ToLower(email)]
	if !ok {
		return
	}
	if err := s.repo.Upsert(ctx, userID, role); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("whitelist auto-provision failed")
	}
}

// IsWhitelisted resolves membership for userID. The primary check is the
// server-side lookup; if it errors, a direct table read is tried instead.
// Absence of a role row by either path means not whitelisted.
func (s *Service) IsWhitelisted(ctx context.Context, userID string) (bool, error) {
	ok, err := s.repo.HasRole(ctx, userID)
	if err == nil {
		return ok, nil
	}
	s.log.Warn().Err(err).Str("user_id", userID).Msg("primary whitelist check failed, falling back to table lookup")

	ok, err = s.repo.Lookup(ctx, userID)
	if err != nil {
		return false, err
	}
	return ok, nil
}
