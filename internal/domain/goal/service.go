package goal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skarbonka/internal/domain/transaction"
)

// Service contains the business logic for goal operations
type Service struct {
	repo     Repository
	unlinker TransactionUnlinker
}

// NewService creates a new goal service
func NewService(repo Repository, unlinker TransactionUnlinker) *Service {
	return &Service{repo: repo, unlinker: unlinker}
}

// CreateGoal creates a new goal with business validation
func (s *Service) CreateGoal(ctx context.Context, params CreateParams) (*Goal, error) {
	if params.Currency == "" {
		params.Currency = DefaultCurrency
	}
	params.Name = strings.TrimSpace(params.Name)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, params)
}

// GetGoal retrieves a goal by ID
func (s *Service) GetGoal(ctx context.Context, id string) (*Goal, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}
	return g, nil
}

// ListGoals returns all goals, oldest first.
func (s *Service) ListGoals(ctx context.Context) ([]*Goal, error) {
	return s.repo.List(ctx)
}

// DeleteGoal removes a goal, first nulling the goal link on every savings
// transaction that references it. The contributions stay in the history as
// unlinked savings; they are never deleted alongside the goal.
//
// The two steps are sequential calls with no compensating rollback: if the
// delete fails after the unlink succeeded, the transactions remain unlinked
// and the goal remains present. Callers should re-check state after a
// failure rather than assume atomicity.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	if _, err := s.GetGoal(ctx, id); err != nil {
		return err
	}

	if _, err := s.unlinker.ClearGoalID(ctx, id); err != nil {
		return fmt.Errorf("failed to unlink goal transactions: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	return nil
}

// Progress returns the derived current amount for a goal: the sum of linked
// savings contributions, recomputed from the full set on every call.
func (s *Service) Progress(savings []*transaction.Transaction, goalID string) float64 {
	return transaction.GoalProgress(savings, goalID)
}

// ProjectionFor computes the completion-date forecast for g from its linked
// savings history.
func (s *Service) ProjectionFor(g *Goal, savings []*transaction.Transaction, now time.Time) Projection {
	current := transaction.GoalProgress(savings, g.ID)
	series := MonthlySeries(savings, g.ID)
	return Project(g.TargetAmount, current, series, now)
}
