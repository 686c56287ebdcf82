package goal

import "context"

// Repository defines the interface for goal data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Goal, error)
	GetByID(ctx context.Context, id string) (*Goal, error)
	// List returns all goals ordered by creation time, oldest first.
	List(ctx context.Context) ([]*Goal, error)
	Delete(ctx context.Context, id string) error
}

// TransactionUnlinker clears the goal link on savings transactions that
// reference a goal about to be deleted.
type TransactionUnlinker interface {
	ClearGoalID(ctx context.Context, goalID string) (int64, error)
}
