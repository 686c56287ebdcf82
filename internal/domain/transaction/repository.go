package transaction

import (
	"context"
	"time"
)

// MonthWindow is an inclusive date range covering whole calendar days.
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the window spanning a single calendar month.
func WindowFor(year int, month time.Month) MonthWindow {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthWindow{
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	// List returns transactions ordered by date descending. A nil window
	// returns the full history.
	List(ctx context.Context, window *MonthWindow) ([]*Transaction, error)
	// ListSavingsLinked returns savings transactions with a non-null goal
	// link, the input for goal progress and projections.
	ListSavingsLinked(ctx context.Context) ([]*Transaction, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error)
	Delete(ctx context.Context, id string) error
	// ClearGoalID nulls the goal link on every transaction referencing
	// goalID and reports how many rows were unlinked. The transactions
	// themselves are preserved.
	ClearGoalID(ctx context.Context, goalID string) (int64, error)
}
