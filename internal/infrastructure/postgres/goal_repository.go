package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"skarbonka/internal/domain/goal"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, params goal.CreateParams) (*goal.Goal, error) {
	query := `
		INSERT INTO goals (id, name, target_amount, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, target_amount, currency, created_at
	`

	var g goal.Goal
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.Name, params.TargetAmount, params.Currency,
	).Scan(&g.ID, &g.Name, &g.TargetAmount, &g.Currency, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return &g, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	query := `
		SELECT id, name, target_amount, currency, created_at
		FROM goals
		WHERE id = $1
	`

	var g goal.Goal
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.TargetAmount, &g.Currency, &g.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return &g, nil
}

func (r *GoalRepository) List(ctx context.Context) ([]*goal.Goal, error) {
	query := `
		SELECT id, name, target_amount, currency, created_at
		FROM goals
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		var g goal.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.Currency, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}
