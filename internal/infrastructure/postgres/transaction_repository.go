package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"skarbonka/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, type, amount, currency, category, sub_category, person, date, note, goal_id, created_at`

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, type, amount, currency, category, sub_category, person, date, note, goal_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns

	row := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.Type, params.Amount, params.Currency,
		params.Category, params.SubCategory, params.Person, params.Date,
		params.Note, params.GoalID,
	)

	t, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, window *transaction.MonthWindow) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
	`
	var args []any
	if window != nil {
		query += ` WHERE date >= $1 AND date <= $2`
		args = append(args, window.Start, window.End)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) ListSavingsLinked(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = 'savings' AND goal_id IS NOT NULL
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = COALESCE($1, amount),
		    category = COALESCE($2, category),
		    sub_category = COALESCE($3, sub_category),
		    person = COALESCE($4, person),
		    date = COALESCE($5, date),
		    note = COALESCE($6, note)
		WHERE id = $7
		RETURNING ` + transactionColumns

	row := r.db.QueryRowContext(
		ctx, query,
		params.Amount, params.Category, params.SubCategory,
		params.Person, params.Date, params.Note, id,
	)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) ClearGoalID(ctx context.Context, goalID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE transactions SET goal_id = NULL WHERE goal_id = $1`, goalID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink transactions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var category, subCategory, note, goalID sql.NullString

	err := row.Scan(
		&t.ID, &t.Type, &t.Amount, &t.Currency,
		&category, &subCategory, &t.Person, &t.Date,
		&note, &goalID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if category.Valid {
		c := transaction.Category(category.String)
		t.Category = &c
	}
	if subCategory.Valid {
		t.SubCategory = &subCategory.String
	}
	if note.Valid {
		t.Note = &note.String
	}
	if goalID.Valid {
		t.GoalID = &goalID.String
	}

	return &t, nil
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}
