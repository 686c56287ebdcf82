package goal

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrInvalidName   = errors.New("goal name is required")
	ErrInvalidTarget = errors.New("target amount must be greater than zero")
)

// DefaultCurrency is applied when a create request carries no currency.
const DefaultCurrency = "PLN"

// Goal is a named savings target. Its current amount is never stored; it is
// derived by summing linked savings transactions.
type Goal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TargetAmount float64   `json:"targetAmount"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateParams struct {
	Name         string
	TargetAmount float64
	Currency     string
}

// Validate checks the parameters before any store round-trip.
func (p *CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.TargetAmount <= 0 {
		return ErrInvalidTarget
	}
	return nil
}
