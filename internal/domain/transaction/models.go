package transaction

import (
	"errors"
	"time"
)

// Type classifies a transaction as income, expense or a savings contribution.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	TypeSavings Type = "savings"
)

// Category of an expense transaction. Meaningful only when Type is expense.
type Category string

const (
	CategoryBills        Category = "bills"
	CategoryLoans        Category = "loans"
	CategoryInstallments Category = "installments"
	CategoryFood         Category = "food"
	CategoryOther        Category = "other"
)

// Categories lists all expense categories in display order.
var Categories = []Category{
	CategoryBills,
	CategoryLoans,
	CategoryInstallments,
	CategoryFood,
	CategoryOther,
}

// FixedCategories are the recurring-obligation categories used for the
// "income minus fixed obligations" breakdown.
var FixedCategories = []Category{CategoryBills, CategoryLoans, CategoryInstallments}

// Persons are the household members a transaction can be attributed to.
var Persons = []string{"Konki", "Ania"}

// DefaultCurrency is applied when a create request carries no currency.
const DefaultCurrency = "PLN"

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrInvalidPerson   = errors.New("unknown person")
	ErrInvalidDate     = errors.New("transaction date is required")
	ErrNotFound        = errors.New("transaction not found")
)

type Transaction struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    *Category `json:"category,omitempty"`
	SubCategory *string   `json:"subCategory,omitempty"`
	Person      string    `json:"person"`
	Date        time.Time `json:"date"`
	Note        *string   `json:"note,omitempty"`
	GoalID      *string   `json:"goalId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateParams struct {
	Type        Type
	Amount      float64
	Currency    string
	Category    *Category
	SubCategory *string
	Person      string
	Date        time.Time
	Note        *string
	GoalID      *string
}

type UpdateParams struct {
	Amount      *float64
	Category    *Category
	SubCategory *string
	Person      *string
	Date        *time.Time
	Note        *string
}

// Validate checks the parameters before any store round-trip.
func (p *CreateParams) Validate() error {
	switch p.Type {
	case TypeIncome, TypeExpense, TypeSavings:
	default:
		return ErrInvalidType
	}

	if p.Amount <= 0 {
		return ErrInvalidAmount
	}

	if !IsValidPerson(p.Person) {
		return ErrInvalidPerson
	}

	if p.Date.IsZero() {
		return ErrInvalidDate
	}

	if p.Type == TypeExpense && p.Category != nil && !IsValidCategory(*p.Category) {
		return ErrInvalidCategory
	}

	return nil
}

// Normalize applies the field-meaning invariant: category and sub-category
// are carried only on expenses, goal links only on savings. Rows with these
// fields unset are always accepted; rows with them set on the wrong type are
// silently cleared, never rejected.
func (p *CreateParams) Normalize() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Type != TypeExpense {
		p.Category = nil
		p.SubCategory = nil
	}
	if p.Type != TypeSavings {
		p.GoalID = nil
	}
}

func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func IsValidPerson(p string) bool {
	for _, known := range Persons {
		if p == known {
			return true
		}
	}
	return false
}

// IsFixedCategory reports whether c belongs to the fixed-obligation subset.
func IsFixedCategory(c Category) bool {
	for _, fixed := range FixedCategories {
		if c == fixed {
			return true
		}
	}
	return false
}
