package transaction

import (
	"errors"
	"testing"
	"time"
)

func TestCreateParams_Validate(t *testing.T) {
	valid := CreateParams{
		Type:   TypeExpense,
		Amount: 120.50,
		Person: "Konki",
		Date:   date(2025, time.May, 3),
	}

	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr error
	}{
		{"Valid expense", func(p *CreateParams) {}, nil},
		{"Valid with category", func(p *CreateParams) { p.Category = catPtr(CategoryBills) }, nil},
		{"Unknown type", func(p *CreateParams) { p.Type = "transfer" }, ErrInvalidType},
		{"Zero amount", func(p *CreateParams) { p.Amount = 0 }, ErrInvalidAmount},
		{"Negative amount", func(p *CreateParams) { p.Amount = -5 }, ErrInvalidAmount},
		{"Unknown person", func(p *CreateParams) { p.Person = "Nobody" }, ErrInvalidPerson},
		{"Zero date", func(p *CreateParams) { p.Date = time.Time{} }, ErrInvalidDate},
		{"Unknown category", func(p *CreateParams) { p.Category = catPtr("fun") }, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateParams_Normalize(t *testing.T) {
	t.Run("Income drops category and goal link", func(t *testing.T) {
		p := CreateParams{
			Type:        TypeIncome,
			Amount:      100,
			Category:    catPtr(CategoryFood),
			SubCategory: strPtr("groceries"),
			GoalID:      strPtr("goal-1"),
		}
		p.Normalize()
		if p.Category != nil || p.SubCategory != nil {
			t.Error("Normalize() kept category fields on income")
		}
		if p.GoalID != nil {
			t.Error("Normalize() kept goal link on income")
		}
	})

	t.Run("Savings keeps goal link, drops category", func(t *testing.T) {
		p := CreateParams{
			Type:     TypeSavings,
			Amount:   100,
			Category: catPtr(CategoryFood),
			GoalID:   strPtr("goal-1"),
		}
		p.Normalize()
		if p.Category != nil {
			t.Error("Normalize() kept category on savings")
		}
		if p.GoalID == nil || *p.GoalID != "goal-1" {
			t.Error("Normalize() dropped goal link on savings")
		}
	})

	t.Run("Default currency applied", func(t *testing.T) {
		p := CreateParams{Type: TypeExpense, Amount: 10}
		p.Normalize()
		if p.Currency != DefaultCurrency {
			t.Errorf("Normalize() currency = %q, want %q", p.Currency, DefaultCurrency)
		}
	})
}

func TestWindowFor(t *testing.T) {
	w := WindowFor(2025, time.February)
	if !w.Start.Equal(date(2025, time.February, 1)) {
		t.Errorf("WindowFor start = %v", w.Start)
	}
	if !w.End.Equal(date(2025, time.February, 28)) {
		t.Errorf("WindowFor end = %v", w.End)
	}

	leap := WindowFor(2024, time.February)
	if !leap.End.Equal(date(2024, time.February, 29)) {
		t.Errorf("WindowFor leap end = %v", leap.End)
	}
}
