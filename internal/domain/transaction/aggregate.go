package transaction

import "time"

// Pure aggregation over transaction slices. Totals are recomputed from the
// full relevant set on every read; nothing here keeps running counters.
// Sums use ordinary float64 addition with no intermediate rounding.

// SumByType returns the total amount of transactions matching typ.
func SumByType(ts []*Transaction, typ Type) float64 {
	var sum float64
	for _, t := range ts {
		if t.Type == typ {
			sum += t.Amount
		}
	}
	return sum
}

// CategoryTotal pairs an expense category with its summed amount.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// CategoryTotals sums expense transactions per category, in the fixed
// category order. Expenses without a category count as "other". Categories
// with a zero total are omitted from the result.
func CategoryTotals(ts []*Transaction) []CategoryTotal {
	byCategory := make(map[Category]float64, len(Categories))
	for _, t := range ts {
		if t.Type != TypeExpense {
			continue
		}
		cat := CategoryOther
		if t.Category != nil {
			cat = *t.Category
		}
		byCategory[cat] += t.Amount
	}

	totals := make([]CategoryTotal, 0, len(Categories))
	for _, cat := range Categories {
		if total := byCategory[cat]; total > 0 {
			totals = append(totals, CategoryTotal{Category: cat, Total: total})
		}
	}
	return totals
}

// MonthRollup aggregates one calendar month.
type MonthRollup struct {
	Month    time.Month `json:"month"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
	Savings  float64    `json:"savings"`
	Balance  float64    `json:"balance"`
}

// MonthlyRollup buckets transactions into the 12 calendar months of year.
// The result always has exactly 12 entries, January first, months without
// activity included as zeros. A transaction belongs to the month of its
// Date field, not its CreatedAt.
func MonthlyRollup(ts []*Transaction, year int) []MonthRollup {
	months := make([]MonthRollup, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}

	for _, t := range ts {
		if t.Date.Year() != year {
			continue
		}
		m := &months[int(t.Date.Month())-1]
		switch t.Type {
		case TypeIncome:
			m.Income += t.Amount
		case TypeExpense:
			m.Expenses += t.Amount
		case TypeSavings:
			m.Savings += t.Amount
		}
	}

	for i := range months {
		m := &months[i]
		m.Balance = m.Income - m.Expenses - m.Savings
	}
	return months
}

// GoalProgress sums savings contributions linked to goalID. Unlinked savings
// never count toward any goal.
func GoalProgress(savings []*Transaction, goalID string) float64 {
	var sum float64
	for _, t := range savings {
		if t.Type == TypeSavings && t.GoalID != nil && *t.GoalID == goalID {
			sum += t.Amount
		}
	}
	return sum
}

// FixedTotal sums expenses in the fixed-obligation categories
// (bills, loans, installments).
func FixedTotal(ts []*Transaction) float64 {
	var sum float64
	for _, t := range ts {
		if t.Type == TypeExpense && t.Category != nil && IsFixedCategory(*t.Category) {
			sum += t.Amount
		}
	}
	return sum
}
