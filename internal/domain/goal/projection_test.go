package goal

import (
	"testing"
	"time"

	"skarbonka/internal/domain/transaction"
)

func strPtr(s string) *string { return &s }

func savingsOn(goalID string, amount float64, y int, m time.Month, d int) *transaction.Transaction {
	return &transaction.Transaction{
		Type:   transaction.TypeSavings,
		Amount: amount,
		GoalID: strPtr(goalID),
		Date:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func TestMonthlySeries(t *testing.T) {
	savings := []*transaction.Transaction{
		savingsOn("goal-1", 500, 2025, time.March, 10),
		savingsOn("goal-1", 300, 2025, time.March, 25),
		savingsOn("goal-1", 700, 2025, time.January, 5),
		savingsOn("goal-2", 999, 2025, time.February, 1),
		{Type: transaction.TypeSavings, Amount: 100, Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	series := MonthlySeries(savings, "goal-1")

	if len(series) != 2 {
		t.Fatalf("MonthlySeries() returned %d months, want 2 (inactive months must not appear)", len(series))
	}
	if series[0].Month != time.January || series[0].Total != 700 {
		t.Errorf("first entry = %+v, want January 700", series[0])
	}
	if series[1].Month != time.March || series[1].Total != 800 {
		t.Errorf("second entry = %+v, want March 800", series[1])
	}
}

func TestMonthlySeries_OrdersAcrossYears(t *testing.T) {
	savings := []*transaction.Transaction{
		savingsOn("g", 100, 2025, time.January, 1),
		savingsOn("g", 200, 2024, time.December, 1),
	}

	series := MonthlySeries(savings, "g")
	if len(series) != 2 || series[0].Year != 2024 || series[1].Year != 2025 {
		t.Errorf("MonthlySeries() order = %+v, want 2024-12 then 2025-01", series)
	}
}

func TestProject_Achieved(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		target  float64
		current float64
		series  []MonthTotal
	}{
		{"Exactly at target, empty history", 10000, 10000, nil},
		{"Over target with history", 10000, 12000, []MonthTotal{{2025, time.May, 1000}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.target, tt.current, tt.series, now)
			if p.Status != StatusAchieved {
				t.Errorf("Project() status = %s, want achieved", p.Status)
			}
			if p.Date != nil {
				t.Error("achieved projection must carry no date")
			}
			if p.AvgMonthly != 0 {
				t.Error("achieved projection must carry no monthly average")
			}
		})
	}
}

func TestProject_InsufficientData(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	p := Project(10000, 4000, nil, now)
	if p.Status != StatusInsufficientData {
		t.Fatalf("Project() status = %s, want insufficient_data", p.Status)
	}
	if p.Remaining != 6000 {
		t.Errorf("Project() remaining = %v, want 6000", p.Remaining)
	}
	if p.Date != nil {
		t.Error("insufficient-data projection must carry no date")
	}
}

func TestProject_NonPositiveAverage(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	series := []MonthTotal{
		{2025, time.April, -500},
		{2025, time.May, 300},
	}

	p := Project(10000, 4000, series, now)
	if p.Status != StatusInsufficientData {
		t.Errorf("Project() status = %s, want insufficient_data for net-negative history", p.Status)
	}
}

func TestProject_Deterministic(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	series := []MonthTotal{
		{2025, time.April, 1000},
		{2025, time.May, 1000},
	}

	p := Project(10000, 4000, series, now)

	if p.Status != StatusProjected {
		t.Fatalf("Project() status = %s, want projected", p.Status)
	}
	if p.AvgMonthly != 1000 {
		t.Errorf("Project() avgMonthly = %v, want 1000", p.AvgMonthly)
	}
	if p.Remaining != 6000 {
		t.Errorf("Project() remaining = %v, want 6000", p.Remaining)
	}
	if p.MonthsRemaining != 6 {
		t.Errorf("Project() monthsRemaining = %d, want 6", p.MonthsRemaining)
	}

	want := now.AddDate(0, 6, 0)
	if p.Date == nil || !p.Date.Equal(want) {
		t.Errorf("Project() date = %v, want %v", p.Date, want)
	}
}

func TestProject_RoundsMonthsUp(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	series := []MonthTotal{{2025, time.May, 900}}

	// remaining 1000 / avg 900 = 1.11… → 2 months
	p := Project(2000, 1000, series, now)
	if p.MonthsRemaining != 2 {
		t.Errorf("Project() monthsRemaining = %d, want 2", p.MonthsRemaining)
	}
}
