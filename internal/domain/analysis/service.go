package analysis

import (
	"context"
	"fmt"
	"time"

	"skarbonka/internal/domain/transaction"
)

// Polish month names, indexed by time.Month.
var monthNames = [13]string{
	"",
	"Styczeń", "Luty", "Marzec", "Kwiecień", "Maj", "Czerwiec",
	"Lipiec", "Sierpień", "Wrzesień", "Październik", "Listopad", "Grudzień",
}

// MonthName returns the Polish display name for a month.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m]
}

// Service turns raw transactions into an analysis request and hands it
// to the configured analyzer.
type Service struct {
	analyzer Analyzer
}

func NewService(analyzer Analyzer) *Service {
	return &Service{analyzer: analyzer}
}

// BuildRequest assembles the aggregates for the selected months of a
// year. An empty months slice selects the whole year.
func BuildRequest(ts []*transaction.Transaction, year int, months []time.Month) Request {
	if len(months) == 0 {
		for m := time.January; m <= time.December; m++ {
			months = append(months, m)
		}
	}

	selected := make(map[time.Month]bool, len(months))
	for _, m := range months {
		selected[m] = true
	}

	var inWindow []*transaction.Transaction
	for _, t := range ts {
		if t.Date.Year() == year && selected[t.Date.Month()] {
			inWindow = append(inWindow, t)
		}
	}

	req := Request{
		TotalIncome:   transaction.SumByType(inWindow, transaction.TypeIncome),
		TotalExpenses: transaction.SumByType(inWindow, transaction.TypeExpense),
		TotalSavings:  transaction.SumByType(inWindow, transaction.TypeSavings),
	}

	for _, r := range transaction.MonthlyRollup(inWindow, year) {
		if !selected[r.Month] {
			continue
		}
		req.SelectedMonths = append(req.SelectedMonths, MonthName(r.Month))
		req.MonthlyData = append(req.MonthlyData, MonthData{
			Name:     MonthName(r.Month),
			Income:   r.Income,
			Expenses: r.Expenses,
			Savings:  r.Savings,
			Balance:  r.Balance,
		})
	}

	for _, c := range transaction.CategoryTotals(inWindow) {
		req.CategoryData = append(req.CategoryData, CategoryData{
			Name:  string(c.Category),
			Value: c.Total,
		})
	}

	return req
}

// Analyze runs the narrative analysis over the selected months.
func (s *Service) Analyze(ctx context.Context, ts []*transaction.Transaction, year int, months []time.Month) (*Analysis, error) {
	req := BuildRequest(ts, year, months)
	if len(req.CategoryData) == 0 && req.TotalIncome == 0 && req.TotalSavings == 0 {
		return nil, ErrNoData
	}

	out, err := s.analyzer.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}
	return out, nil
}
