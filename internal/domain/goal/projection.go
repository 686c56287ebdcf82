package goal

import (
	"math"
	"sort"
	"time"

	"skarbonka/internal/domain/transaction"
)

// ProjectionStatus tags the outcome of a completion-date forecast.
type ProjectionStatus string

const (
	// StatusAchieved means the derived current amount already covers the
	// target; no date or monthly-average figure applies.
	StatusAchieved ProjectionStatus = "achieved"
	// StatusInsufficientData means there is no usable contribution history
	// to extrapolate from; only the remaining amount is reported.
	StatusInsufficientData ProjectionStatus = "insufficient_data"
	// StatusProjected carries a concrete forecast.
	StatusProjected ProjectionStatus = "projected"
)

// Projection is the forecast result for a goal.
type Projection struct {
	Status          ProjectionStatus `json:"status"`
	Remaining       float64          `json:"remaining,omitempty"`
	AvgMonthly      float64          `json:"avgMonthly,omitempty"`
	MonthsRemaining int              `json:"monthsRemaining,omitempty"`
	Date            *time.Time       `json:"date,omitempty"`
}

// MonthTotal is one calendar month of contributions toward a goal.
type MonthTotal struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Total float64    `json:"total"`
}

// MonthlySeries buckets the goal's linked savings by calendar month,
// chronologically. Only months with at least one contribution appear;
// inactive months are not synthesized as zero entries, so they never
// dilute the average.
func MonthlySeries(savings []*transaction.Transaction, goalID string) []MonthTotal {
	type key struct {
		year  int
		month time.Month
	}
	totals := make(map[key]float64)

	for _, t := range savings {
		if t.Type != transaction.TypeSavings || t.GoalID == nil || *t.GoalID != goalID {
			continue
		}
		k := key{year: t.Date.Year(), month: t.Date.Month()}
		totals[k] += t.Amount
	}

	series := make([]MonthTotal, 0, len(totals))
	for k, total := range totals {
		series = append(series, MonthTotal{Year: k.year, Month: k.month, Total: total})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})
	return series
}

// Project computes the completion-date forecast for a goal.
//
// An achieved goal wins over everything, including an empty history. With
// history present, the average is the arithmetic mean over active months
// only; monthsRemaining = ceil(remaining / avg); the projected date is now
// advanced by that many calendar months (day-of-month is not pinned at
// month-end edge cases).
func Project(targetAmount, currentAmount float64, series []MonthTotal, now time.Time) Projection {
	remaining := targetAmount - currentAmount
	if remaining <= 0 {
		return Projection{Status: StatusAchieved}
	}

	if len(series) == 0 {
		return Projection{Status: StatusInsufficientData, Remaining: remaining}
	}

	var totalSaved float64
	for _, m := range series {
		totalSaved += m.Total
	}
	avgMonthly := totalSaved / float64(len(series))

	if avgMonthly <= 0 {
		return Projection{Status: StatusInsufficientData, Remaining: remaining}
	}

	monthsRemaining := int(math.Ceil(remaining / avgMonthly))
	projected := now.AddDate(0, monthsRemaining, 0)

	return Projection{
		Status:          StatusProjected,
		Remaining:       remaining,
		AvgMonthly:      avgMonthly,
		MonthsRemaining: monthsRemaining,
		Date:            &projected,
	}
}
