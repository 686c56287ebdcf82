package analysis

import "errors"

var (
	ErrNoData      = errors.New("no data in the selected months")
	ErrUnavailable = errors.New("analysis service is unavailable")
)

// RiskLevel grades the household's financial exposure.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Trend describes the month-over-month direction of the balance.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// MonthData is one month's totals as presented to the model.
type MonthData struct {
	Name     string  `json:"name"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
	Balance  float64 `json:"balance"`
}

// CategoryData is one expense category's total.
type CategoryData struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Request carries the aggregates the narrative is built from.
type Request struct {
	MonthlyData    []MonthData    `json:"monthlyData"`
	CategoryData   []CategoryData `json:"categoryData"`
	SelectedMonths []string       `json:"selectedMonths"`
	TotalIncome    float64        `json:"totalIncome"`
	TotalExpenses  float64        `json:"totalExpenses"`
	TotalSavings   float64        `json:"totalSavings"`
}

// Analysis is the model's structured verdict.
type Analysis struct {
	TrendAnalysis          string    `json:"trendAnalysis"`
	TopInsights            []string  `json:"topInsights"`
	Suggestions            []string  `json:"suggestions"`
	RiskLevel              RiskLevel `json:"riskLevel"`
	SavingsRate            string    `json:"savingsRate"`
	BiggestExpenseCategory string    `json:"biggestExpenseCategory"`
	MonthlyTrend           Trend     `json:"monthlyTrend"`
}
