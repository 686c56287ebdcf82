package genai

import (
	"strings"
	"testing"

	"skarbonka/internal/domain/analysis"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain json",
			raw:  `{"riskLevel":"low"}`,
			want: `{"riskLevel":"low"}`,
		},
		{
			name: "json fence",
			raw:  "```json\n{\"riskLevel\":\"low\"}\n```",
			want: `{"riskLevel":"low"}`,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"riskLevel\":\"medium\"}\n```",
			want: `{"riskLevel":"medium"}`,
		},
		{
			name: "prose around the object",
			raw:  "Oto analiza:\n{\"riskLevel\":\"high\"}\nPozdrawiam",
			want: `{"riskLevel":"high"}`,
		},
		{
			name: "leading and trailing whitespace",
			raw:  "  \n{\"savingsRate\":12.5}\n  ",
			want: `{"savingsRate":12.5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanModelJSON(tt.raw)
			if got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	req := analysis.Request{
		MonthlyData: []analysis.MonthData{
			{Name: "Maj", Income: 8000, Expenses: 3400, Savings: 1000, Balance: 3600},
		},
		CategoryData: []analysis.CategoryData{
			{Name: "bills", Value: 2500},
			{Name: "food", Value: 900},
		},
		SelectedMonths: []string{"Maj"},
		TotalIncome:    8000,
		TotalExpenses:  3400,
		TotalSavings:   1000,
	}

	prompt := buildPrompt(req)

	for _, want := range []string{"Maj", "bills", "food", "8000", "riskLevel", "monthlyTrend"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
