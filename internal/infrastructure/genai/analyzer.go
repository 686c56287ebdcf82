package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"skarbonka/internal/domain/analysis"
)

const DefaultModelName = "gemini-2.5-flash"

// Analyzer generates the financial narrative with Gemini. It expects the
// model to return a STRICT JSON object matching analysis.Analysis.
type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(ctx context.Context, model string) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model == "" {
		model = DefaultModelName
	}
	return &Analyzer{client: client, model: model}, nil
}

func (a *Analyzer) Generate(ctx context.Context, req analysis.Request) (*analysis.Analysis, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(req)},
			},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(rawText)

	var out analysis.Analysis
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w\nraw response: %s", err, rawText)
	}

	return &out, nil
}

func buildPrompt(req analysis.Request) string {
	var b strings.Builder

	b.WriteString("Jesteś ekspertem finansowym. Przeanalizuj poniższe dane finansowe i napisz zwięzłą analizę po polsku.\n\n")

	b.WriteString("WYBRANE MIESIĄCE: ")
	b.WriteString(strings.Join(req.SelectedMonths, ", "))
	b.WriteString("\n\nDANE MIESIĘCZNE:\n")
	for _, m := range req.MonthlyData {
		fmt.Fprintf(&b, "%s: Wpływy %.2f PLN, Wydatki %.2f PLN, Oszczędności %.2f PLN, Bilans %.2f PLN\n",
			m.Name, m.Income, m.Expenses, m.Savings, m.Balance)
	}

	b.WriteString("\nWYDATKI WG KATEGORII:\n")
	for _, c := range req.CategoryData {
		fmt.Fprintf(&b, "%s: %.2f PLN\n", c.Name, c.Value)
	}

	b.WriteString("\nPODSUMOWANIE:\n")
	fmt.Fprintf(&b, "- Suma wpływów: %.2f PLN\n", req.TotalIncome)
	fmt.Fprintf(&b, "- Suma wydatków: %.2f PLN\n", req.TotalExpenses)
	fmt.Fprintf(&b, "- Suma oszczędności: %.2f PLN\n", req.TotalSavings)
	fmt.Fprintf(&b, "- Bilans: %.2f PLN\n", req.TotalIncome-req.TotalExpenses-req.TotalSavings)

	b.WriteString(`
Odpowiedz w formacie STRICT JSON (bez komentarzy, bez Markdown, bez code fences):
{
  "trendAnalysis": "Krótki opis trendu (2-3 zdania) - czy finanse się poprawiają, pogarszają, są stabilne",
  "topInsights": ["Wgląd 1", "Wgląd 2", "Wgląd 3"],
  "suggestions": ["Sugestia 1", "Sugestia 2", "Sugestia 3"],
  "riskLevel": "low" | "medium" | "high",
  "savingsRate": "X%" (procent oszczędności względem wpływów),
  "biggestExpenseCategory": "nazwa kategorii",
  "monthlyTrend": "rising" | "falling" | "stable"
}

Bądź konkretny, używaj liczb z danych. Pisz zwięźle ale merytorycznie.
Odpowiedź musi zaczynać się od "{" i kończyć na "}".`)

	return b.String()
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
