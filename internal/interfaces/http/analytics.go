package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/analysis"
	"skarbonka/internal/domain/transaction"
)

type AnalyticsHandler struct {
	repo     transaction.Repository
	analysis *analysis.Service
	log      zerolog.Logger
}

// NewAnalyticsHandler builds the aggregate endpoints. The analysis
// service may be nil when no model is configured; POST /api/analyze
// then answers 503.
func NewAnalyticsHandler(repo transaction.Repository, analysisSvc *analysis.Service, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo, analysis: analysisSvc, log: log}
}

type SummaryResponse struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
	Balance  float64 `json:"balance"`
	Fixed    float64 `json:"fixed"`
	// Discretionary is expense spend outside the fixed categories.
	Discretionary float64 `json:"discretionary"`
}

type AnalyzeRequest struct {
	Year   int   `json:"year"`
	Months []int `json:"months,omitempty"`
}

func (h *AnalyticsHandler) list(w http.ResponseWriter, r *http.Request) ([]*transaction.Transaction, bool) {
	var window *transaction.MonthWindow

	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	// A lone month or year is rejected, same as the transaction listing.
	if monthStr != "" || yearStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return nil, false
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1 {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return nil, false
		}
		win := transaction.WindowFor(year, time.Month(month))
		window = &win
	}

	ts, err := h.repo.List(r.Context(), window)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list transactions")
		http.Error(w, "Failed to compute aggregates", http.StatusInternalServerError)
		return nil, false
	}
	return ts, true
}

// HandleSummary returns per-type totals plus the fixed vs discretionary
// split, optionally narrowed to one month via ?month=&year=.
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ts, ok := h.list(w, r)
	if !ok {
		return
	}

	income := transaction.SumByType(ts, transaction.TypeIncome)
	expenses := transaction.SumByType(ts, transaction.TypeExpense)
	savings := transaction.SumByType(ts, transaction.TypeSavings)
	fixed := transaction.FixedTotal(ts)

	writeJSON(w, http.StatusOK, SummaryResponse{
		Income:        income,
		Expenses:      expenses,
		Savings:       savings,
		Balance:       income - expenses - savings,
		Fixed:         fixed,
		Discretionary: expenses - fixed,
	})
}

// HandleRollup returns the twelve-month rollup for ?year=.
func (h *AnalyticsHandler) HandleRollup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		http.Error(w, "Invalid year", http.StatusBadRequest)
		return
	}

	ts, err := h.repo.List(r.Context(), nil)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list transactions")
		http.Error(w, "Failed to compute rollup", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, transaction.MonthlyRollup(ts, year))
}

// HandleCategories returns expense totals per category.
func (h *AnalyticsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ts, ok := h.list(w, r)
	if !ok {
		return
	}

	totals := transaction.CategoryTotals(ts)
	if totals == nil {
		totals = []transaction.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

// HandleAnalyze runs the narrative analysis over the selected months.
func (h *AnalyticsHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.analysis == nil {
		http.Error(w, "Analysis is not configured", http.StatusServiceUnavailable)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Year < 1 {
		http.Error(w, "Invalid year", http.StatusBadRequest)
		return
	}
	months := make([]time.Month, 0, len(req.Months))
	for _, m := range req.Months {
		if m < 1 || m > 12 {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return
		}
		months = append(months, time.Month(m))
	}

	ts, err := h.repo.List(r.Context(), nil)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list transactions")
		http.Error(w, "Failed to analyze finances", http.StatusInternalServerError)
		return
	}

	result, err := h.analysis.Analyze(r.Context(), ts, req.Year, months)
	if err != nil {
		if errors.Is(err, analysis.ErrNoData) {
			http.Error(w, "No data in the selected months", http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Msg("analysis failed")
		http.Error(w, "Failed to analyze finances", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
