package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/goal"
	"skarbonka/internal/domain/transaction"
)

type TransactionHandler struct {
	repo  transaction.Repository
	goals goal.Repository
	log   zerolog.Logger
}

func NewTransactionHandler(repo transaction.Repository, goals goal.Repository, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{repo: repo, goals: goals, log: log}
}

// Request/Response DTOs

type CreateTransactionRequest struct {
	Type        string   `json:"type"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency,omitempty"`
	Category    *string  `json:"category,omitempty"`
	SubCategory *string  `json:"subCategory,omitempty"`
	Person      string   `json:"person"`
	Date        string   `json:"date"`
	Note        *string  `json:"note,omitempty"`
	GoalID      *string  `json:"goalId,omitempty"`
	// SplitAcrossGoals divides a savings amount evenly across every
	// existing goal, one linked transaction per goal.
	SplitAcrossGoals bool `json:"splitAcrossGoals,omitempty"`
}

type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty"`
	SubCategory *string  `json:"subCategory,omitempty"`
	Person      *string  `json:"person,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Note        *string  `json:"note,omitempty"`
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// HandleTransactions routes requests to the appropriate handler based on method
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r)
	case http.MethodPost:
		h.handleCreateTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransactionByID routes requests for a specific transaction
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetTransaction(w, r)
	case http.MethodPut:
		h.handleUpdateTransaction(w, r)
	case http.MethodDelete:
		h.handleDeleteTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListTransactions returns transactions, optionally narrowed to a
// single calendar month via ?month=&year=.
func (h *TransactionHandler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var window *transaction.MonthWindow

	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr != "" || yearStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1 {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}
		win := transaction.WindowFor(year, time.Month(month))
		window = &win
	}

	transactions, err := h.repo.List(r.Context(), window)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list transactions")
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	if transactions == nil {
		transactions = []*transaction.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	params := transaction.CreateParams{
		Type:        transaction.Type(req.Type),
		Amount:      req.Amount,
		Currency:    req.Currency,
		SubCategory: req.SubCategory,
		Person:      req.Person,
		Date:        date,
		Note:        req.Note,
		GoalID:      req.GoalID,
	}
	if req.Category != nil {
		c := transaction.Category(*req.Category)
		params.Category = &c
	}

	params.Normalize()
	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if params.Type == transaction.TypeSavings && req.SplitAcrossGoals {
		h.createSplitSavings(w, r, params)
		return
	}

	t, err := h.repo.Create(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create transaction")
		http.Error(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// createSplitSavings records one linked savings transaction per goal,
// dividing the entered amount evenly. This is a recording convenience;
// each resulting transaction stands on its own.
func (h *TransactionHandler) createSplitSavings(w http.ResponseWriter, r *http.Request, params transaction.CreateParams) {
	goals, err := h.goals.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list goals for savings split")
		http.Error(w, "Failed to create transactions", http.StatusInternalServerError)
		return
	}
	if len(goals) == 0 {
		http.Error(w, "No goals to split savings across", http.StatusBadRequest)
		return
	}

	share := params.Amount / float64(len(goals))
	baseNote := ""
	if params.Note != nil {
		baseNote = *params.Note + " "
	}

	created := make([]*transaction.Transaction, 0, len(goals))
	for _, g := range goals {
		p := params
		p.Amount = share
		p.GoalID = &g.ID
		note := fmt.Sprintf("%s(%s)", baseNote, g.Name)
		p.Note = &note

		t, err := h.repo.Create(r.Context(), p)
		if err != nil {
			h.log.Error().Err(err).Str("goal_id", g.ID).Msg("failed to create split savings transaction")
			http.Error(w, "Failed to create transactions", http.StatusInternalServerError)
			return
		}
		created = append(created, t)
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	t, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to get transaction")
		http.Error(w, "Failed to get transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *TransactionHandler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := transaction.UpdateParams{
		Amount:      req.Amount,
		SubCategory: req.SubCategory,
		Person:      req.Person,
		Note:        req.Note,
	}
	if req.Category != nil {
		c := transaction.Category(*req.Category)
		if !transaction.IsValidCategory(c) {
			http.Error(w, "Invalid category", http.StatusBadRequest)
			return
		}
		params.Category = &c
	}
	if req.Person != nil && !transaction.IsValidPerson(*req.Person) {
		http.Error(w, "Invalid person", http.StatusBadRequest)
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		http.Error(w, "Amount must be positive", http.StatusBadRequest)
		return
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.Date = &date
	}

	t, err := h.repo.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to update transaction")
		http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *TransactionHandler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to delete transaction")
		http.Error(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
