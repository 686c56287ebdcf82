package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/goal"
	"skarbonka/internal/domain/transaction"
)

type GoalHandler struct {
	svc    *goal.Service
	txRepo transaction.Repository
	log    zerolog.Logger
}

func NewGoalHandler(svc *goal.Service, txRepo transaction.Repository, log zerolog.Logger) *GoalHandler {
	return &GoalHandler{svc: svc, txRepo: txRepo, log: log}
}

// Request/Response DTOs

type CreateGoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	Currency     string  `json:"currency,omitempty"`
}

type GoalResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"targetAmount"`
	Currency      string    `json:"currency"`
	CurrentAmount float64   `json:"currentAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toGoalResponse(g *goal.Goal, current float64) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		Currency:      g.Currency,
		CurrentAmount: current,
		CreatedAt:     g.CreatedAt,
	}
}

// HandleGoals routes requests to the appropriate handler based on method
func (h *GoalHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListGoals(w, r)
	case http.MethodPost:
		h.handleCreateGoal(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleGoalByID routes requests for a specific goal
func (h *GoalHandler) HandleGoalByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGetGoal(w, r)
	case http.MethodDelete:
		h.handleDeleteGoal(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListGoals returns every goal with its saved-so-far amount.
func (h *GoalHandler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.ListGoals(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list goals")
		http.Error(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}

	savings, err := h.txRepo.ListSavingsLinked(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list savings")
		http.Error(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}

	response := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		response = append(response, toGoalResponse(g, h.svc.Progress(savings, g.ID)))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *GoalHandler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.svc.CreateGoal(r.Context(), goal.CreateParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Currency:     req.Currency,
	})
	if err != nil {
		if errors.Is(err, goal.ErrInvalidName) || errors.Is(err, goal.ErrInvalidTarget) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("failed to create goal")
		http.Error(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toGoalResponse(g, 0))
}

func (h *GoalHandler) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	g, err := h.svc.GetGoal(r.Context(), id)
	if err != nil {
		if errors.Is(err, goal.ErrGoalNotFound) {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to get goal")
		http.Error(w, "Failed to get goal", http.StatusInternalServerError)
		return
	}

	savings, err := h.txRepo.ListSavingsLinked(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list savings")
		http.Error(w, "Failed to get goal", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toGoalResponse(g, h.svc.Progress(savings, g.ID)))
}

// handleDeleteGoal removes the goal after unlinking its savings history.
func (h *GoalHandler) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteGoal(r.Context(), id); err != nil {
		if errors.Is(err, goal.ErrGoalNotFound) {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to delete goal")
		http.Error(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGoalProjection forecasts when the goal will be reached at the
// current savings pace.
func (h *GoalHandler) HandleGoalProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Goal ID is required", http.StatusBadRequest)
		return
	}

	g, err := h.svc.GetGoal(r.Context(), id)
	if err != nil {
		if errors.Is(err, goal.ErrGoalNotFound) {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("id", id).Msg("failed to get goal")
		http.Error(w, "Failed to get goal", http.StatusInternalServerError)
		return
	}

	savings, err := h.txRepo.ListSavingsLinked(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list savings")
		http.Error(w, "Failed to compute projection", http.StatusInternalServerError)
		return
	}

	projection := h.svc.ProjectionFor(g, savings, time.Now())
	writeJSON(w, http.StatusOK, projection)
}
