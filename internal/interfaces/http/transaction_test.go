package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"skarbonka/internal/domain/goal"
	"skarbonka/internal/domain/transaction"
)

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	CreateFunc            func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	GetByIDFunc           func(ctx context.Context, id string) (*transaction.Transaction, error)
	ListFunc              func(ctx context.Context, window *transaction.MonthWindow) ([]*transaction.Transaction, error)
	ListSavingsLinkedFunc func(ctx context.Context) ([]*transaction.Transaction, error)
	UpdateFunc            func(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error)
	DeleteFunc            func(ctx context.Context, id string) error
	ClearGoalIDFunc       func(ctx context.Context, goalID string) (int64, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, transaction.ErrNotFound
}

func (m *MockTransactionRepo) List(ctx context.Context, window *transaction.MonthWindow) ([]*transaction.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, window)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListSavingsLinked(ctx context.Context) ([]*transaction.Transaction, error) {
	if m.ListSavingsLinkedFunc != nil {
		return m.ListSavingsLinkedFunc(ctx)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, transaction.ErrNotFound
}

func (m *MockTransactionRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTransactionRepo) ClearGoalID(ctx context.Context, goalID string) (int64, error) {
	if m.ClearGoalIDFunc != nil {
		return m.ClearGoalIDFunc(ctx, goalID)
	}
	return 0, nil
}

// MockGoalRepo implements goal.Repository for testing
type MockGoalRepo struct {
	CreateFunc  func(ctx context.Context, params goal.CreateParams) (*goal.Goal, error)
	GetByIDFunc func(ctx context.Context, id string) (*goal.Goal, error)
	ListFunc    func(ctx context.Context) ([]*goal.Goal, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockGoalRepo) Create(ctx context.Context, params goal.CreateParams) (*goal.Goal, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockGoalRepo) List(ctx context.Context) ([]*goal.Goal, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockGoalRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func newTransactionHandler(repo *MockTransactionRepo, goals *MockGoalRepo) *TransactionHandler {
	if goals == nil {
		goals = &MockGoalRepo{}
	}
	return NewTransactionHandler(repo, goals, zerolog.Nop())
}

func TestHandleTransactions_List(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		repo           func(t *testing.T) *MockTransactionRepo
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "Full history",
			url:  "/api/transactions",
			repo: func(t *testing.T) *MockTransactionRepo {
				return &MockTransactionRepo{
					ListFunc: func(ctx context.Context, window *transaction.MonthWindow) ([]*transaction.Transaction, error) {
						if window != nil {
							t.Error("expected nil window without month/year params")
						}
						return []*transaction.Transaction{
							{ID: "t-1", Type: transaction.TypeIncome, Amount: 5000, Person: "Konki"},
							{ID: "t-2", Type: transaction.TypeExpense, Amount: 200, Person: "Ania"},
						}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "Month window",
			url:  "/api/transactions?month=2&year=2025",
			repo: func(t *testing.T) *MockTransactionRepo {
				return &MockTransactionRepo{
					ListFunc: func(ctx context.Context, window *transaction.MonthWindow) ([]*transaction.Transaction, error) {
						if window == nil {
							t.Fatal("expected a month window")
						}
						want := transaction.WindowFor(2025, time.February)
						if !window.Start.Equal(want.Start) || !window.End.Equal(want.End) {
							t.Errorf("unexpected window %v", window)
						}
						return nil, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name: "Invalid month",
			url:  "/api/transactions?month=13&year=2025",
			repo: func(t *testing.T) *MockTransactionRepo {
				return &MockTransactionRepo{}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTransactionHandler(tt.repo(t), nil)

			req := httptest.NewRequest("GET", tt.url, nil)
			rr := httptest.NewRecorder()
			handler.HandleTransactions(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var got []*transaction.Transaction
			if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(got) != tt.expectedLen {
				t.Errorf("len = %d, want %d", len(got), tt.expectedLen)
			}
		})
	}
}

func TestHandleTransactions_Create(t *testing.T) {
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
			if params.Currency != transaction.DefaultCurrency {
				t.Errorf("expected default currency, got %q", params.Currency)
			}
			return &transaction.Transaction{ID: "t-1", Type: params.Type, Amount: params.Amount, Person: params.Person}, nil
		},
	}
	handler := newTransactionHandler(repo, nil)

	body, _ := json.Marshal(CreateTransactionRequest{
		Type:     "expense",
		Amount:   120.50,
		Category: strPtr("food"),
		Person:   "Ania",
		Date:     "2025-03-14",
	})
	req := httptest.NewRequest("POST", "/api/transactions", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.HandleTransactions(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
}

func TestHandleTransactions_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTransactionRequest
	}{
		{"zero amount", CreateTransactionRequest{Type: "expense", Amount: 0, Person: "Ania", Date: "2025-03-14"}},
		{"unknown person", CreateTransactionRequest{Type: "expense", Amount: 10, Person: "Bob", Date: "2025-03-14"}},
		{"unknown type", CreateTransactionRequest{Type: "transfer", Amount: 10, Person: "Ania", Date: "2025-03-14"}},
		{"bad category", CreateTransactionRequest{Type: "expense", Amount: 10, Category: strPtr("fun"), Person: "Ania", Date: "2025-03-14"}},
		{"bad date", CreateTransactionRequest{Type: "expense", Amount: 10, Person: "Ania", Date: "14.03.2025"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTransactionRepo{
				CreateFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
					t.Fatal("Create should not be called for invalid input")
					return nil, nil
				},
			}
			handler := newTransactionHandler(repo, nil)

			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest("POST", "/api/transactions", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			handler.HandleTransactions(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleTransactions_SavingsSplit(t *testing.T) {
	goals := &MockGoalRepo{
		ListFunc: func(ctx context.Context) ([]*goal.Goal, error) {
			return []*goal.Goal{
				{ID: "g-1", Name: "Wakacje", TargetAmount: 10000},
				{ID: "g-2", Name: "Remont", TargetAmount: 20000},
			}, nil
		},
	}

	var created []transaction.CreateParams
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
			created = append(created, params)
			return &transaction.Transaction{ID: "t", Type: params.Type, Amount: params.Amount, GoalID: params.GoalID}, nil
		},
	}
	handler := newTransactionHandler(repo, goals)

	body, _ := json.Marshal(CreateTransactionRequest{
		Type:             "savings",
		Amount:           300,
		Person:           "Konki",
		Date:             "2025-03-14",
		SplitAcrossGoals: true,
	})
	req := httptest.NewRequest("POST", "/api/transactions", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.HandleTransactions(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if len(created) != 2 {
		t.Fatalf("expected one transaction per goal, got %d", len(created))
	}
	for i, p := range created {
		if p.Amount != 150 {
			t.Errorf("transaction %d: amount = %v, want 150", i, p.Amount)
		}
		if p.GoalID == nil {
			t.Errorf("transaction %d: expected a goal link", i)
		}
	}
	if created[0].Note == nil || *created[0].Note != "(Wakacje)" {
		t.Errorf("expected goal name note, got %v", created[0].Note)
	}
}

func TestHandleTransactions_SavingsSplitWithoutGoals(t *testing.T) {
	goals := &MockGoalRepo{
		ListFunc: func(ctx context.Context) ([]*goal.Goal, error) { return nil, nil },
	}
	handler := newTransactionHandler(&MockTransactionRepo{}, goals)

	body, _ := json.Marshal(CreateTransactionRequest{
		Type:             "savings",
		Amount:           300,
		Person:           "Konki",
		Date:             "2025-03-14",
		SplitAcrossGoals: true,
	})
	req := httptest.NewRequest("POST", "/api/transactions", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.HandleTransactions(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleTransactionByID_Delete(t *testing.T) {
	tests := []struct {
		name           string
		deleteErr      error
		expectedStatus int
	}{
		{"Success", nil, http.StatusNoContent},
		{"Not Found", transaction.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTransactionRepo{
				DeleteFunc: func(ctx context.Context, id string) error { return tt.deleteErr },
			}
			handler := newTransactionHandler(repo, nil)

			req := httptest.NewRequest("DELETE", "/api/transactions/t-1", nil)
			req.SetPathValue("id", "t-1")
			rr := httptest.NewRecorder()
			handler.HandleTransactionByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
