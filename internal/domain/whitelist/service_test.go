package whitelist

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	UpsertFunc  func(ctx context.Context, userID string, role Role) error
	HasRoleFunc func(ctx context.Context, userID string) (bool, error)
	LookupFunc  func(ctx context.Context, userID string) (bool, error)

	UpsertCalls []string
	LookupCalls int
}

func (m *MockRepository) Upsert(ctx context.Context, userID string, role Role) error {
	m.UpsertCalls = append(m.UpsertCalls, userID)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, role)
	}
	return nil
}

func (m *MockRepository) HasRole(ctx context.Context, userID string) (bool, error) {
	if m.HasRoleFunc != nil {
		return m.HasRoleFunc(ctx, userID)
	}
	return false, nil
}

func (m *MockRepository) Lookup(ctx context.Context, userID string) (bool, error) {
	m.LookupCalls++
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, userID)
	}
	return false, nil
}

func testAllow() map[string]Role {
	return map[string]Role{
		"owner@example.com":  RoleOwner,
		"Member@Example.com": RoleMember,
	}
}

func TestEnsureByEmail(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		wantUpsert bool
	}{
		{"On allow-list", "owner@example.com", true},
		{"Case-insensitive match", "MEMBER@example.com", true},
		{"Not on allow-list", "stranger@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			service := NewService(repo, testAllow(), zerolog.Nop())

			service.EnsureByEmail(ctx, "user-1", tt.email)

			if got := len(repo.UpsertCalls) > 0; got != tt.wantUpsert {
				t.Errorf("EnsureByEmail(%q) upserted = %v, want %v", tt.email, got, tt.wantUpsert)
			}
		})
	}
}

func TestEnsureByEmail_SwallowsUpsertFailure(t *testing.T) {
	repo := &MockRepository{
		UpsertFunc: func(ctx context.Context, userID string, role Role) error {
			return errors.New("connection refused")
		},
	}
	service := NewService(repo, testAllow(), zerolog.Nop())

	// Must not panic or surface the error in any way.
	service.EnsureByEmail(context.Background(), "user-1", "owner@example.com")
}

func TestIsWhitelisted(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		repo       *MockRepository
		want       bool
		wantErr    bool
		wantLookup bool
	}{
		{
			name: "Primary check positive",
			repo: &MockRepository{
				HasRoleFunc: func(ctx context.Context, userID string) (bool, error) { return true, nil },
			},
			want: true,
		},
		{
			name: "Primary check negative, no fallback",
			repo: &MockRepository{
				HasRoleFunc: func(ctx context.Context, userID string) (bool, error) { return false, nil },
			},
			want: false,
		},
		{
			name: "Primary errors, fallback positive",
			repo: &MockRepository{
				HasRoleFunc: func(ctx context.Context, userID string) (bool, error) { return false, errors.New("rpc failed") },
				LookupFunc:  func(ctx context.Context, userID string) (bool, error) { return true, nil },
			},
			want:       true,
			wantLookup: true,
		},
		{
			name: "Both paths error",
			repo: &MockRepository{
				HasRoleFunc: func(ctx context.Context, userID string) (bool, error) { return false, errors.New("rpc failed") },
				LookupFunc:  func(ctx context.Context, userID string) (bool, error) { return false, errors.New("table gone") },
			},
			want:       false,
			wantErr:    true,
			wantLookup: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(tt.repo, testAllow(), zerolog.Nop())

			got, err := service.IsWhitelisted(ctx, "user-1")

			if (err != nil) != tt.wantErr {
				t.Errorf("IsWhitelisted() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("IsWhitelisted() = %v, want %v", got, tt.want)
			}
			if tt.wantLookup && tt.repo.LookupCalls == 0 {
				t.Error("IsWhitelisted() never fell back to the table lookup")
			}
			if !tt.wantLookup && tt.repo.LookupCalls > 0 {
				t.Error("IsWhitelisted() used the fallback although the primary check succeeded")
			}
		})
	}
}
