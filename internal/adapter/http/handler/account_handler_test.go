package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/peerledger/internal/adapter/http/dto"
	"github.com/iho/peerledger/internal/domain"
	"github.com/iho/peerledger/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, id int64) (*domain.Account, error)
	deleteFn func(ctx context.Context, id int64) (*domain.Account, error)
	listFn   func(ctx context.Context) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.deleteFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:       1,
		Name:     "Alice Smith",
		Username: "alice",
		Balance:  100,
	}

	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body := `{"name":"Alice Smith","username":"alice","balance":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Alice Smith" || captured.Username != "alice" || captured.Balance != 100 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 {
		t.Fatalf("expected account ID 1, got %d", resp.ID)
	}
}

func TestAccountHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{invalid json"},
		{name: "missing name", body: `{"username":"alice"}`},
		{name: "missing username", body: `{"name":"Alice Smith"}`},
		{name: "wrong type", body: `{"name":"Alice Smith","username":"alice","balance":"lots"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
					t.Fatal("CreateAccount should not be called for invalid payload")
					return nil, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/users/", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAccountHandler_Get(t *testing.T) {
	account := &domain.Account{ID: 7, Name: "Alice", Username: "alice", Transactions: []*domain.Transaction{}}
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Account, error) {
			if id != 7 {
				t.Fatalf("expected id 7, got %d", id)
			}
			return account, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/api/users/7/", nil), "id", "7")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"transactions":[]`)) {
		t.Fatalf("expected empty transaction list, got %s", rec.Body.String())
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id int64) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/api/users/99/", nil), "id", "99")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("expected error message in body")
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, id int64) (*domain.Account, error) {
			return &domain.Account{ID: id, Name: "Alice", Username: "alice"}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/api/users/7/", nil), "id", "7")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: 1, Name: "Alice", Username: "alice", Balance: 100},
				{ID: 2, Name: "Bob", Username: "bob", Balance: 50},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp.Users))
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("balance")) {
		t.Fatalf("listing must omit balances: %s", rec.Body.String())
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
