package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ananya/fraudlens/backend/internal/domain"
	"github.com/ananya/fraudlens/backend/internal/service"
)

type apiStubStore struct {
	users           []domain.User
	txRows          []domain.TransactionWithParties
	neighborhood    []domain.NeighborEdge
	amendResult     domain.Transaction
	amendErr        error
	upsertUserErr   error
	neighborhoodErr error

	ingestedUsers []domain.User
	ingestedTxs   []domain.Transaction
}

func (a *apiStubStore) UpsertUser(ctx context.Context, user domain.User) error {
	if a.upsertUserErr != nil {
		return a.upsertUserErr
	}
	a.ingestedUsers = append(a.ingestedUsers, user)
	return nil
}

func (a *apiStubStore) UpsertTransaction(ctx context.Context, tx domain.Transaction) error {
	a.ingestedTxs = append(a.ingestedTxs, tx)
	return nil
}

func (a *apiStubStore) UpdateTransactionAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error) {
	if a.amendErr != nil {
		return domain.Transaction{}, a.amendErr
	}
	return a.amendResult, nil
}

func (a *apiStubStore) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return a.users, nil
}

func (a *apiStubStore) ListTransactionsWithParties(ctx context.Context) ([]domain.TransactionWithParties, error) {
	return a.txRows, nil
}

func (a *apiStubStore) Neighborhood(ctx context.Context, kind domain.EntityKind, id string) ([]domain.NeighborEdge, error) {
	if a.neighborhoodErr != nil {
		return nil, a.neighborhoodErr
	}
	return a.neighborhood, nil
}

type apiStubLinker struct{}

func (apiStubLinker) LinkTransactionFlow(context.Context, string, string, string) error { return nil }
func (apiStubLinker) RelinkSharedAttributes(context.Context) error                      { return nil }
func (apiStubLinker) RelinkRelatedTransactions(context.Context) error                   { return nil }
func (apiStubLinker) RelinkSharedAttributesFor(context.Context, string) error           { return nil }
func (apiStubLinker) RelinkRelatedTransactionsFor(context.Context, string) error        { return nil }

func newTestHandlers(store *apiStubStore) *APIHandlers {
	svc := service.NewLinkageService(store, apiStubLinker{}, service.StrategyFull)
	return NewAPIHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
}

func TestHandleUsers_Ingest(t *testing.T) {
	store := &apiStubStore{}
	handlers := newTestHandlers(store)

	body := bytes.NewBufferString(`{"id":"u1","name":"Aarav","email":"family1@mail.com","payment_methods":["card-1"]}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	rec := httptest.NewRecorder()

	handlers.handleUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Message != "User created/updated" {
		t.Fatalf("unexpected message %q", payload.Message)
	}
	if len(store.ingestedUsers) != 1 || store.ingestedUsers[0].ID != "u1" {
		t.Fatalf("unexpected ingested users: %+v", store.ingestedUsers)
	}
}

func TestHandleUsers_IngestValidationFailure(t *testing.T) {
	handlers := newTestHandlers(&apiStubStore{})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"name":"no id"}`))
	rec := httptest.NewRecorder()

	handlers.handleUsers(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleUsers_IngestMalformedJSON(t *testing.T) {
	handlers := newTestHandlers(&apiStubStore{})

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"id":`))
	rec := httptest.NewRecorder()

	handlers.handleUsers(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleUsers_List(t *testing.T) {
	store := &apiStubStore{users: []domain.User{
		{ID: "u1", Name: "Aarav", Email: "family1@mail.com"},
		{ID: "u2", Name: "Priya"},
	}}
	handlers := newTestHandlers(store)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()

	handlers.handleUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload []userPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 2 || payload[0].ID != "u1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleUsers_MethodNotAllowed(t *testing.T) {
	handlers := newTestHandlers(&apiStubStore{})

	req := httptest.NewRequest(http.MethodDelete, "/users", nil)
	rec := httptest.NewRecorder()

	handlers.handleUsers(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestHandleTransactions_Ingest(t *testing.T) {
	store := &apiStubStore{}
	handlers := newTestHandlers(store)

	body := bytes.NewBufferString(`{"id":"TXN1001","senderId":"u1","receiverId":"u2","amount":500,"ip":"192.168.1.1","deviceId":"DVC5001"}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions", body)
	rec := httptest.NewRecorder()

	handlers.handleTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.ingestedTxs) != 1 || store.ingestedTxs[0].SenderID != "u1" {
		t.Fatalf("unexpected ingested transactions: %+v", store.ingestedTxs)
	}
}

func TestHandleTransactions_List(t *testing.T) {
	sender := domain.User{ID: "u1", Name: "Aarav"}
	store := &apiStubStore{txRows: []domain.TransactionWithParties{
		{
			Transaction: domain.Transaction{ID: "TXN1001", Amount: 500},
			Sender:      &sender,
		},
	}}
	handlers := newTestHandlers(store)

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	rec := httptest.NewRecorder()

	handlers.handleTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload []transactionRow
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 row, got %d", len(payload))
	}
	if payload[0].Sender == nil || payload[0].Sender.ID != "u1" {
		t.Fatalf("expected resolved sender, got %+v", payload[0].Sender)
	}
	if payload[0].Receiver != nil {
		t.Fatalf("expected nil receiver, got %+v", payload[0].Receiver)
	}
}

func TestHandleAmendTransaction(t *testing.T) {
	store := &apiStubStore{amendResult: domain.Transaction{ID: "TXN1001", Amount: 999}}
	handlers := newTestHandlers(store)

	body := bytes.NewBufferString(`{"id":"TXN1001","amount":999}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions/update", body)
	rec := httptest.NewRecorder()

	handlers.handleAmendTransaction(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload amendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Transaction.Amount != 999 {
		t.Fatalf("expected amended amount, got %v", payload.Transaction.Amount)
	}
}

func TestHandleAmendTransaction_NotFound(t *testing.T) {
	store := &apiStubStore{amendErr: domain.ErrNotFound}
	handlers := newTestHandlers(store)

	body := bytes.NewBufferString(`{"id":"TXN-MISSING","amount":10}`)
	req := httptest.NewRequest(http.MethodPost, "/transactions/update", body)
	rec := httptest.NewRecorder()

	handlers.handleAmendTransaction(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleNeighborhood_User(t *testing.T) {
	store := &apiStubStore{neighborhood: []domain.NeighborEdge{
		{
			Source:       domain.NodeRef{Kind: domain.KindUser, ID: "u1"},
			Relationship: domain.RelSharedAttribute,
			Target:       domain.NodeRef{Kind: domain.KindUser, ID: "u2"},
		},
	}}
	handlers := newTestHandlers(store)

	req := httptest.NewRequest(http.MethodGet, "/relationships/user/u1", nil)
	rec := httptest.NewRecorder()

	handlers.handleUserNeighborhood(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload []relationshipTriple
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(payload))
	}
	if payload[0].Relationship != "SHARED_ATTRIBUTE" {
		t.Fatalf("unexpected relationship %q", payload[0].Relationship)
	}
	if payload[0].Source.Kind != "User" || payload[0].Target.ID != "u2" {
		t.Fatalf("unexpected triple: %+v", payload[0])
	}
}

func TestHandleNeighborhood_EmptyResult(t *testing.T) {
	handlers := newTestHandlers(&apiStubStore{})

	req := httptest.NewRequest(http.MethodGet, "/relationships/transaction/TXN-LONELY", nil)
	rec := httptest.NewRecorder()

	handlers.handleTransactionNeighborhood(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestHandleNeighborhood_MissingID(t *testing.T) {
	handlers := newTestHandlers(&apiStubStore{})

	req := httptest.NewRequest(http.MethodGet, "/relationships/user/", nil)
	rec := httptest.NewRecorder()

	handlers.handleUserNeighborhood(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleNeighborhood_StoreFailure(t *testing.T) {
	store := &apiStubStore{neighborhoodErr: errors.New("graph offline")}
	handlers := newTestHandlers(store)

	req := httptest.NewRequest(http.MethodGet, "/relationships/user/u1", nil)
	rec := httptest.NewRecorder()

	handlers.handleUserNeighborhood(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	// Internal detail must not leak into the response body.
	if body := rec.Body.String(); bytes.Contains([]byte(body), []byte("graph offline")) {
		t.Fatalf("internal error leaked: %s", body)
	}
}
