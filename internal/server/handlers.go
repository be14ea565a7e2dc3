package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ananya/fraudlens/backend/internal/domain"
	"github.com/ananya/fraudlens/backend/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.LinkageService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.LinkageService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

type userPayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	PaymentMethods []string `json:"payment_methods"`
}

type transactionPayload struct {
	ID         string  `json:"id"`
	SenderID   string  `json:"senderId"`
	ReceiverID string  `json:"receiverId"`
	Amount     float64 `json:"amount"`
	IP         string  `json:"ip"`
	DeviceID   string  `json:"deviceId"`
}

type amendPayload struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

type transactionRow struct {
	Transaction transactionPayload `json:"transaction"`
	Sender      *userPayload       `json:"sender"`
	Receiver    *userPayload       `json:"receiver"`
}

type nodeRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type relationshipTriple struct {
	Source       nodeRef `json:"source"`
	Relationship string  `json:"relationship"`
	Target       nodeRef `json:"target"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type amendResponse struct {
	Message     string             `json:"message"`
	Transaction transactionPayload `json:"transaction"`
}

func (h *APIHandlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.ingestUser(w, r)
	case http.MethodGet:
		h.listUsers(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *APIHandlers) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.ingestTransaction(w, r)
	case http.MethodGet:
		h.listTransactions(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *APIHandlers) ingestUser(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := service.UserInput{
		ID:             payload.ID,
		Name:           payload.Name,
		Email:          payload.Email,
		Phone:          payload.Phone,
		Address:        payload.Address,
		PaymentMethods: payload.PaymentMethods,
	}

	if err := h.service.IngestUser(r.Context(), input); err != nil {
		h.writeServiceError(w, err, "failed to ingest user", "userId", payload.ID)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "User created/updated"})
}

func (h *APIHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to list users")
		return
	}

	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPayload(u))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) ingestTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := service.TransactionInput{
		ID:         payload.ID,
		SenderID:   payload.SenderID,
		ReceiverID: payload.ReceiverID,
		Amount:     payload.Amount,
		IP:         payload.IP,
		DeviceID:   payload.DeviceID,
	}

	if err := h.service.IngestTransaction(r.Context(), input); err != nil {
		h.writeServiceError(w, err, "failed to ingest transaction", "transactionId", payload.ID)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "Transaction created/linked"})
}

func (h *APIHandlers) listTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "failed to list transactions")
		return
	}

	out := make([]transactionRow, 0, len(rows))
	for _, row := range rows {
		item := transactionRow{Transaction: toTransactionPayload(row.Transaction)}
		if row.Sender != nil {
			sender := toUserPayload(*row.Sender)
			item.Sender = &sender
		}
		if row.Receiver != nil {
			receiver := toUserPayload(*row.Receiver)
			item.Receiver = &receiver
		}
		out = append(out, item)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *APIHandlers) handleAmendTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload amendPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := h.service.AmendTransactionAmount(r.Context(), strings.TrimSpace(payload.ID), payload.Amount)
	if err != nil {
		h.writeServiceError(w, err, "failed to amend transaction amount", "transactionId", payload.ID)
		return
	}

	respondJSON(w, http.StatusOK, amendResponse{
		Message:     "Transaction updated",
		Transaction: toTransactionPayload(tx),
	})
}

func (h *APIHandlers) handleUserNeighborhood(w http.ResponseWriter, r *http.Request) {
	h.neighborhood(w, r, domain.KindUser, "/relationships/user/")
}

func (h *APIHandlers) handleTransactionNeighborhood(w http.ResponseWriter, r *http.Request) {
	h.neighborhood(w, r, domain.KindTransaction, "/relationships/transaction/")
}

func (h *APIHandlers) neighborhood(w http.ResponseWriter, r *http.Request, kind domain.EntityKind, prefix string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "entity id is required")
		return
	}

	edges, err := h.service.GetNeighborhood(r.Context(), kind, id)
	if err != nil {
		h.writeServiceError(w, err, "failed to fetch neighborhood", "kind", string(kind), "id", id)
		return
	}

	out := make([]relationshipTriple, 0, len(edges))
	for _, edge := range edges {
		out = append(out, relationshipTriple{
			Source:       nodeRef{Kind: string(edge.Source.Kind), ID: edge.Source.ID},
			Relationship: edge.Relationship,
			Target:       nodeRef{Kind: string(edge.Target.Kind), ID: edge.Target.ID},
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// writeServiceError maps facade errors onto status codes: validation
// failures are 400, missing entities 404, everything else a logged 500.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(msg, append([]any{"error", err}, args...)...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func toUserPayload(u domain.User) userPayload {
	return userPayload{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Address:        u.Address,
		PaymentMethods: u.PaymentMethods,
	}
}

func toTransactionPayload(t domain.Transaction) transactionPayload {
	return transactionPayload{
		ID:         t.ID,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Amount:     t.Amount,
		IP:         t.IP,
		DeviceID:   t.DeviceID,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
