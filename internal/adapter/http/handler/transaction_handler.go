package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goexpense/internal/adapter/http/dto"
	"github.com/iho/goexpense/internal/domain"
	"github.com/iho/goexpense/internal/usecase"
)

// LedgerService defines the behavior needed by TransactionHandler.
type LedgerService interface {
	Add(ctx context.Context, input usecase.AddTransactionInput) (*domain.Transaction, error)
	Remove(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
	Get(id string) (*domain.Transaction, error)
	Transactions() []*domain.Transaction
	Summary() usecase.Summary
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledger LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledger LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// List returns all transactions, newest first, with the balance header.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewTransactionListResponse(h.ledger.Transactions()))
}

// Create adds a transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transaction", err.Error())
		return
	}

	tx, err := h.ledger.Add(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.ledger.Get(id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Delete removes a transaction. Unknown ids succeed without changes.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	if err := h.ledger.Remove(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to remove transaction", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Balance returns the balance header.
func (h *TransactionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.BalanceFromSummary(h.ledger.Summary()))
}

// Refresh reloads the ledger from the store and returns the list.
func (h *TransactionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Refresh(r.Context()); err != nil {
		writeError(w, mapDomainError(err), "failed to refresh", err.Error())
		return
	}

	h.List(w, r)
}
