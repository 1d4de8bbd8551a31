package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corebank/ledger-engine/pkg/allocator"
	"github.com/corebank/ledger-engine/pkg/api"
	"github.com/corebank/ledger-engine/pkg/events"
	"github.com/corebank/ledger-engine/pkg/ledger"
	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// TransferService executes validated transfers. Satisfied by *ledger.Engine.
type TransferService interface {
	Transfer(ctx context.Context, req ledger.TransferRequest) (*models.Transaction, error)
}

// NumberAllocator produces unique account numbers. Satisfied by *allocator.Allocator.
type NumberAllocator interface {
	Allocate(ctx context.Context) (string, error)
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	Transfers TransferService
	Allocator NumberAllocator
	Store     storage.Storage
	Balances  *ledger.Calculator
	Publisher events.Publisher
	Logger    *slog.Logger
}

// New creates a new Handler.
func New(transfers TransferService, numberAllocator NumberAllocator, store storage.Storage, balances *ledger.Calculator, publisher events.Publisher, logger *slog.Logger) *Handler {
	return &Handler{
		Transfers: transfers,
		Allocator: numberAllocator,
		Store:     store,
		Balances:  balances,
		Publisher: publisher,
		Logger:    logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message, transactionID string) {
	writeJSON(w, status, api.Error{Kind: kind, Message: message, TransactionID: transactionID})
}

// classify maps the error taxonomy onto HTTP statuses and kind names. Business
// rejections keep their kind verbatim; anything unrecognized is a server error
// reported without internal detail.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest, "InvalidInput"
	case errors.Is(err, storage.ErrAccountNotFound):
		return http.StatusNotFound, "AccountNotFound"
	case errors.Is(err, ledger.ErrAccountIneligible):
		return http.StatusUnprocessableEntity, "AccountIneligible"
	case errors.Is(err, storage.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "InsufficientFunds"
	case errors.Is(err, allocator.ErrAllocationExhausted):
		return http.StatusServiceUnavailable, "AllocationExhausted"
	default:
		return http.StatusInternalServerError, "StorageError"
	}
}
