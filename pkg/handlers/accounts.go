package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/corebank/ledger-engine/pkg/api"
	"github.com/corebank/ledger-engine/pkg/ledger"
	"github.com/corebank/ledger-engine/pkg/mapping"
	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// CreateAccount handles POST /accounts: allocates an external account number and
// provisions the account with a zero opening balance.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body api.NewAccount
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidInput", "request body is not valid JSON", "")
		return
	}
	if !ledger.ValidCurrency(body.Currency) || body.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "InvalidInput", "currency (3-letter uppercase code) and customer_id are required", "")
		return
	}

	number, err := h.Allocator.Allocate(r.Context())
	if err != nil {
		status, kind := classify(err)
		h.Logger.Error("account number allocation failed", "error", err)
		writeError(w, status, kind, "account number could not be allocated, retry later", "")
		return
	}

	account := &models.Account{
		ID:            uuid.New().String(),
		AccountNumber: number,
		Currency:      body.Currency,
		Status:        models.ACTIVE,
		CustomerID:    body.CustomerID,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := h.Store.CreateAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			writeError(w, http.StatusConflict, "Conflict", "account already exists", "")
			return
		}
		h.Logger.Error("account creation failed", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "StorageError", "account could not be created", "")
		return
	}

	writeJSON(w, http.StatusCreated, mapping.ToApiAccount(created))
}

// GetAccountById handles GET /accounts/{accountId}.
func (h *Handler) GetAccountById(w http.ResponseWriter, r *http.Request, accountID string) {
	account, err := h.Store.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "AccountNotFound", "no such account", "")
			return
		}
		h.Logger.Error("account lookup failed", "account_id", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "StorageError", "account could not be read", "")
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiAccount(account))
}
