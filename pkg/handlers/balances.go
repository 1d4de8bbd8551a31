package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/corebank/ledger-engine/pkg/api"
	"github.com/corebank/ledger-engine/pkg/mapping"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// GetAccountBalance handles GET /accounts/{accountId}/balance. The balance is
// derived from the entry history, optionally as of a point in time.
func (h *Handler) GetAccountBalance(w http.ResponseWriter, r *http.Request, accountID string) {
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

	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	balance, err := h.Balances.Balance(r.Context(), account, asOf)
	if err != nil {
		// Includes ledger corruption: always a server failure, never a value.
		h.Logger.Error("balance computation failed", "account_id", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "StorageError", "balance could not be computed", "")
		return
	}

	writeJSON(w, http.StatusOK, api.Balance{
		AccountID: account.ID,
		Balance:   balance.String(),
		Currency:  account.Currency,
		AsOf:      asOf,
	})
}

// ListAccountEntries handles GET /accounts/{accountId}/entries, returning the
// account's postings in commit order.
func (h *Handler) ListAccountEntries(w http.ResponseWriter, r *http.Request, accountID string) {
	if _, err := h.Store.GetAccount(r.Context(), accountID); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "AccountNotFound", "no such account", "")
			return
		}
		h.Logger.Error("account lookup failed", "account_id", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "StorageError", "account could not be read", "")
		return
	}

	asOf, ok := parseAsOf(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.EntriesFor(r.Context(), accountID, asOf)
	if err != nil {
		h.Logger.Error("entry query failed", "account_id", accountID, "error", err)
		writeError(w, http.StatusInternalServerError, "StorageError", "entries could not be read", "")
		return
	}

	apiEntries := make([]*api.LedgerEntry, len(entries))
	for i := range entries {
		apiEntries[i] = mapping.ToApiLedgerEntry(&entries[i])
	}

	writeJSON(w, http.StatusOK, apiEntries)
}

// parseAsOf reads the optional as_of query parameter. Writes the rejection itself
// and reports ok=false when the value is malformed.
func parseAsOf(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidInput", "as_of must be an RFC3339 timestamp", "")
		return nil, false
	}
	return &t, true
}
