package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/corebank/ledger-engine/pkg/api"
	"github.com/corebank/ledger-engine/pkg/events"
	"github.com/corebank/ledger-engine/pkg/mapping"
	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// CreateTransfer handles POST /transfers.
func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var body api.NewTransfer
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidInput", "request body is not valid JSON", "")
		return
	}

	req, err := mapping.ToTransferRequest(&body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidInput", err.Error(), body.TransactionID)
		return
	}

	tx, err := h.Transfers.Transfer(r.Context(), req)
	if err != nil {
		status, kind := classify(err)
		message := err.Error()
		if status >= 500 {
			// Identifiers and kinds are enough for the caller; internals go to
			// the log only.
			h.Logger.Error("transfer failed", "transaction_id", body.TransactionID, "error", err)
			message = "transfer could not be completed"
		}
		writeError(w, status, kind, message, body.TransactionID)
		return
	}

	h.publishTransferEvent(r, tx)

	writeJSON(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// GetTransactionById handles GET /transactions/{transactionId}.
func (h *Handler) GetTransactionById(w http.ResponseWriter, r *http.Request, transactionID string) {
	tx, err := h.Store.GetTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, storage.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "TransactionNotFound", "no such transaction", transactionID)
			return
		}
		h.Logger.Error("transaction lookup failed", "transaction_id", transactionID, "error", err)
		writeError(w, http.StatusInternalServerError, "StorageError", "transaction could not be read", transactionID)
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// publishTransferEvent notifies downstream consumers of a completed transfer.
// Best-effort: the posting already committed, so a delivery failure is logged and
// the request still succeeds.
func (h *Handler) publishTransferEvent(r *http.Request, tx *models.Transaction) {
	event := events.TransferEvent{
		TransactionID:   tx.ID,
		DebitAccountID:  tx.DebitAccountID,
		CreditAccountID: tx.CreditAccountID,
		Amount:          tx.Amount.String(),
		Currency:        tx.Currency,
		CompletedAt:     tx.CreatedAt,
	}
	if err := h.Publisher.Publish(r.Context(), event); err != nil {
		h.Logger.Error("failed to publish transfer event", "transaction_id", tx.ID, "error", err)
	}
}
