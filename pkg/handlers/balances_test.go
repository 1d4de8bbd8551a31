package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ledger-engine/pkg/api"
	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

func storedEntry(direction models.EntryDirection, amount string) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       "entry-" + amount,
		TransactionID: "tx-1",
		AccountID:     "acc-1",
		Direction:     direction,
		Amount:        decimal.RequireFromString(amount),
		Currency:      "USD",
		PostedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetAccountBalance(t *testing.T) {
	t.Run("Derived From Entries", func(t *testing.T) {
		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "acc-1").Return(storedAccount(), nil)
		h.storage.On("EntriesFor", mock.Anything, "acc-1", (*time.Time)(nil)).
			Return([]models.LedgerEntry{
				storedEntry(models.CREDIT, "150.00"),
				storedEntry(models.DEBIT, "49.99"),
			}, nil)

		recorder := h.do(t, http.MethodGet, "/accounts/acc-1/balance", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var balance api.Balance
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&balance))
		assert.Equal(t, "acc-1", balance.AccountID)
		assert.Equal(t, "100.01", balance.Balance)
		assert.Equal(t, "USD", balance.Currency)
		assert.Nil(t, balance.AsOf)
	})

	t.Run("As Of Is Honored And Echoed", func(t *testing.T) {
		asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "acc-1").Return(storedAccount(), nil)
		h.storage.On("EntriesFor", mock.Anything, "acc-1", &asOf).
			Return([]models.LedgerEntry{storedEntry(models.CREDIT, "10.00")}, nil)

		recorder := h.do(t, http.MethodGet, "/accounts/acc-1/balance?as_of=2026-03-01T12:00:00Z", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var balance api.Balance
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&balance))
		assert.Equal(t, "10", balance.Balance)
		require.NotNil(t, balance.AsOf)
		assert.True(t, balance.AsOf.Equal(asOf))
		h.storage.AssertExpectations(t)
	})

	t.Run("Malformed As Of", func(t *testing.T) {
		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "acc-1").Return(storedAccount(), nil)

		recorder := h.do(t, http.MethodGet, "/accounts/acc-1/balance?as_of=yesterday", nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "InvalidInput", decodeError(t, recorder).Kind)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "missing").Return(nil, storage.ErrAccountNotFound)

		recorder := h.do(t, http.MethodGet, "/accounts/missing/balance", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Corrupted History Is Never A Value", func(t *testing.T) {
		bad := storedEntry(models.CREDIT, "10.00")
		bad.Currency = "EUR"

		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "acc-1").Return(storedAccount(), nil)
		h.storage.On("EntriesFor", mock.Anything, "acc-1", (*time.Time)(nil)).
			Return([]models.LedgerEntry{bad}, nil)

		recorder := h.do(t, http.MethodGet, "/accounts/acc-1/balance", nil)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "StorageError", decodeError(t, recorder).Kind)
	})
}

func TestListAccountEntries(t *testing.T) {
	t.Run("Returns Postings In Order", func(t *testing.T) {
		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "acc-1").Return(storedAccount(), nil)
		h.storage.On("EntriesFor", mock.Anything, "acc-1", (*time.Time)(nil)).
			Return([]models.LedgerEntry{
				storedEntry(models.CREDIT, "150.00"),
				storedEntry(models.DEBIT, "49.99"),
			}, nil)

		recorder := h.do(t, http.MethodGet, "/accounts/acc-1/entries", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var entries []api.LedgerEntry
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&entries))
		require.Len(t, entries, 2)
		assert.Equal(t, "CREDIT", entries[0].Direction)
		assert.Equal(t, "150", entries[0].Amount)
		assert.Equal(t, "DEBIT", entries[1].Direction)
	})

	t.Run("Empty History", func(t *testing.T) {
		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "acc-1").Return(storedAccount(), nil)
		h.storage.On("EntriesFor", mock.Anything, "acc-1", (*time.Time)(nil)).
			Return([]models.LedgerEntry{}, nil)

		recorder := h.do(t, http.MethodGet, "/accounts/acc-1/entries", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)

		var entries []api.LedgerEntry
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&entries))
		assert.Empty(t, entries)
	})

	t.Run("Account Not Found", func(t *testing.T) {
		h := newHarness()
		h.storage.On("GetAccount", mock.Anything, "missing").Return(nil, storage.ErrAccountNotFound)

		recorder := h.do(t, http.MethodGet, "/accounts/missing/entries", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
