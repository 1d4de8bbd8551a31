package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/corebank/ledger-engine/pkg/ledger"
	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage/mocks"
)

func newReconciler(store *mocks.Storage) *ledger.Reconciler {
	return ledger.NewReconciler(store, store, ledger.NewCalculator(store), testLogger())
}

func snapshot(accountID, balance string) *models.BalanceSnapshot {
	return &models.BalanceSnapshot{
		AccountID: accountID,
		Balance:   decimal.RequireFromString(balance),
		Version:   3,
	}
}

func TestReconcilerRun(t *testing.T) {
	accounts := []models.Account{
		{ID: "acc-1", Currency: "USD", Status: models.ACTIVE},
		{ID: "acc-2", Currency: "USD", Status: models.ACTIVE},
	}

	t.Run("Repairs Only Drifted Rows", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListAccounts", mock.Anything).Return(accounts, nil)
		mockStorage.On("EntriesFor", mock.Anything, "acc-1", (*time.Time)(nil)).
			Return([]models.LedgerEntry{creditEntry("acc-1", "75.00")}, nil)
		mockStorage.On("EntriesFor", mock.Anything, "acc-2", (*time.Time)(nil)).
			Return([]models.LedgerEntry{creditEntry("acc-2", "20.00")}, nil)
		mockStorage.On("GetBalanceSnapshot", mock.Anything, "acc-1").Return(snapshot("acc-1", "75.00"), nil)
		mockStorage.On("GetBalanceSnapshot", mock.Anything, "acc-2").Return(snapshot("acc-2", "19.00"), nil)
		mockStorage.On("RepairBalance", mock.Anything, "acc-2", decimal.RequireFromString("20.00")).Return(nil)

		report, err := newReconciler(mockStorage).Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, ledger.Report{Checked: 2, Repaired: 1, Failed: 0}, report)
		mockStorage.AssertNotCalled(t, "RepairBalance", mock.Anything, "acc-1", mock.Anything)
	})

	t.Run("One Failure Does Not Stop The Pass", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListAccounts", mock.Anything).Return(accounts, nil)
		mockStorage.On("EntriesFor", mock.Anything, "acc-1", (*time.Time)(nil)).
			Return(nil, errors.New("throttled"))
		mockStorage.On("EntriesFor", mock.Anything, "acc-2", (*time.Time)(nil)).
			Return([]models.LedgerEntry{creditEntry("acc-2", "20.00")}, nil)
		mockStorage.On("GetBalanceSnapshot", mock.Anything, "acc-2").Return(snapshot("acc-2", "20.00"), nil)

		report, err := newReconciler(mockStorage).Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, ledger.Report{Checked: 2, Repaired: 0, Failed: 1}, report)
	})

	t.Run("Listing Failure Aborts", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListAccounts", mock.Anything).Return(nil, errors.New("unavailable"))

		_, err := newReconciler(mockStorage).Run(context.Background())

		assert.Error(t, err)
	})
}
