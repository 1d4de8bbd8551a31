package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger-engine/pkg/models"
)

// LedgerStore is the append-only record of money movement. Entries are written in
// balanced pairs inside one atomic multi-row write and are never mutated after.
type LedgerStore interface {
	// PostTransaction writes the transaction row, both entries and the
	// running-balance adjustments as a single atomic unit. Either all rows land
	// or none do.
	//
	// Returns ErrTransactionConflict when tx.ID was already posted,
	// ErrInsufficientFunds when the debit account cannot cover the amount at
	// commit time, and ErrBalanceContention when a concurrent transfer won the
	// race on the debit account (safe to retry the check-then-post sequence).
	PostTransaction(ctx context.Context, tx *models.Transaction, debit, credit *models.LedgerEntry) (*models.Transaction, error)

	// GetTransaction resolves a posted transaction by id.
	// Returns ErrTransactionNotFound when absent.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// EntriesFor returns the entries posted against one account, ordered by
	// posting time (entry id breaks ties), optionally bounded to entries posted
	// at or before asOf. Re-querying yields the same sequence or a strict
	// superset once new entries land.
	EntriesFor(ctx context.Context, accountID string, asOf *time.Time) ([]models.LedgerEntry, error)
}

// BalanceCache exposes the running-balance rows maintained at post time.
// The cache is reconcilable against the entry history and repaired when it drifts;
// it is never the source of truth.
type BalanceCache interface {
	// GetBalanceSnapshot reads the cached running balance for one account.
	// Returns ErrBalanceNotFound when the account has no cache row.
	GetBalanceSnapshot(ctx context.Context, accountID string) (*models.BalanceSnapshot, error)

	// RepairBalance overwrites the cached balance with a value recomputed from
	// the full entry history.
	RepairBalance(ctx context.Context, accountID string, balance decimal.Decimal) error
}
