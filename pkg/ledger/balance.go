package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// ErrLedgerCorrupted is returned when the entry history contradicts the ledger
// invariants, e.g. an entry whose currency differs from its account's. It is a
// server-side failure and must never be reduced to a displayable value.
var ErrLedgerCorrupted = errors.New("ledger corruption detected")

// Calculator derives account balances from the entry history. The balance is a
// pure function of the entries: credits minus debits over the account's postings.
type Calculator struct {
	store storage.LedgerStore
}

// NewCalculator creates a new Calculator.
func NewCalculator(store storage.LedgerStore) *Calculator {
	return &Calculator{store: store}
}

// Balance reduces the account's entries, optionally bounded to entries posted at
// or before asOf. An opening balance is always zero, so an account with no
// entries has a zero balance.
func (c *Calculator) Balance(ctx context.Context, account *models.Account, asOf *time.Time) (decimal.Decimal, error) {
	entries, err := c.store.EntriesFor(ctx, account.ID, asOf)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to read entries for balance: %w", err)
	}

	balance := decimal.Zero
	for _, entry := range entries {
		if entry.Currency != account.Currency {
			return decimal.Decimal{}, fmt.Errorf("%w: entry %s is %s but account %s is denominated in %s",
				ErrLedgerCorrupted, entry.EntryID, entry.Currency, account.ID, account.Currency)
		}
		switch entry.Direction {
		case models.CREDIT:
			balance = balance.Add(entry.Amount)
		case models.DEBIT:
			balance = balance.Sub(entry.Amount)
		default:
			return decimal.Decimal{}, fmt.Errorf("%w: entry %s has direction %q",
				ErrLedgerCorrupted, entry.EntryID, entry.Direction)
		}
	}

	return balance, nil
}
