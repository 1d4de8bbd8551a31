package storage

import (
	"context"

	"github.com/corebank/ledger-engine/pkg/models"
)

// AccountDirectory is the read-mostly boundary to account identity, currency and
// lifecycle status. The transfer engine consults it read-only; the provisioning
// path uses CreateAccount.
type AccountDirectory interface {
	// GetAccount resolves an account by its opaque id.
	// Returns ErrAccountNotFound when absent.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// AccountNumberExists reports whether an external account number is already
	// assigned. Used by the allocator's uniqueness probe.
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)

	// CreateAccount persists a new account together with its zero opening
	// balance, atomically. Returns ErrAccountExists on id collision.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	// ListAccounts returns every account. Used by the reconciliation job.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}
