package mapping

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger-engine/pkg/api"
	"github.com/corebank/ledger-engine/pkg/ledger"
	"github.com/corebank/ledger-engine/pkg/models"
)

// ToTransferRequest converts an API NewTransfer into the engine's request type.
// A non-decimal amount is invalid input, caught here before the engine runs.
func ToTransferRequest(body *api.NewTransfer) (ledger.TransferRequest, error) {
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return ledger.TransferRequest{}, fmt.Errorf("%w: amount %q is not a decimal", ledger.ErrInvalidInput, body.Amount)
	}
	return ledger.TransferRequest{
		DebitAccountID:  body.DebitAccountID,
		CreditAccountID: body.CreditAccountID,
		Amount:          amount,
		Currency:        body.Currency,
		Description:     body.Description,
		TransactionID:   body.TransactionID,
	}, nil
}

// ToApiTransaction converts a domain Transaction to its API representation.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:              tx.ID,
		DebitAccountID:  tx.DebitAccountID,
		CreditAccountID: tx.CreditAccountID,
		Amount:          tx.Amount.String(),
		Currency:        tx.Currency,
		Description:     tx.Description,
		Status:          string(tx.Status),
		CreatedAt:       tx.CreatedAt,
	}
}

// ToApiAccount converts a domain Account to its API representation.
func ToApiAccount(account *models.Account) *api.Account {
	return &api.Account{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		Currency:      account.Currency,
		Status:        string(account.Status),
		CustomerID:    account.CustomerID,
		CreatedAt:     account.CreatedAt,
	}
}

// ToApiLedgerEntry converts a domain LedgerEntry to its API representation.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	return &api.LedgerEntry{
		EntryID:       entry.EntryID,
		TransactionID: entry.TransactionID,
		AccountID:     entry.AccountID,
		Direction:     string(entry.Direction),
		Amount:        entry.Amount.String(),
		Currency:      entry.Currency,
		PostedAt:      entry.PostedAt,
	}
}
