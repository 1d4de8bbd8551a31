package dynamodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger-engine/pkg/models"
)

// accountSortTimeFormat is fixed-width so the composed sort key orders
// lexicographically the same as it does chronologically. RFC3339Nano trims
// trailing zeros and would break that.
const accountSortTimeFormat = "2006-01-02T15:04:05.000000000Z"

// accountSortKey composes the per-account GSI range key: posting time first,
// entry id to break ties.
func accountSortKey(postedAt time.Time, entryID string) string {
	return postedAt.UTC().Format(accountSortTimeFormat) + "#" + entryID
}

// accountSortUpperBound returns a range-key value strictly greater than every
// sort key posted at or before the cutoff. '~' sorts after the hex and dash
// characters entry ids are made of.
func accountSortUpperBound(asOf time.Time) string {
	return asOf.UTC().Format(accountSortTimeFormat) + "#~"
}

type accountRecord struct {
	ID            string    `dynamodbav:"id"`
	AccountNumber string    `dynamodbav:"account_number"`
	Currency      string    `dynamodbav:"currency"`
	Status        string    `dynamodbav:"status"`
	CustomerID    string    `dynamodbav:"customer_id"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
}

func toAccountRecord(a *models.Account) accountRecord {
	return accountRecord{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Currency:      a.Currency,
		Status:        string(a.Status),
		CustomerID:    a.CustomerID,
		CreatedAt:     a.CreatedAt,
	}
}

func (r accountRecord) toModel() models.Account {
	return models.Account{
		ID:            r.ID,
		AccountNumber: r.AccountNumber,
		Currency:      r.Currency,
		Status:        models.AccountStatus(r.Status),
		CustomerID:    r.CustomerID,
		CreatedAt:     r.CreatedAt,
	}
}

type transactionRecord struct {
	ID              string    `dynamodbav:"id"`
	DebitAccountID  string    `dynamodbav:"debit_account_id"`
	CreditAccountID string    `dynamodbav:"credit_account_id"`
	Amount          string    `dynamodbav:"amount"`
	Currency        string    `dynamodbav:"currency"`
	Description     string    `dynamodbav:"description,omitempty"`
	Status          string    `dynamodbav:"status"`
	CreatedAt       time.Time `dynamodbav:"created_at"`
}

func toTransactionRecord(tx *models.Transaction) transactionRecord {
	return transactionRecord{
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

func (r transactionRecord) toModel() (models.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s has unparseable amount: %w", r.ID, err)
	}
	return models.Transaction{
		ID:              r.ID,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          amount,
		Currency:        r.Currency,
		Description:     r.Description,
		Status:          models.TransactionStatus(r.Status),
		CreatedAt:       r.CreatedAt,
	}, nil
}

// entryRecord is keyed on (transaction_id, direction). The composite primary key
// is what makes a duplicate posting of either side of a transaction impossible.
type entryRecord struct {
	TransactionID string    `dynamodbav:"transaction_id"`
	Direction     string    `dynamodbav:"direction"`
	EntryID       string    `dynamodbav:"entry_id"`
	AccountID     string    `dynamodbav:"account_id"`
	Amount        string    `dynamodbav:"amount"`
	Currency      string    `dynamodbav:"currency"`
	PostedAt      time.Time `dynamodbav:"posted_at"`
	AccountSort   string    `dynamodbav:"account_sort"`
}

func toEntryRecord(e *models.LedgerEntry) entryRecord {
	return entryRecord{
		TransactionID: e.TransactionID,
		Direction:     string(e.Direction),
		EntryID:       e.EntryID,
		AccountID:     e.AccountID,
		Amount:        e.Amount.String(),
		Currency:      e.Currency,
		PostedAt:      e.PostedAt,
		AccountSort:   accountSortKey(e.PostedAt, e.EntryID),
	}
}

func (r entryRecord) toModel() (models.LedgerEntry, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("entry %s has unparseable amount: %w", r.EntryID, err)
	}
	return models.LedgerEntry{
		EntryID:       r.EntryID,
		TransactionID: r.TransactionID,
		AccountID:     r.AccountID,
		Direction:     models.EntryDirection(r.Direction),
		Amount:        amount,
		Currency:      r.Currency,
		PostedAt:      r.PostedAt,
	}, nil
}
