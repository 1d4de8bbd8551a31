package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus defines the lifecycle states of an account.
type AccountStatus string

const (
	ACTIVE          AccountStatus = "ACTIVE"
	DORMANT         AccountStatus = "DORMANT"
	PENDING_CLOSURE AccountStatus = "PENDING_CLOSURE"
	CLOSED          AccountStatus = "CLOSED"
)

// TransactionStatus defines the terminal states of a transaction.
// The engine is synchronous, so there is no pending state.
type TransactionStatus string

const (
	COMPLETED TransactionStatus = "COMPLETED"

	// REJECTED completes the wire enum for consumers of the status field.
	// The engine never stores it: rejected transfers write no rows at all.
	REJECTED TransactionStatus = "REJECTED"
)

// EntryDirection marks a ledger entry as a debit or a credit.
type EntryDirection string

const (
	DEBIT  EntryDirection = "DEBIT"
	CREDIT EntryDirection = "CREDIT"
)

// Account is the directory's view of an account. The ledger reads it to
// check transfer eligibility; it never mutates it.
type Account struct {
	ID            string        `json:"id"`
	AccountNumber string        `json:"account_number"`
	Currency      string        `json:"currency"`
	Status        AccountStatus `json:"status"`
	CustomerID    string        `json:"customer_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Transaction is one logical money movement, always backed by exactly
// two ledger entries.
type Transaction struct {
	ID              string            `json:"id"`
	DebitAccountID  string            `json:"debit_account_id"`
	CreditAccountID string            `json:"credit_account_id"`
	Amount          decimal.Decimal   `json:"amount"`
	Currency        string            `json:"currency"`
	Description     string            `json:"description,omitempty"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// LedgerEntry is a single immutable posting against one account.
// Entries are created in balanced pairs and never updated or deleted.
type LedgerEntry struct {
	EntryID       string          `json:"entry_id"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Direction     EntryDirection  `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PostedAt      time.Time       `json:"posted_at"`
}

// BalanceSnapshot is one row of the running-balance cache. It is a
// performance aid, not the source of truth: the entry history always wins.
type BalanceSnapshot struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}
