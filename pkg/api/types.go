// Package api defines the JSON types exchanged at the HTTP boundary.
// Amounts travel as decimal strings; float64 never touches money.
package api

import "time"

// NewTransfer is the inbound body for POST /transfers.
type NewTransfer struct {
	DebitAccountID  string `json:"debit_account_id"`
	CreditAccountID string `json:"credit_account_id"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	Description     string `json:"description,omitempty"`
	TransactionID   string `json:"transaction_id,omitempty"`
}

// Transaction is the outbound representation of a posted transaction.
type Transaction struct {
	ID              string    `json:"id"`
	DebitAccountID  string    `json:"debit_account_id"`
	CreditAccountID string    `json:"credit_account_id"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	Description     string    `json:"description,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewAccount is the inbound body for POST /accounts.
type NewAccount struct {
	Currency   string `json:"currency"`
	CustomerID string `json:"customer_id"`
}

// Account is the outbound representation of an account.
type Account struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CustomerID    string    `json:"customer_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Balance is the outbound representation of a derived balance.
type Balance struct {
	AccountID string     `json:"account_id"`
	Balance   string     `json:"balance"`
	Currency  string     `json:"currency"`
	AsOf      *time.Time `json:"as_of,omitempty"`
}

// LedgerEntry is the outbound representation of one posting.
type LedgerEntry struct {
	EntryID       string    `json:"entry_id"`
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id"`
	Direction     string    `json:"direction"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	PostedAt      time.Time `json:"posted_at"`
}

// Error is the outbound representation of a rejection. Kind names the error
// taxonomy entry; TransactionID is echoed when the caller supplied one, so
// failures remain traceable.
type Error struct {
	Kind          string `json:"error"`
	Message       string `json:"message,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}
