package events

import (
	"context"
	"time"
)

// TransferEvent is the notification emitted after a transfer completes. It carries
// identifiers and the posted amount, not ledger entry contents.
type TransferEvent struct {
	TransactionID   string    `json:"transaction_id"`
	DebitAccountID  string    `json:"debit_account_id"`
	CreditAccountID string    `json:"credit_account_id"`
	Amount          string    `json:"amount"`
	Currency        string    `json:"currency"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Publisher delivers transfer events to downstream consumers. Delivery is
// best-effort: the ledger is the system of record, and a missed notification never
// invalidates a posted transfer.
type Publisher interface {
	Publish(ctx context.Context, event TransferEvent) error
}

// NoOpPublisher discards events. Used in tests and when no queue is configured.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, event TransferEvent) error {
	return nil
}
