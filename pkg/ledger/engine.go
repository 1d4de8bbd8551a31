package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// ErrInvalidInput is returned for malformed transfer requests: non-positive
// amounts, malformed currency codes, or a transfer from an account to itself.
// Detected before any account lookup or write.
var ErrInvalidInput = errors.New("invalid transfer input")

// ErrAccountIneligible is returned when a participant account exists but cannot
// transact: it is not ACTIVE, or its denomination differs from the requested
// currency.
var ErrAccountIneligible = errors.New("account not eligible for transfer")

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidCurrency reports whether code is a well-formed 3-letter uppercase
// currency code. Account provisioning applies the same rule as transfer
// validation: an account created with anything else could never transact.
func ValidCurrency(code string) bool {
	return currencyPattern.MatchString(code)
}

// postAttempts bounds the check-then-post retries when concurrent transfers
// contend on the same debit account.
const postAttempts = 4

// TransferRequest carries the caller's intent for one internal transfer.
// TransactionID is optional; supplying it makes retries idempotent.
type TransferRequest struct {
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	Currency        string
	Description     string
	TransactionID   string
}

// Engine validates and atomically executes internal transfers.
type Engine struct {
	directory storage.AccountDirectory
	store     storage.LedgerStore
	balances  *Calculator
	logger    *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(directory storage.AccountDirectory, store storage.LedgerStore, balances *Calculator, logger *slog.Logger) *Engine {
	return &Engine{
		directory: directory,
		store:     store,
		balances:  balances,
		logger:    logger,
	}
}

// Transfer validates the request, checks both accounts' eligibility, verifies the
// debit account's funds and posts the balanced entry pair. The success status is
// always COMPLETED; rejections leave zero entries behind.
//
// Retrying with the same TransactionID returns the originally posted transaction
// without posting again.
func (e *Engine) Transfer(ctx context.Context, req TransferRequest) (*models.Transaction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// Idempotent replay: a caller-supplied id that was already posted resolves
	// to the original outcome before any further work.
	if req.TransactionID != "" {
		prior, err := e.store.GetTransaction(ctx, req.TransactionID)
		if err == nil {
			return prior, nil
		}
		if !errors.Is(err, storage.ErrTransactionNotFound) {
			return nil, err
		}
	}

	debitAccount, err := e.directory.GetAccount(ctx, req.DebitAccountID)
	if err != nil {
		return nil, fmt.Errorf("debit account %s: %w", req.DebitAccountID, err)
	}
	creditAccount, err := e.directory.GetAccount(ctx, req.CreditAccountID)
	if err != nil {
		return nil, fmt.Errorf("credit account %s: %w", req.CreditAccountID, err)
	}

	if err := eligible(debitAccount, req.Currency); err != nil {
		return nil, err
	}
	if err := eligible(creditAccount, req.Currency); err != nil {
		return nil, err
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.New().String()
	}

	for attempt := 1; attempt <= postAttempts; attempt++ {
		balance, err := e.balances.Balance(ctx, debitAccount, nil)
		if err != nil {
			return nil, err
		}
		if balance.LessThan(req.Amount) {
			return nil, storage.ErrInsufficientFunds
		}

		now := time.Now().UTC()
		tx := &models.Transaction{
			ID:              transactionID,
			DebitAccountID:  req.DebitAccountID,
			CreditAccountID: req.CreditAccountID,
			Amount:          req.Amount,
			Currency:        req.Currency,
			Description:     req.Description,
			Status:          models.COMPLETED,
			CreatedAt:       now,
		}
		debitEntry := &models.LedgerEntry{
			EntryID:       uuid.New().String(),
			TransactionID: transactionID,
			AccountID:     req.DebitAccountID,
			Direction:     models.DEBIT,
			Amount:        req.Amount,
			Currency:      req.Currency,
			PostedAt:      now,
		}
		creditEntry := &models.LedgerEntry{
			EntryID:       uuid.New().String(),
			TransactionID: transactionID,
			AccountID:     req.CreditAccountID,
			Direction:     models.CREDIT,
			Amount:        req.Amount,
			Currency:      req.Currency,
			PostedAt:      now,
		}

		posted, err := e.store.PostTransaction(ctx, tx, debitEntry, creditEntry)
		switch {
		case err == nil:
			e.logger.Info("transfer posted",
				"transaction_id", transactionID,
				"debit_account_id", req.DebitAccountID,
				"credit_account_id", req.CreditAccountID,
			)
			return posted, nil

		case errors.Is(err, storage.ErrTransactionConflict):
			// Lost a race against an identical retry. Return the winner.
			prior, getErr := e.store.GetTransaction(ctx, transactionID)
			if getErr != nil {
				return nil, fmt.Errorf("conflict on transaction %s but prior outcome unreadable: %w", transactionID, getErr)
			}
			return prior, nil

		case errors.Is(err, storage.ErrBalanceContention):
			e.logger.Debug("debit balance contention, retrying",
				"transaction_id", transactionID,
				"attempt", attempt,
			)
			continue

		default:
			return nil, err
		}
	}

	return nil, fmt.Errorf("transaction %s gave up after %d attempts: %w", transactionID, postAttempts, storage.ErrBalanceContention)
}

func validate(req TransferRequest) error {
	if req.DebitAccountID == "" || req.CreditAccountID == "" {
		return fmt.Errorf("%w: both account ids are required", ErrInvalidInput)
	}
	if req.DebitAccountID == req.CreditAccountID {
		return fmt.Errorf("%w: debit and credit accounts must differ", ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !ValidCurrency(req.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}
	return nil
}

func eligible(account *models.Account, currency string) error {
	if account.Status != models.ACTIVE {
		return fmt.Errorf("%w: account %s is %s", ErrAccountIneligible, account.ID, account.Status)
	}
	if account.Currency != currency {
		return fmt.Errorf("%w: account %s is denominated in %s", ErrAccountIneligible, account.ID, account.Currency)
	}
	return nil
}
