package storage

import "errors"

// ErrAccountNotFound is returned when an account id does not resolve in the directory.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when creating an account whose id is already taken.
var ErrAccountExists = errors.New("account already exists")

// ErrTransactionNotFound is returned when a transaction id does not resolve.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrTransactionConflict is returned when posting a transaction whose id was already
// posted. Callers resolve it by returning the previously posted outcome; it is never
// surfaced as a failure.
var ErrTransactionConflict = errors.New("transaction already posted")

// ErrInsufficientFunds is returned when the debit account's balance cannot cover the
// transfer amount at commit time.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrBalanceContention is returned when a concurrent transfer committed against the
// same debit account between the balance read and the write. The check-then-post
// sequence is safe to retry.
var ErrBalanceContention = errors.New("balance version conflict")

// ErrBalanceNotFound is returned when an account has no running-balance row.
var ErrBalanceNotFound = errors.New("balance record not found")
