package allocator

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/corebank/ledger-engine/pkg/storage"
)

// ErrAllocationExhausted is returned when every candidate collided with an existing
// account number. Server-side and retryable after backoff; never a client error.
var ErrAllocationExhausted = errors.New("account number allocation exhausted")

// maxAttempts bounds the collision retries. A uniformly random 10-digit space makes
// hitting this bound vanishingly rare at any realistic account count.
const maxAttempts = 5

// Account numbers are 10 digits with no leading zero: [10^9, 10^10).
var (
	numberFloor = big.NewInt(1_000_000_000)
	numberSpan  = big.NewInt(9_000_000_000)
)

// Allocator produces unique, non-predictable external account numbers. Candidates
// come from crypto/rand: account numbers must not be guessable, so a counter or a
// seeded PRNG is not acceptable here.
type Allocator struct {
	directory storage.AccountDirectory
}

// New creates a new Allocator.
func New(directory storage.AccountDirectory) *Allocator {
	return &Allocator{directory: directory}
}

// Allocate draws random candidates and probes the directory until one is unused.
// Every returned number has passed a uniqueness check.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := randomNumber()
		if err != nil {
			return "", fmt.Errorf("failed to draw account number candidate: %w", err)
		}

		exists, err := a.directory.AccountNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check account number uniqueness: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrAllocationExhausted, maxAttempts)
}

func randomNumber() (string, error) {
	n, err := rand.Int(rand.Reader, numberSpan)
	if err != nil {
		return "", err
	}
	return n.Add(n, numberFloor).String(), nil
}
