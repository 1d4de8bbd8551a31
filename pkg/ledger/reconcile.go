package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corebank/ledger-engine/pkg/storage"
)

// Reconciler audits the running-balance cache against balances recomputed from the
// full entry history. On any discrepancy the recomputed value wins and the cache
// row is repaired.
type Reconciler struct {
	directory storage.AccountDirectory
	cache     storage.BalanceCache
	balances  *Calculator
	logger    *slog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(directory storage.AccountDirectory, cache storage.BalanceCache, balances *Calculator, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		directory: directory,
		cache:     cache,
		balances:  balances,
		logger:    logger,
	}
}

// Report summarizes one reconciliation pass.
type Report struct {
	Checked  int
	Repaired int
	Failed   int
}

// Run recomputes every account's balance from its entries and repairs any cache
// row that disagrees. One account's failure does not stop the pass.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	accounts, err := r.directory.ListAccounts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list accounts for reconciliation: %w", err)
	}

	var report Report
	for i := range accounts {
		account := &accounts[i]
		report.Checked++

		computed, err := r.balances.Balance(ctx, account, nil)
		if err != nil {
			report.Failed++
			r.logger.Error("balance recomputation failed", "account_id", account.ID, "error", err)
			continue
		}

		snapshot, err := r.cache.GetBalanceSnapshot(ctx, account.ID)
		if err != nil {
			report.Failed++
			r.logger.Error("balance cache read failed", "account_id", account.ID, "error", err)
			continue
		}

		if snapshot.Balance.Equal(computed) {
			continue
		}

		r.logger.Warn("balance cache drift detected",
			"account_id", account.ID,
			"cached", snapshot.Balance.String(),
			"computed", computed.String(),
		)
		if err := r.cache.RepairBalance(ctx, account.ID, computed); err != nil {
			report.Failed++
			r.logger.Error("balance repair failed", "account_id", account.ID, "error", err)
			continue
		}
		report.Repaired++
	}

	return report, nil
}
