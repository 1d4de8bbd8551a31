package storage

// Storage composes the full data layer. Components should depend on the granular
// interfaces (AccountDirectory, LedgerStore, BalanceCache) rather than this one;
// the composition exists for wiring and for the generated mock.
type Storage interface {
	AccountDirectory
	LedgerStore
	BalanceCache
}
