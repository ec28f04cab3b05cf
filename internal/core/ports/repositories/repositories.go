package repositories

// RepositoryProvider holds the repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	IdempotencyRepo  IdempotencyRepository
	AuditRepo        AuditRepository
	ReportingRepo    ReportingRepository
	UnitOfWork       UnitOfWork
}

// NewRepositoryProvider exposes a Store through the provider struct.
func NewRepositoryProvider(store Store) RepositoryProvider {
	return RepositoryProvider{
		AccountRepo:      store.Accounts(),
		JournalRepo:      store.Journals(),
		ExchangeRateRepo: store.ExchangeRates(),
		IdempotencyRepo:  store.Idempotency(),
		AuditRepo:        store.Audit(),
		ReportingRepo:    store.Reporting(),
		UnitOfWork:       store,
	}
}
