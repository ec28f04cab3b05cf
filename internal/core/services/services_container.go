package services

import (
	"github.com/SscSPs/finledger/internal/core/mapper"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first: every writer records its changes through it
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.UnitOfWork,
		container.Audit,
		cfg.BaseCurrency,
		WithAccountCacheTTL(cfg.CacheTTL),
	)

	container.ExchangeRate = NewExchangeRateService(
		repos.ExchangeRateRepo,
		repos.UnitOfWork,
		container.Audit,
		cfg.BaseCurrency,
		WithRateLookbackDays(cfg.RateLookbackDays),
		WithRateCacheTTL(cfg.CacheTTL),
	)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.UnitOfWork,
		container.Account,
		container.ExchangeRate,
		container.Audit,
		WithBalanceTolerance(cfg.BalanceTolerance),
	)

	container.Transaction = NewTransactionService(
		repos.UnitOfWork,
		mapper.NewRegistry(mapper.WithTolerance(cfg.BalanceTolerance)),
		container.ExchangeRate,
		container.Journal,
		container.Audit,
	)
	container.Ingest = NewIngestService(container.Transaction, cfg.BaseCurrency)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
