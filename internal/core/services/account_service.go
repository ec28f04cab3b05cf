package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/patrickmn/go-cache"
)

//go:embed chart_of_accounts.toml
var chartOfAccountsTOML string

type chartEntry struct {
	Code     string `toml:"code"`
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Parent   string `toml:"parent"`
	Currency string `toml:"currency"`
}

// StandardChart decodes the embedded chart of accounts. Parents always precede their
// children; a missing type is inherited from the parent and a missing currency is base.
func StandardChart(baseCurrency string) ([]domain.Account, error) {
	var chart struct {
		Accounts []chartEntry `toml:"accounts"`
	}
	if _, err := toml.Decode(chartOfAccountsTOML, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart of accounts: %w", err)
	}

	types := make(map[string]domain.AccountType, len(chart.Accounts))
	accounts := make([]domain.Account, 0, len(chart.Accounts))
	for _, e := range chart.Accounts {
		accType := domain.AccountType(e.Type)
		if accType == "" {
			parentType, ok := types[e.Parent]
			if !ok {
				return nil, fmt.Errorf("chart account %s: parent %q must precede it", e.Code, e.Parent)
			}
			accType = parentType
		}
		if !accType.Valid() {
			return nil, fmt.Errorf("chart account %s: invalid type %q", e.Code, accType)
		}
		if _, dup := types[e.Code]; dup {
			return nil, fmt.Errorf("chart account %s is defined twice", e.Code)
		}
		types[e.Code] = accType

		currency := e.Currency
		if currency == "" {
			currency = baseCurrency
		}
		accounts = append(accounts, domain.Account{
			Code:         e.Code,
			Name:         e.Name,
			AccountType:  accType,
			ParentCode:   e.Parent,
			CurrencyCode: currency,
			IsActive:     true,
		})
	}
	return accounts, nil
}

// accountService is the account directory: a cached, read-mostly view of the chart.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	uow          portsrepo.UnitOfWork
	audit        portssvc.AuditWriterSvc
	baseCurrency string
	cache        *cache.Cache
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountCacheTTL sets how long resolved accounts stay cached.
func WithAccountCacheTTL(ttl time.Duration) AccountServiceOption {
	return func(s *accountService) {
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// WithAccountClock overrides the clock used for created_at stamps.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates the account directory service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, uow portsrepo.UnitOfWork, audit portssvc.AuditWriterSvc, baseCurrency string, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:  repo,
		uow:          uow,
		audit:        audit,
		baseCurrency: baseCurrency,
		cache:        cache.New(10*time.Minute, 20*time.Minute),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// Setup inserts the standard chart in one transaction, auditing every new account.
func (s *accountService) Setup(ctx context.Context, actorID string) (int, error) {
	chart, err := StandardChart(s.baseCurrency)
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.Now()
		for _, acc := range chart {
			acc.CreatedAt = now
			ok, err := repos.Accounts().InsertAccountIfAbsent(ctx, acc)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := s.audit.LogChangeInTx(ctx, repos.Audit(), actorID, domain.TableAccounts, acc.Code, domain.AuditInsert, nil, acc); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set up chart of accounts")
		return 0, err
	}

	s.cache.Flush()
	s.LogInfo(ctx, "Chart of accounts set up", slog.Int("inserted", inserted), slog.Int("total", len(chart)))
	return inserted, nil
}

// Lookup resolves a code. Only hits are cached, so an account created later is still found.
func (s *accountService) Lookup(ctx context.Context, code string) (*domain.Account, error) {
	if cached, found := s.cache.Get(code); found {
		acc := cached.(domain.Account)
		return &acc, nil
	}

	acc, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			s.LogError(ctx, err, "Failed to look up account", slog.String("account_code", code))
		}
		return nil, err
	}
	s.cache.SetDefault(code, *acc)
	return acc, nil
}

func (s *accountService) Children(ctx context.Context, code string) ([]domain.Account, error) {
	if _, err := s.Lookup(ctx, code); err != nil {
		return nil, err
	}
	return s.accountRepo.ListChildren(ctx, code)
}

func (s *accountService) Hierarchy(ctx context.Context, code string) ([]*domain.AccountNode, error) {
	if code != "" {
		if _, err := s.Lookup(ctx, code); err != nil {
			return nil, err
		}
	}

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.Code] = &domain.AccountNode{Account: acc}
	}

	roots := []*domain.AccountNode{}
	// accounts is ordered by code, so children come out ordered too.
	for _, acc := range accounts {
		node := nodes[acc.Code]
		parent, ok := nodes[acc.ParentCode]
		if acc.ParentCode == "" || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	if code != "" {
		return []*domain.AccountNode{nodes[code]}, nil
	}
	return roots, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}
