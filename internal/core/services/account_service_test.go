package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/SscSPs/finledger/internal/core/mapper"
	"github.com/SscSPs/finledger/internal/core/services"
	"github.com/SscSPs/finledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardChart(t *testing.T) {
	chart, err := services.StandardChart("INR")
	require.NoError(t, err)

	byCode := make(map[string]domain.Account, len(chart))
	for _, acc := range chart {
		if acc.ParentCode != "" {
			parent, ok := byCode[acc.ParentCode]
			require.Truef(t, ok, "parent of %s must come first", acc.Code)
			assert.Equal(t, parent.AccountType, acc.AccountType, "account %s", acc.Code)
		}
		byCode[acc.Code] = acc
	}

	// Every account a posting rule can touch must exist.
	for _, code := range []string{
		mapper.SavingsAccount, mapper.ForeignCash, mapper.ForeignStocks, mapper.TDSReceivable,
		mapper.ForeignTaxCredit, mapper.SalaryIncome, mapper.ShortTermGains, mapper.LongTermGains,
		mapper.Brokerage, mapper.CreditCard, mapper.Suspense, mapper.Spending,
	} {
		assert.Containsf(t, byCode, code, "chart is missing %s", code)
	}
	assert.Equal(t, "USD", byCode[mapper.ForeignCash].CurrencyCode)
	assert.Equal(t, "INR", byCode[mapper.SavingsAccount].CurrencyCode)
	assert.Equal(t, domain.Liability, byCode[mapper.CreditCard].AccountType)
	assert.Equal(t, domain.Income, byCode[mapper.SalaryIncome].AccountType)
}

func TestAccountService_SetupIsIdempotent(t *testing.T) {
	svc, _ := testutil.NewServices(t) // runs Setup once
	ctx := context.Background()

	inserted, err := svc.Account.Setup(ctx, testutil.TestActor)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	chart, err := services.StandardChart("INR")
	require.NoError(t, err)
	accounts, err := svc.Account.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, len(chart))

	audit, err := svc.Audit.TableHistory(ctx, domain.TableAccounts, domain.TimeWindow{}, len(chart)+10)
	require.NoError(t, err)
	assert.Len(t, audit, len(chart), "the second setup must not audit anything")
}

func TestAccountService_Directory(t *testing.T) {
	svc, _ := testutil.NewServices(t)
	ctx := context.Background()

	acc, err := svc.Account.Lookup(ctx, mapper.SavingsAccount)
	require.NoError(t, err)
	assert.Equal(t, domain.Asset, acc.AccountType)
	assert.True(t, acc.IsActive)

	_, err = svc.Account.Lookup(ctx, "0000")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	children, err := svc.Account.Children(ctx, acc.ParentCode)
	require.NoError(t, err)
	require.NotEmpty(t, children)
	for i := 1; i < len(children); i++ {
		assert.Less(t, children[i-1].Code, children[i].Code)
	}

	forest, err := svc.Account.Hierarchy(ctx, "")
	require.NoError(t, err)
	for _, root := range forest {
		assert.Empty(t, root.ParentCode)
	}

	tree, err := svc.Account.Hierarchy(ctx, acc.ParentCode)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, acc.ParentCode, tree[0].Code)
	assert.Len(t, tree[0].Children, len(children))

	_, err = svc.Account.Hierarchy(ctx, "0000")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}
