package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/querykeys"
	"github.com/goliatone/go-finance-cache/validation"
	"golang.org/x/sync/errgroup"
)

// fetch reads key through the cache, loading it from path when the partition
// is absent or stale. The loader stays registered as the key's observer.
func fetch[T any](ctx context.Context, s *Service, key cache.Key, path string) (T, error) {
	return cache.FetchQuery(ctx, s.cache, key, func(ctx context.Context) (T, error) {
		var out T
		_, err := s.transport.Do(ctx, http.MethodGet, path, nil, &out)
		return out, err
	})
}

// fetchList is fetch for collection endpoints, which answer 404 when the
// collection is empty.
func fetchList[T any](ctx context.Context, s *Service, key cache.Key, path string) ([]T, error) {
	list, err := cache.FetchQuery(ctx, s.cache, key, func(ctx context.Context) ([]T, error) {
		var out []T
		_, err := s.transport.Do(ctx, http.MethodGet, path, nil, &out)
		if api.IsNotFound(err) {
			return []T{}, nil
		}
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// FetchAccounts returns the active accounts.
func (s *Service) FetchAccounts(ctx context.Context) ([]finance.Account, error) {
	return fetchList[finance.Account](ctx, s, querykeys.Accounts(), api.ActiveList(api.AccountPath))
}

// FetchCategories returns the active categories.
func (s *Service) FetchCategories(ctx context.Context) ([]finance.Category, error) {
	return fetchList[finance.Category](ctx, s, querykeys.Categories(), api.ActiveList(api.CategoryPath))
}

// FetchDescriptions returns the active descriptions.
func (s *Service) FetchDescriptions(ctx context.Context) ([]finance.Description, error) {
	return fetchList[finance.Description](ctx, s, querykeys.Descriptions(), api.ActiveList(api.DescriptionPath))
}

// FetchParameters returns the active parameters.
func (s *Service) FetchParameters(ctx context.Context) ([]finance.Parameter, error) {
	return fetchList[finance.Parameter](ctx, s, querykeys.Parameters(), api.ActiveList(api.ParameterPath))
}

// FetchPayments returns the active payments.
func (s *Service) FetchPayments(ctx context.Context) ([]finance.Payment, error) {
	return fetchList[finance.Payment](ctx, s, querykeys.Payments(), api.ActiveList(api.PaymentPath))
}

// FetchPaymentsRequired lists the credit accounts with an outstanding balance.
func (s *Service) FetchPaymentsRequired(ctx context.Context) ([]finance.Account, error) {
	return fetchList[finance.Account](ctx, s, querykeys.PaymentsRequired(), api.PaymentsRequiredPath())
}

// FetchTransfers returns the active transfers.
func (s *Service) FetchTransfers(ctx context.Context) ([]finance.Transfer, error) {
	return fetchList[finance.Transfer](ctx, s, querykeys.Transfers(), api.ActiveList(api.TransferPath))
}

// FetchTransactionsByAccount returns the transactions of one account.
func (s *Service) FetchTransactionsByAccount(ctx context.Context, accountNameOwner string) ([]finance.Transaction, error) {
	name, err := validation.AccountName(accountNameOwner)
	if err != nil {
		return nil, err
	}
	return fetchList[finance.Transaction](ctx, s, querykeys.TransactionByAccount(accountNameOwner), api.TransactionsByAccountPath(name))
}

// FetchTransactionsByCategory returns the transactions filed under one category.
func (s *Service) FetchTransactionsByCategory(ctx context.Context, categoryName string) ([]finance.Transaction, error) {
	name, err := validation.CategoryName(categoryName)
	if err != nil {
		return nil, err
	}
	return fetchList[finance.Transaction](ctx, s, querykeys.TransactionsByCategory(categoryName), api.TransactionsByCategoryPath(name))
}

// FetchTransactionsByDescription returns the transactions sharing one description.
func (s *Service) FetchTransactionsByDescription(ctx context.Context, descriptionName string) ([]finance.Transaction, error) {
	name, err := validation.DescriptionName(descriptionName)
	if err != nil {
		return nil, err
	}
	return fetchList[finance.Transaction](ctx, s, querykeys.TransactionsByDescription(descriptionName), api.TransactionsByDescriptionPath(name))
}

// FetchTotals returns the totals of one account.
func (s *Service) FetchTotals(ctx context.Context, accountNameOwner string) (finance.Totals, error) {
	name, err := validation.AccountName(accountNameOwner)
	if err != nil {
		return finance.Totals{}, err
	}
	return fetch[finance.Totals](ctx, s, querykeys.TotalsFor(accountNameOwner), api.TotalsPath(name))
}

// FetchValidationAmount returns the latest cleared validation amount of an
// account.
func (s *Service) FetchValidationAmount(ctx context.Context, accountNameOwner string) (finance.ValidationAmount, error) {
	name, err := validation.AccountName(accountNameOwner)
	if err != nil {
		return finance.ValidationAmount{}, err
	}
	return fetch[finance.ValidationAmount](ctx, s, querykeys.ValidationAmountFor(accountNameOwner), api.ValidationAmountSelectPath(name, finance.StateCleared))
}

// FetchPendingTransactions returns the pending transactions.
func (s *Service) FetchPendingTransactions(ctx context.Context) ([]finance.PendingTransaction, error) {
	return fetchList[finance.PendingTransaction](ctx, s, querykeys.PendingTransactions(), api.ActiveList(api.PendingTransactionPath))
}

// FetchMedicalExpenses returns the active medical expenses.
func (s *Service) FetchMedicalExpenses(ctx context.Context) ([]finance.MedicalExpense, error) {
	return fetchList[finance.MedicalExpense](ctx, s, querykeys.MedicalExpenses(), api.ActiveList(api.MedicalExpensePath))
}

// FetchFamilyMembers returns the active family members.
func (s *Service) FetchFamilyMembers(ctx context.Context) ([]finance.FamilyMember, error) {
	return fetchList[finance.FamilyMember](ctx, s, querykeys.FamilyMembers(), api.ActiveList(api.FamilyMemberPath))
}

// PrefetchAccount loads the transactions, totals and validation amount of an
// account concurrently. The first failure cancels the other loads.
func (s *Service) PrefetchAccount(ctx context.Context, accountNameOwner string) error {
	if _, err := validation.AccountName(accountNameOwner); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.FetchTransactionsByAccount(ctx, accountNameOwner)
		return err
	})
	g.Go(func() error {
		_, err := s.FetchTotals(ctx, accountNameOwner)
		return err
	})
	g.Go(func() error {
		_, err := s.FetchValidationAmount(ctx, accountNameOwner)
		return err
	})
	return g.Wait()
}
