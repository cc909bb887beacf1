package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"github.com/goliatone/go-finance-cache/querykeys"
	"github.com/goliatone/go-finance-cache/strategies"
	"github.com/goliatone/go-finance-cache/validation"
	"go.uber.org/zap"
)

// InsertAccount creates an account and appends it to the cached account list.
func (s *Service) InsertAccount(ctx context.Context, a finance.Account) (finance.Account, error) {
	if err := validation.Account(a); err != nil {
		return finance.Account{}, err
	}

	created, err := send(ctx, s, "accountInsert", http.MethodPost, api.AccountPath, a)
	if err != nil {
		return finance.Account{}, err
	}

	strategies.AddToList(s.cache, querykeys.Accounts(), created, strategies.End)
	strategies.InvalidateRelated(s.cache, querykeys.PaymentsRequired())
	s.settle(ctx)
	return created, nil
}

// UpdateAccount replaces old with next. A rename moves the cached
// transactions and totals out of the way, since they are addressed by name.
func (s *Service) UpdateAccount(ctx context.Context, old, next finance.Account) (finance.Account, error) {
	name, err := validation.AccountName(old.AccountNameOwner)
	if err != nil {
		return finance.Account{}, err
	}
	if err := validation.Account(next); err != nil {
		return finance.Account{}, err
	}

	updated, err := send(ctx, s, "accountUpdate", http.MethodPut, api.Item(api.AccountPath, name), next)
	if err != nil {
		return finance.Account{}, err
	}

	strategies.ReplaceInList(s.cache, querykeys.Accounts(), old, updated, finance.AccountName)
	if old.AccountNameOwner != updated.AccountNameOwner {
		s.hook("accountUpdate").Info("account renamed",
			zap.String(logging.FieldAccount, old.AccountNameOwner),
			zap.String(logging.FieldIdentifier, updated.AccountNameOwner),
		)
		s.forgetAccount(old.AccountNameOwner)
	}
	strategies.InvalidateRelated(s.cache, querykeys.PaymentsRequired())
	s.settle(ctx)
	return updated, nil
}

// DeleteAccount deletes an account and drops every partition addressed by its
// name.
func (s *Service) DeleteAccount(ctx context.Context, a finance.Account) error {
	name, err := validation.AccountName(a.AccountNameOwner)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "accountDelete", api.Item(api.AccountPath, name)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.Accounts(), a, finance.AccountName)
	s.forgetAccount(a.AccountNameOwner)
	strategies.InvalidateRelated(s.cache, querykeys.PaymentsRequired())
	s.settle(ctx)
	return nil
}

func (s *Service) forgetAccount(accountNameOwner string) {
	s.cache.RemoveQueries(querykeys.TransactionByAccount(accountNameOwner))
	s.cache.RemoveQueries(querykeys.TotalsFor(accountNameOwner))
	s.cache.RemoveQueries(querykeys.ValidationAmountFor(accountNameOwner))
}
