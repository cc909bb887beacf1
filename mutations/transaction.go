package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/querykeys"
	"github.com/goliatone/go-finance-cache/strategies"
	"github.com/goliatone/go-finance-cache/validation"
)

// InsertTransaction creates a transaction, assigning a guid when it has none,
// prepends it to the account's cached list and adds its amount to the cached
// totals.
func (s *Service) InsertTransaction(ctx context.Context, tx finance.Transaction) (finance.Transaction, error) {
	if tx.Guid == "" {
		tx.Guid = s.newGUID()
	}
	if err := validation.Transaction(tx); err != nil {
		return finance.Transaction{}, err
	}

	created, err := send(ctx, s, "transactionInsert", http.MethodPost, api.TransactionPath, tx)
	if err != nil {
		return finance.Transaction{}, err
	}

	strategies.AddToList(s.cache, querykeys.TransactionByAccount(created.AccountNameOwner), created, strategies.Start)
	strategies.UpdateTotals(s.cache, querykeys.TotalsFor(created.AccountNameOwner), func(t finance.Totals) finance.Totals {
		return t.Apply(created.TransactionState, created.Amount)
	})
	s.invalidateLabels(created)
	s.settle(ctx)
	return created, nil
}

// UpdateTransaction replaces old with next. When the account changes the
// transaction moves between the two cached account lists.
func (s *Service) UpdateTransaction(ctx context.Context, old, next finance.Transaction) (finance.Transaction, error) {
	guid, err := validation.GUID(old.Guid)
	if err != nil {
		return finance.Transaction{}, err
	}
	next.Guid = guid
	if err := validation.Transaction(next); err != nil {
		return finance.Transaction{}, err
	}

	updated, err := send(ctx, s, "transactionUpdate", http.MethodPut, api.Item(api.TransactionPath, guid), next)
	if err != nil {
		return finance.Transaction{}, err
	}

	if old.AccountNameOwner != updated.AccountNameOwner {
		strategies.RemoveFromList(s.cache, querykeys.TransactionByAccount(old.AccountNameOwner), old, finance.TransactionGUID)
		strategies.AddToList(s.cache, querykeys.TransactionByAccount(updated.AccountNameOwner), updated, strategies.Start)
		strategies.InvalidateRelated(s.cache,
			querykeys.TotalsFor(old.AccountNameOwner),
			querykeys.TotalsFor(updated.AccountNameOwner),
		)
	} else {
		strategies.UpdateInList(s.cache, querykeys.TransactionByAccount(updated.AccountNameOwner), updated, finance.TransactionGUID)
		strategies.InvalidateRelated(s.cache, querykeys.TotalsFor(updated.AccountNameOwner))
	}

	s.invalidateLabels(old)
	if old.Category != updated.Category || old.Description != updated.Description {
		s.invalidateLabels(updated)
	}
	s.settle(ctx)
	return updated, nil
}

// DeleteTransaction deletes a transaction and takes its amount out of the
// cached totals.
func (s *Service) DeleteTransaction(ctx context.Context, tx finance.Transaction) error {
	guid, err := validation.GUID(tx.Guid)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "transactionDelete", api.Item(api.TransactionPath, guid)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.TransactionByAccount(tx.AccountNameOwner), tx, finance.TransactionGUID)
	strategies.UpdateTotals(s.cache, querykeys.TotalsFor(tx.AccountNameOwner), func(t finance.Totals) finance.Totals {
		return t.Apply(tx.TransactionState, -tx.Amount)
	})
	s.invalidateLabels(tx)
	s.settle(ctx)
	return nil
}

// invalidateLabels marks the category and description scoped lists of tx
// stale.
func (s *Service) invalidateLabels(tx finance.Transaction) {
	if tx.Category != "" {
		strategies.InvalidateRelated(s.cache, querykeys.TransactionsByCategory(tx.Category))
	}
	if tx.Description != "" {
		strategies.InvalidateRelated(s.cache, querykeys.TransactionsByDescription(tx.Description))
	}
}

// InsertPendingTransaction records a pending transaction and prepends it to the cached list.
func (s *Service) InsertPendingTransaction(ctx context.Context, p finance.PendingTransaction) (finance.PendingTransaction, error) {
	if err := validation.PendingTransaction(p); err != nil {
		return finance.PendingTransaction{}, err
	}

	created, err := send(ctx, s, "pendingTransactionInsert", http.MethodPost, api.PendingTransactionPath, p)
	if err != nil {
		return finance.PendingTransaction{}, err
	}

	strategies.AddToList(s.cache, querykeys.PendingTransactions(), created, strategies.Start)
	s.settle(ctx)
	return created, nil
}

// DeletePendingTransaction deletes a pending transaction and drops it from the cached list.
func (s *Service) DeletePendingTransaction(ctx context.Context, p finance.PendingTransaction) error {
	id, err := validation.ID(p.PendingTransactionID)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "pendingTransactionDelete", api.Item(api.PendingTransactionPath, id)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.PendingTransactions(), p, finance.PendingTransactionID)
	s.settle(ctx)
	return nil
}
