package mutations

import (
	"context"
	"net/http"

	"github.com/goliatone/go-finance-cache/api"
	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/internal/logging"
	"github.com/goliatone/go-finance-cache/querykeys"
	"github.com/goliatone/go-finance-cache/strategies"
	"github.com/goliatone/go-finance-cache/validation"
	"go.uber.org/zap"
)

// InsertPayment creates a payment. The server generates a transaction on each
// side, so both accounts' lists and totals are invalidated.
func (s *Service) InsertPayment(ctx context.Context, p finance.Payment) (finance.Payment, error) {
	if err := validation.Payment(p); err != nil {
		return finance.Payment{}, err
	}

	created, err := send(ctx, s, "paymentInsert", http.MethodPost, api.PaymentPath, p)
	if err != nil {
		return finance.Payment{}, err
	}

	strategies.AddToList(s.cache, querykeys.Payments(), created, strategies.Start)
	strategies.InvalidateRelated(s.cache, accountKeys(created.SourceAccount, created.DestinationAccount)...)
	strategies.InvalidateRelated(s.cache, querykeys.PaymentsRequired())
	s.settle(ctx)
	return created, nil
}

// UpdatePayment updates a payment and patches the transactions it generated
// in the cached account lists. A failed patch is logged; the update itself is
// still reported as successful since the server accepted it.
func (s *Service) UpdatePayment(ctx context.Context, old, next finance.Payment) (finance.Payment, error) {
	id, err := validation.ID(old.PaymentID)
	if err != nil {
		return finance.Payment{}, err
	}
	if err := validation.Payment(next); err != nil {
		return finance.Payment{}, err
	}

	next.PaymentID = old.PaymentID
	updated, err := send(ctx, s, "paymentUpdate", http.MethodPut, api.Item(api.PaymentPath, id), next)
	if err != nil {
		return finance.Payment{}, err
	}

	log := s.hook("paymentUpdate").With(zap.Int64(logging.FieldPaymentID, old.PaymentID))

	strategies.UpdateInList(s.cache, querykeys.Payments(), updated, finance.PaymentID)

	result := CascadePaymentUpdate(s.cache, old, updated)
	if result.Err != nil {
		log.Warn("payment cascade failed", zap.Int(logging.FieldUpdated, result.Updated), zap.Error(result.Err))
	} else {
		log.Debug("payment cascade applied", zap.Int(logging.FieldUpdated, result.Updated))
	}

	if old.Amount != updated.Amount {
		strategies.InvalidateRelated(s.cache,
			querykeys.TotalsFor(old.SourceAccount),
			querykeys.TotalsFor(old.DestinationAccount),
		)
	}
	if old.SourceAccount != updated.SourceAccount || old.DestinationAccount != updated.DestinationAccount {
		strategies.InvalidateRelated(s.cache, accountKeys(
			old.SourceAccount, old.DestinationAccount,
			updated.SourceAccount, updated.DestinationAccount,
		)...)
	}
	s.settle(ctx)
	return updated, nil
}

// DeletePayment deletes a payment together with its generated transactions.
func (s *Service) DeletePayment(ctx context.Context, p finance.Payment) error {
	id, err := validation.ID(p.PaymentID)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "paymentDelete", api.Item(api.PaymentPath, id)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.Payments(), p, finance.PaymentID)
	strategies.InvalidateRelated(s.cache, accountKeys(p.SourceAccount, p.DestinationAccount)...)
	strategies.InvalidateRelated(s.cache, querykeys.PaymentsRequired())
	s.settle(ctx)
	return nil
}

// InsertTransfer creates a transfer. Both accounts' lists and totals are invalidated.
func (s *Service) InsertTransfer(ctx context.Context, tr finance.Transfer) (finance.Transfer, error) {
	if err := validation.Transfer(tr); err != nil {
		return finance.Transfer{}, err
	}

	created, err := send(ctx, s, "transferInsert", http.MethodPost, api.TransferPath, tr)
	if err != nil {
		return finance.Transfer{}, err
	}

	strategies.AddToList(s.cache, querykeys.Transfers(), created, strategies.Start)
	strategies.InvalidateRelated(s.cache, accountKeys(created.SourceAccount, created.DestinationAccount)...)
	s.settle(ctx)
	return created, nil
}

// UpdateTransfer replaces old with next and invalidates the lists and totals of every account involved before or after.
func (s *Service) UpdateTransfer(ctx context.Context, old, next finance.Transfer) (finance.Transfer, error) {
	id, err := validation.ID(old.TransferID)
	if err != nil {
		return finance.Transfer{}, err
	}
	if err := validation.Transfer(next); err != nil {
		return finance.Transfer{}, err
	}

	next.TransferID = old.TransferID
	updated, err := send(ctx, s, "transferUpdate", http.MethodPut, api.Item(api.TransferPath, id), next)
	if err != nil {
		return finance.Transfer{}, err
	}

	strategies.UpdateInList(s.cache, querykeys.Transfers(), updated, finance.TransferID)
	strategies.InvalidateRelated(s.cache, accountKeys(
		old.SourceAccount, old.DestinationAccount,
		updated.SourceAccount, updated.DestinationAccount,
	)...)
	s.settle(ctx)
	return updated, nil
}

// DeleteTransfer deletes a transfer and invalidates both accounts' lists and totals.
func (s *Service) DeleteTransfer(ctx context.Context, tr finance.Transfer) error {
	id, err := validation.ID(tr.TransferID)
	if err != nil {
		return err
	}

	if err := s.remove(ctx, "transferDelete", api.Item(api.TransferPath, id)); err != nil {
		return err
	}

	strategies.RemoveFromList(s.cache, querykeys.Transfers(), tr, finance.TransferID)
	strategies.InvalidateRelated(s.cache, accountKeys(tr.SourceAccount, tr.DestinationAccount)...)
	s.settle(ctx)
	return nil
}

// accountKeys returns the transaction list and totals keys of each distinct
// account.
func accountKeys(accounts ...string) []cache.Key {
	seen := make(map[string]struct{}, len(accounts))
	keys := make([]cache.Key, 0, len(accounts)*2)
	for _, account := range accounts {
		if account == "" {
			continue
		}
		if _, ok := seen[account]; ok {
			continue
		}
		seen[account] = struct{}{}
		keys = append(keys, querykeys.TransactionByAccount(account), querykeys.TotalsFor(account))
	}
	return keys
}
