package mutations

import (
	"fmt"

	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/querykeys"
	"go.uber.org/multierr"
)

// CascadeError reports a failure patching one account's cached transactions.
type CascadeError struct {
	PaymentID int64
	Account   string
	Err       error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("payment %d: patching transactions of %s: %v", e.PaymentID, e.Account, e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}

// CascadeResult is the outcome of CascadePaymentUpdate. Updated counts the
// rewritten transactions across both accounts. Err combines one
// *CascadeError per failing account and is nil when both sides succeeded.
type CascadeResult struct {
	Updated int
	Err     error
}

// CascadePaymentUpdate rewrites, in the cached transaction lists of the
// payment's source and destination accounts, the transactions generated by
// the payment so that they carry next's amount and date. The source side is
// written with the negated amount. Lists that are not cached are left absent,
// transactions not linked to the payment are kept as they are, and a list is
// stored back only when at least one transaction changed.
//
// The accounts are taken from old, since that is where the generated
// transactions live.
func CascadePaymentUpdate(c cache.QueryCache, old, next finance.Payment) CascadeResult {
	var result CascadeResult

	sides := []struct {
		account string
		amount  float64
	}{
		{account: old.SourceAccount, amount: finance.RoundAmount(-next.Amount)},
		{account: old.DestinationAccount, amount: finance.RoundAmount(next.Amount)},
	}

	for _, side := range sides {
		if side.account == "" {
			continue
		}
		n, err := patchLinked(c, querykeys.TransactionByAccount(side.account), old.PaymentID, side.amount, next.TransactionDate)
		result.Updated += n
		if err != nil {
			result.Err = multierr.Append(result.Err, &CascadeError{
				PaymentID: old.PaymentID,
				Account:   side.account,
				Err:       err,
			})
		}
	}
	return result
}

func patchLinked(c cache.QueryCache, key cache.Key, paymentID int64, amount float64, date string) (updated int, err error) {
	defer func() {
		if r := recover(); r != nil {
			updated = 0
			err = fmt.Errorf("recovered: %v", r)
		}
	}()

	c.Update(key, func(current any, exists bool) (any, bool) {
		list, ok := current.([]finance.Transaction)
		if !exists || !ok {
			return nil, false
		}

		changed := 0
		next := make([]finance.Transaction, len(list))
		for i, tx := range list {
			next[i] = tx
			if !tx.IsLinkedTo(paymentID) {
				continue
			}
			if tx.Amount == amount && tx.TransactionDate == date {
				continue
			}
			tx.Amount = amount
			tx.TransactionDate = date
			next[i] = tx
			changed++
		}
		if changed == 0 {
			return nil, false
		}
		updated = changed
		return next, true
	})
	return updated, nil
}
