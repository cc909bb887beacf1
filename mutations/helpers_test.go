package mutations

import (
	"strings"
	"testing"

	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/pkg/testsupport"
)

const (
	sourceAccount      = "chase_brian"
	destinationAccount = "amex_kari"
)

func newTestService(t *testing.T) (*Service, *testsupport.RecordingCache, *testsupport.Transport) {
	t.Helper()
	c := testsupport.NewRecordingCache(t)
	tr := testsupport.NewTransport()
	return New(c, tr, nil), c, tr
}

func transactionsAt(t *testing.T, c cache.QueryCache, account string) []finance.Transaction {
	t.Helper()
	got, ok := cache.GetQueryData[[]finance.Transaction](c, cacheKeyForAccount(account))
	if !ok {
		t.Fatalf("expected a cached transaction list for %s", account)
	}
	return got
}

func byGUID(list []finance.Transaction, suffix string) finance.Transaction {
	for _, tx := range list {
		if strings.HasSuffix(tx.Guid, suffix) {
			return tx
		}
	}
	return finance.Transaction{}
}

// panicCache panics on Update for keys whose scope is scope.
type panicCache struct {
	cache.QueryCache
	scope string
}

func (p *panicCache) Update(key cache.Key, fn cache.UpdateFn) {
	if key.Scope() == p.scope {
		panic("corrupt partition")
	}
	p.QueryCache.Update(key, fn)
}
