package mutations

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-finance-cache/cache"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/pkg/testsupport"
	"github.com/goliatone/go-finance-cache/querykeys"
	"go.uber.org/multierr"
)

func cacheKeyForAccount(account string) cache.Key {
	return querykeys.TransactionByAccount(account)
}

func payment9991(amount float64, date string) finance.Payment {
	return finance.Payment{
		PaymentID:          9991,
		SourceAccount:      sourceAccount,
		DestinationAccount: destinationAccount,
		TransactionDate:    date,
		Amount:             amount,
		ActiveStatus:       true,
	}
}

func TestCascadePaymentUpdate_RewritesLinkedTransactions(t *testing.T) {
	c := testsupport.NewRecordingCache(t)
	source := testsupport.Seed[[]finance.Transaction](t, c, cacheKeyForAccount(sourceAccount), "source_transactions.json")
	destination := testsupport.Seed[[]finance.Transaction](t, c, cacheKeyForAccount(destinationAccount), "destination_transactions.json")

	result := CascadePaymentUpdate(c, payment9991(100, "2024-08-01"), payment9991(150, "2024-08-10"))

	if result.Err != nil {
		t.Fatalf("unexpected cascade error: %v", result.Err)
	}
	if result.Updated != 2 {
		t.Errorf("expected 2 updated transactions, got %d", result.Updated)
	}

	gotSource := transactionsAt(t, c, sourceAccount)
	gotDestination := transactionsAt(t, c, destinationAccount)

	tests := []struct {
		name   string
		got    finance.Transaction
		amount float64
		date   string
	}{
		{name: "source linked", got: byGUID(gotSource, "3b01"), amount: -150, date: "2024-08-10"},
		{name: "destination linked", got: byGUID(gotDestination, "3b03"), amount: 150, date: "2024-08-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Amount != tt.amount || tt.got.TransactionDate != tt.date {
				t.Errorf("expected amount %v on %s, got %v on %s", tt.amount, tt.date, tt.got.Amount, tt.got.TransactionDate)
			}
		})
	}

	if !reflect.DeepEqual(byGUID(gotSource, "3b02"), source[1]) {
		t.Errorf("unrelated source transaction changed: %+v", byGUID(gotSource, "3b02"))
	}
	if !reflect.DeepEqual(byGUID(gotDestination, "3b04"), destination[1]) {
		t.Errorf("unrelated destination transaction changed: %+v", byGUID(gotDestination, "3b04"))
	}
	if len(gotSource) != 2 || len(gotDestination) != 2 {
		t.Errorf("expected list lengths to be kept, got %d and %d", len(gotSource), len(gotDestination))
	}
}

func TestCascadePaymentUpdate_EmptyCaches(t *testing.T) {
	c := testsupport.NewRecordingCache(t)

	result := CascadePaymentUpdate(c, payment9991(100, "2024-08-01"), payment9991(150, "2024-08-10"))

	if result.Err != nil || result.Updated != 0 {
		t.Errorf("expected a silent no-op, got %+v", result)
	}
	for _, account := range []string{sourceAccount, destinationAccount} {
		if _, ok := c.GetQueryData(cacheKeyForAccount(account)); ok {
			t.Errorf("expected no partition to be created for %s", account)
		}
	}
	if len(c.Keys()) != 0 {
		t.Errorf("expected empty cache, got %v", c.Keys())
	}
}

func TestCascadePaymentUpdate_OnlyTouchesThePayment(t *testing.T) {
	c := testsupport.NewRecordingCache(t)
	key := cacheKeyForAccount(sourceAccount)
	other := finance.Transaction{Guid: "g-1002", Amount: -40, TransactionDate: "2024-06-01", Notes: "paymentId:1002"}
	c.SetQueryData(key, []finance.Transaction{
		{Guid: "g-1001", Amount: -10, TransactionDate: "2024-06-01", Notes: "paymentId:1001"},
		other,
	})

	old := finance.Payment{PaymentID: 1001, SourceAccount: sourceAccount, DestinationAccount: destinationAccount, Amount: 10, TransactionDate: "2024-06-01"}
	next := old
	next.Amount = 20

	result := CascadePaymentUpdate(c, old, next)
	if result.Updated != 1 {
		t.Errorf("expected 1 updated transaction, got %d", result.Updated)
	}

	got := transactionsAt(t, c, sourceAccount)
	if got[0].Amount != -20 {
		t.Errorf("expected 1001 entry to be rewritten to -20, got %v", got[0].Amount)
	}
	if !reflect.DeepEqual(got[1], other) {
		t.Errorf("expected 1002 entry untouched, got %+v", got[1])
	}
}

func TestCascadePaymentUpdate_PrefersSourcePaymentID(t *testing.T) {
	c := testsupport.NewRecordingCache(t)
	key := cacheKeyForAccount(destinationAccount)
	linked := int64(9991)
	unrelated := int64(5)
	c.SetQueryData(key, []finance.Transaction{
		{Guid: "g-1", Amount: 100, SourcePaymentID: &linked},
		{Guid: "g-2", Amount: 100, SourcePaymentID: &unrelated, Notes: "paymentId:9991"},
	})

	CascadePaymentUpdate(c, payment9991(100, "2024-08-01"), payment9991(80, "2024-08-02"))

	got := transactionsAt(t, c, destinationAccount)
	if got[0].Amount != 80 || got[0].TransactionDate != "2024-08-02" {
		t.Errorf("expected explicitly linked entry rewritten, got %+v", got[0])
	}
	if got[1].Amount != 100 {
		t.Errorf("expected explicit link to win over notes marker, got %+v", got[1])
	}
}

func TestCascadePaymentUpdate_UnchangedPaymentStoresNothing(t *testing.T) {
	c := testsupport.NewRecordingCache(t)
	testsupport.Seed[[]finance.Transaction](t, c, cacheKeyForAccount(sourceAccount), "source_transactions.json")

	result := CascadePaymentUpdate(c, payment9991(100, "2024-08-01"), payment9991(100, "2024-08-01"))

	if result.Updated != 0 || result.Err != nil {
		t.Errorf("expected nothing to change, got %+v", result)
	}
}

func TestCascadePaymentUpdate_MismatchedPartitionIsAbsent(t *testing.T) {
	c := testsupport.NewRecordingCache(t)
	c.SetQueryData(cacheKeyForAccount(sourceAccount), "not a list")

	result := CascadePaymentUpdate(c, payment9991(100, "2024-08-01"), payment9991(150, "2024-08-10"))

	if result.Err != nil || result.Updated != 0 {
		t.Errorf("expected no-op, got %+v", result)
	}
	if v, _ := c.GetQueryData(cacheKeyForAccount(sourceAccount)); v != "not a list" {
		t.Errorf("expected partition untouched, got %v", v)
	}
}

func TestCascadePaymentUpdate_RecoversPerSide(t *testing.T) {
	c := &panicCache{QueryCache: testsupport.NewRecordingCache(t), scope: querykeys.Transaction}

	result := CascadePaymentUpdate(c, payment9991(100, "2024-08-01"), payment9991(150, "2024-08-10"))

	if result.Err == nil {
		t.Fatal("expected cascade error")
	}
	errs := multierr.Errors(result.Err)
	if len(errs) != 2 {
		t.Fatalf("expected one error per side, got %d: %v", len(errs), result.Err)
	}

	var cascadeErr *CascadeError
	if !errors.As(errs[0], &cascadeErr) {
		t.Fatalf("expected *CascadeError, got %T", errs[0])
	}
	if cascadeErr.PaymentID != 9991 || cascadeErr.Account != sourceAccount {
		t.Errorf("unexpected cascade error %+v", cascadeErr)
	}
	if !errors.As(errs[1], &cascadeErr) || cascadeErr.Account != destinationAccount {
		t.Errorf("expected destination failure second, got %v", errs[1])
	}
}
