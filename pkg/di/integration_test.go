package di

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-finance-cache/config"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/goliatone/go-finance-cache/pkg/testsupport"
	"github.com/goliatone/go-finance-cache/querykeys"
	"go.uber.org/zap"
)

const csrfToken = "integration-token"

func newIntegrationContainer(t testing.TB) (*Container, *testsupport.FinanceServer) {
	t.Helper()

	server := testsupport.NewFinanceServer(csrfToken,
		finance.Account{AccountNameOwner: "chase_brian", AccountType: finance.AccountTypeCredit, ActiveStatus: true},
		finance.Account{AccountNameOwner: "amex_kari", AccountType: finance.AccountTypeCredit, ActiveStatus: true},
	)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL
	cfg.CSRFToken = csrfToken

	container, err := NewContainer(cfg, WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })
	return container, server
}

func TestIntegration_PaymentUpdateCascade(t *testing.T) {
	container, server := newIntegrationContainer(t)
	svc := container.Mutations()
	ctx := context.Background()

	created, err := svc.InsertPayment(ctx, finance.Payment{
		SourceAccount:      "chase_brian",
		DestinationAccount: "amex_kari",
		TransactionDate:    "2024-08-01",
		Amount:             100,
	})
	if err != nil {
		t.Fatalf("InsertPayment() failed: %v", err)
	}
	if created.PaymentID == 0 {
		t.Fatal("expected server assigned payment id")
	}

	source, err := svc.FetchTransactionsByAccount(ctx, "chase_brian")
	if err != nil {
		t.Fatalf("FetchTransactionsByAccount() failed: %v", err)
	}
	if len(source) != 1 || source[0].Amount != -100 {
		t.Fatalf("expected generated source transaction, got %+v", source)
	}
	if _, err := svc.FetchTransactionsByAccount(ctx, "amex_kari"); err != nil {
		t.Fatalf("FetchTransactionsByAccount() failed: %v", err)
	}

	next := created
	next.Amount = 150
	next.TransactionDate = "2024-08-10"
	if _, err := svc.UpdatePayment(ctx, created, next); err != nil {
		t.Fatalf("UpdatePayment() failed: %v", err)
	}

	// Served from the patched cache, without another request.
	source, err = svc.FetchTransactionsByAccount(ctx, "chase_brian")
	if err != nil {
		t.Fatalf("FetchTransactionsByAccount() failed: %v", err)
	}
	if source[0].Amount != -150 || source[0].TransactionDate != "2024-08-10" {
		t.Errorf("expected cascaded source transaction, got %+v", source[0])
	}
	destination, _ := svc.FetchTransactionsByAccount(ctx, "amex_kari")
	if destination[0].Amount != 150 {
		t.Errorf("expected cascaded destination transaction, got %+v", destination[0])
	}
	if n := server.Hits(http.MethodGet, "/api/transaction/account/select/chase_brian"); n != 1 {
		t.Errorf("expected a single list request, got %d", n)
	}
}

func TestIntegration_InvalidationRefetchesFromServer(t *testing.T) {
	container, server := newIntegrationContainer(t)
	svc := container.Mutations()
	ctx := context.Background()

	if _, err := svc.FetchTotals(ctx, "chase_brian"); err != nil {
		t.Fatalf("FetchTotals() failed: %v", err)
	}

	if _, err := svc.InsertPayment(ctx, finance.Payment{
		SourceAccount:      "chase_brian",
		DestinationAccount: "amex_kari",
		TransactionDate:    "2024-08-01",
		Amount:             40,
	}); err != nil {
		t.Fatalf("InsertPayment() failed: %v", err)
	}
	container.QueryCache().Wait()

	if n := server.Hits(http.MethodGet, "/api/account/totals/chase_brian"); n != 2 {
		t.Errorf("expected totals refetched after the payment, got %d requests", n)
	}
	totals, err := svc.FetchTotals(ctx, "chase_brian")
	if err != nil {
		t.Fatalf("FetchTotals() failed: %v", err)
	}
	if totals.Totals != -40 || totals.TotalsOutstanding != -40 {
		t.Errorf("expected refetched totals, got %+v", totals)
	}
}

func TestIntegration_CSRFRequired(t *testing.T) {
	server := testsupport.NewFinanceServer(csrfToken)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = srv.URL

	container, err := NewContainer(cfg, WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	t.Cleanup(func() { container.Close() })

	_, err = container.Mutations().InsertPayment(context.Background(), finance.Payment{
		SourceAccount:      "chase_brian",
		DestinationAccount: "amex_kari",
		TransactionDate:    "2024-08-01",
		Amount:             10,
	})
	if err == nil {
		t.Fatal("expected the server to reject a request without csrf token")
	}
	if _, ok := container.QueryCache().GetQueryData(querykeys.Payments()); ok {
		t.Error("expected no cache write after a rejected request")
	}
}

func TestIntegration_LogoutClearsEverything(t *testing.T) {
	container, _ := newIntegrationContainer(t)
	svc := container.Mutations()
	ctx := context.Background()

	if _, err := svc.FetchAccounts(ctx); err != nil {
		t.Fatalf("FetchAccounts() failed: %v", err)
	}
	if err := svc.PrefetchAccount(ctx, "chase_brian"); err != nil {
		t.Fatalf("PrefetchAccount() failed: %v", err)
	}
	if len(container.QueryCache().Keys()) == 0 {
		t.Fatal("expected cached partitions before logout")
	}

	svc.Logout()

	if keys := container.QueryCache().Keys(); len(keys) != 0 {
		t.Errorf("expected empty cache after logout, got %v", keys)
	}
}

func TestIntegration_ConcurrentReaders(t *testing.T) {
	container, server := newIntegrationContainer(t)
	svc := container.Mutations()
	ctx := context.Background()

	const numGoroutines = 20
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if _, err := svc.FetchAccounts(ctx); err != nil {
				errs <- fmt.Errorf("worker %d: %w", worker, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if n := server.Hits(http.MethodGet, "/api/account/select/active"); n < 1 || n > numGoroutines {
		t.Errorf("unexpected request count %d", n)
	}
}
