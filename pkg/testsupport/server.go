package testsupport

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-finance-cache/finance"
	"github.com/google/uuid"
)

// FinanceServer is an in-memory stand-in for the finance REST API covering
// accounts, payments and transactions. Payments generate one transaction per
// side, tagged with the payment marker, and updating a payment rewrites them
// the way the real server does.
type FinanceServer struct {
	mu           sync.Mutex
	csrfToken    string
	accounts     []finance.Account
	payments     map[int64]finance.Payment
	transactions []finance.Transaction
	nextID       int64
	hits         map[string]int
}

// NewFinanceServer creates a server. A non-empty csrfToken is required in the
// X-CSRF-TOKEN header of every mutating request.
func NewFinanceServer(csrfToken string, accounts ...finance.Account) *FinanceServer {
	return &FinanceServer{
		csrfToken: csrfToken,
		accounts:  append([]finance.Account(nil), accounts...),
		payments:  make(map[int64]finance.Payment),
		nextID:    1000,
		hits:      make(map[string]int),
	}
}

// Handler returns the HTTP handler serving the API.
func (s *FinanceServer) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(s.count)
	router.Use(s.csrf)

	router.Route("/api", func(r chi.Router) {
		r.Get("/account/select/active", s.listAccounts)
		r.Get("/account/totals/{account}", s.totals)

		r.Route("/payment", func(r chi.Router) {
			r.Get("/select/active", s.listPayments)
			r.Post("/", s.insertPayment)
			r.Put("/{id}", s.updatePayment)
			r.Delete("/{id}", s.deletePayment)
		})

		r.Get("/transaction/account/select/{account}", s.listTransactions)
		r.Get("/validation/amount/select/{account}/{state}", s.validationAmount)
	})
	return router
}

// Hits returns how many requests reached method and path.
func (s *FinanceServer) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

func (s *FinanceServer) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *FinanceServer) csrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.csrfToken != "" && r.Method != http.MethodGet && r.Header.Get("X-CSRF-TOKEN") != s.csrfToken {
			writeJSON(w, http.StatusForbidden, map[string]string{"response": "invalid csrf token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FinanceServer) listAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeList(w, s.accounts)
}

func (s *FinanceServer) listPayments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.payments))
	for id := range s.payments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := make([]finance.Payment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.payments[id])
	}
	writeList(w, out)
}

func (s *FinanceServer) listTransactions(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]finance.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.AccountNameOwner == account {
			out = append(out, tx)
		}
	}
	writeList(w, out)
}

func (s *FinanceServer) totals(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	s.mu.Lock()
	defer s.mu.Unlock()

	var totals finance.Totals
	for _, tx := range s.transactions {
		if tx.AccountNameOwner == account {
			totals = totals.Apply(tx.TransactionState, tx.Amount)
		}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *FinanceServer) validationAmount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, finance.ValidationAmount{
		TransactionState: chi.URLParam(r, "state"),
		ActiveStatus:     true,
	})
}

func (s *FinanceServer) insertPayment(w http.ResponseWriter, r *http.Request) {
	var p finance.Payment
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"response": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.PaymentID = s.nextID
	p.ActiveStatus = true
	source := s.generated(p, p.SourceAccount, -p.Amount)
	destination := s.generated(p, p.DestinationAccount, p.Amount)
	p.GuidSource = &source.Guid
	p.GuidDestination = &destination.Guid
	s.transactions = append(s.transactions, source, destination)
	s.payments[p.PaymentID] = p

	writeJSON(w, http.StatusCreated, p)
}

func (s *FinanceServer) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.paymentID(w, r)
	if !ok {
		return
	}
	var p finance.Payment
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"response": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, found := s.payments[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"response": "payment not found"})
		return
	}

	p.PaymentID = id
	p.GuidSource = old.GuidSource
	p.GuidDestination = old.GuidDestination
	s.payments[id] = p
	for i, tx := range s.transactions {
		if !tx.IsLinkedTo(id) {
			continue
		}
		amount := p.Amount
		if tx.AccountNameOwner == old.SourceAccount {
			amount = -p.Amount
		}
		s.transactions[i].Amount = finance.RoundAmount(amount)
		s.transactions[i].TransactionDate = p.TransactionDate
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *FinanceServer) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.paymentID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.payments[id]; !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"response": "payment not found"})
		return
	}
	delete(s.payments, id)

	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if !tx.IsLinkedTo(id) {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept
	w.WriteHeader(http.StatusNoContent)
}

func (s *FinanceServer) paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"response": "invalid payment id"})
		return 0, false
	}
	return id, true
}

func (s *FinanceServer) generated(p finance.Payment, account string, amount float64) finance.Transaction {
	return finance.Transaction{
		Guid:             uuid.NewString(),
		AccountNameOwner: account,
		AccountType:      finance.AccountTypeCredit,
		TransactionDate:  p.TransactionDate,
		Description:      "payment",
		Category:         "bill_pay",
		Amount:           finance.RoundAmount(amount),
		TransactionState: finance.StateOutstanding,
		ActiveStatus:     true,
		Notes:            finance.PaymentMarker(p.PaymentID),
	}
}

func writeList[T any](w http.ResponseWriter, list []T) {
	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"response": "no records found"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
