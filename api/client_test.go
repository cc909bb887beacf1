package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type payment struct {
	PaymentID int64   `json:"paymentId"`
	Amount    float64 `json:"amount"`
}

type recordedRequest struct {
	method string
	path   string
	csrf   string
	ctype  string
	body   string
	cookie string
}

type fakeServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	cookie := ""
	if c, err := r.Cookie("session"); err == nil {
		cookie = c.Value
	}
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		csrf:   r.Header.Get(DefaultCSRFHeader),
		ctype:  r.Header.Get("Content-Type"),
		body:   string(data),
		cookie: cookie,
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeServer) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/", opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return client, fake
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestCall_DecodesJSON(t *testing.T) {
	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, payment{PaymentID: 9991, Amount: 150})
	})

	got, err := Call[payment](context.Background(), client, http.MethodGet, Item(PaymentPath, "9991"), nil)
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	if got == nil || got.PaymentID != 9991 || got.Amount != 150 {
		t.Errorf("unexpected payment %+v", got)
	}

	req := fake.last(t)
	if req.path != "/api/payment/9991" {
		t.Errorf("expected path /api/payment/9991, got %s", req.path)
	}
	if req.csrf != "" {
		t.Error("GET must not carry a csrf header")
	}
}

func TestCall_NoContentReturnsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := Call[payment](context.Background(), client, http.MethodDelete, Item(PaymentPath, "1"), nil)
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for 204, got %+v", got)
	}
}

func TestDo_SendsCSRFOnMutatingVerbs(t *testing.T) {
	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, payment{PaymentID: 1})
	}, WithCSRF("", func(ctx context.Context) (string, error) { return "token-123", nil }))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		if _, err := client.Do(context.Background(), method, PaymentPath, payment{Amount: 1}, nil); err != nil {
			t.Fatalf("%s failed: %v", method, err)
		}
		req := fake.last(t)
		if req.csrf != "token-123" {
			t.Errorf("%s: expected csrf header, got %q", method, req.csrf)
		}
		if req.ctype != "application/json" {
			t.Errorf("%s: expected JSON content type, got %q", method, req.ctype)
		}
		if req.body != `{"paymentId":0,"amount":1}` {
			t.Errorf("%s: unexpected body %s", method, req.body)
		}
	}

	if _, err := client.Do(context.Background(), http.MethodGet, PaymentPath, nil, nil); err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if fake.last(t).csrf != "" {
		t.Error("GET must not carry a csrf header")
	}
}

func TestDo_CSRFFailureStopsRequest(t *testing.T) {
	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, WithCSRF("", func(ctx context.Context) (string, error) { return "", errors.New("no token") }))

	if _, err := client.Do(context.Background(), http.MethodPost, PaymentPath, nil, nil); err == nil {
		t.Fatal("expected csrf failure")
	}
	if len(fake.requests) != 0 {
		t.Error("expected no request to reach the server")
	}
}

func TestDo_KeepsCookies(t *testing.T) {
	calls := 0
	client, fake := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		}
		w.WriteHeader(http.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		if _, err := client.Do(context.Background(), http.MethodGet, AccountPath, nil, nil); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if fake.last(t).cookie != "abc" {
		t.Error("expected session cookie to be sent back")
	}
}

func TestDo_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantBody    any
	}{
		{name: "json response field", status: 400, body: `{"response":"duplicate payment"}`, wantMessage: "duplicate payment", wantBody: map[string]any{"response": "duplicate payment"}},
		{name: "json message field", status: 409, body: `{"message":"conflict"}`, wantMessage: "conflict", wantBody: map[string]any{"message": "conflict"}},
		{name: "plain text", status: 500, body: "boom", wantMessage: "boom", wantBody: "boom"},
		{name: "empty body", status: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			status, err := client.Do(context.Background(), http.MethodPut, PaymentPath, nil, nil)
			if status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, status)
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if apiErr.Status != tt.status || apiErr.StatusText != http.StatusText(tt.status) {
				t.Errorf("unexpected status %d %q", apiErr.Status, apiErr.StatusText)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, apiErr.Message)
			}
			if tt.wantBody != nil {
				gotJSON, _ := json.Marshal(apiErr.Body)
				wantJSON, _ := json.Marshal(tt.wantBody)
				if string(gotJSON) != string(wantJSON) {
					t.Errorf("expected body %s, got %s", wantJSON, gotJSON)
				}
			}
			if StatusOf(err) != tt.status {
				t.Errorf("StatusOf() = %d", StatusOf(err))
			}
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := New(url)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = client.Do(context.Background(), http.MethodGet, AccountPath, nil, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Errorf("expected external category, got %v", err)
	}
	if StatusOf(err) != 0 {
		t.Error("transport errors carry no status")
	}
}

func TestDo_DefaultTimeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	start := time.Now()
	_, err := client.Do(context.Background(), http.MethodGet, AccountPath, nil, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout was not applied")
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Do(ctx, http.MethodGet, AccountPath, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ActiveList(PaymentPath), "/api/payment/select/active"},
		{Item(TransactionPath, "g-1"), "/api/transaction/g-1"},
		{TransactionsByAccountPath("chase_brian"), "/api/transaction/account/select/chase_brian"},
		{TransactionsByCategoryPath("food"), "/api/transaction/category/food"},
		{TransactionsByDescriptionPath("rent"), "/api/transaction/description/rent"},
		{TotalsPath("chase_brian"), "/api/account/totals/chase_brian"},
		{ValidationAmountSelectPath("chase_brian", "cleared"), "/api/validation/amount/select/chase_brian/cleared"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}
