package finance

import (
	"encoding/json"
	"testing"
)

func TestTransaction_LinkedPaymentID(t *testing.T) {
	explicit := int64(42)

	tests := []struct {
		name   string
		tx     Transaction
		wantID int64
		wantOK bool
	}{
		{name: "marker only", tx: Transaction{Notes: "paymentId:9991"}, wantID: 9991, wantOK: true},
		{name: "marker inside text", tx: Transaction{Notes: "auto paymentId:1001 from chase"}, wantID: 1001, wantOK: true},
		{name: "explicit field wins", tx: Transaction{Notes: "paymentId:1", SourcePaymentID: &explicit}, wantID: 42, wantOK: true},
		{name: "empty notes", tx: Transaction{}, wantOK: false},
		{name: "marker without digits", tx: Transaction{Notes: "paymentId:abc"}, wantOK: false},
		{name: "overflowing id", tx: Transaction{Notes: "paymentId:99999999999999999999"}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := tt.tx.LinkedPaymentID()
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("LinkedPaymentID() = (%d, %v), want (%d, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestTransaction_IsLinkedTo(t *testing.T) {
	tx := Transaction{Notes: PaymentMarker(1001)}
	if !tx.IsLinkedTo(1001) {
		t.Error("expected link to 1001")
	}
	if tx.IsLinkedTo(100) || tx.IsLinkedTo(10010) {
		t.Error("expected marker to match the whole id only")
	}
}

func TestTotals_Apply(t *testing.T) {
	base := Totals{Totals: 100, TotalsCleared: 60, TotalsOutstanding: 30, TotalsFuture: 10}

	got := base.Apply(StateCleared, -10.25)
	want := Totals{Totals: 89.75, TotalsCleared: 49.75, TotalsOutstanding: 30, TotalsFuture: 10}
	if got != want {
		t.Errorf("Apply(cleared) = %+v, want %+v", got, want)
	}

	got = base.Apply("unknown", 5)
	if got.Totals != 105 || got.TotalsCleared != 60 {
		t.Errorf("Apply(unknown) = %+v", got)
	}

	if base.Totals != 100 {
		t.Error("Apply must not modify the receiver")
	}
}

func TestIdentities(t *testing.T) {
	if PaymentID.Of(Payment{PaymentID: 9}) != 9 || PaymentID.Field != "paymentId" {
		t.Error("unexpected PaymentID identity")
	}
	if AccountName.Of(Account{AccountNameOwner: "chase_brian"}) != "chase_brian" {
		t.Error("unexpected AccountName identity")
	}
	if TransactionGUID.Of(Transaction{Guid: "g"}) != "g" {
		t.Error("unexpected TransactionGUID identity")
	}
}

func TestPayment_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Payment{PaymentID: 1, SourceAccount: "a", DestinationAccount: "b", TransactionDate: "2024-08-01", Amount: 100})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, name := range []string{"paymentId", "sourceAccount", "destinationAccount", "transactionDate", "amount", "activeStatus"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing JSON field %q in %s", name, data)
		}
	}
	if _, ok := fields["guidSource"]; ok {
		t.Error("expected nil guidSource to be omitted")
	}
}
