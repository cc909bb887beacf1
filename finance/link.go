package finance

import (
	"regexp"
	"strconv"
)

// PaymentMarkerPrefix starts the marker the server writes into the notes of
// transactions it generates for a payment.
const PaymentMarkerPrefix = "paymentId:"

var paymentMarker = regexp.MustCompile(`paymentId:(\d+)`)

// PaymentMarker returns the notes marker for a payment id.
func PaymentMarker(paymentID int64) string {
	return PaymentMarkerPrefix + strconv.FormatInt(paymentID, 10)
}

// LinkedPaymentID returns the id of the payment that generated t. The explicit
// SourcePaymentID wins; otherwise the first marker found in Notes is used.
func (t Transaction) LinkedPaymentID() (int64, bool) {
	if t.SourcePaymentID != nil {
		return *t.SourcePaymentID, true
	}
	m := paymentMarker.FindStringSubmatch(t.Notes)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsLinkedTo reports whether t was generated by the payment paymentID.
func (t Transaction) IsLinkedTo(paymentID int64) bool {
	id, ok := t.LinkedPaymentID()
	return ok && id == paymentID
}
