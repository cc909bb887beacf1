package finance

import "math"

// RoundAmount rounds to cents.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}

// Apply returns a copy of t with delta added to the overall total and to the
// bucket of state. Unknown states only move the overall total.
func (t Totals) Apply(state string, delta float64) Totals {
	out := t
	out.Totals = RoundAmount(out.Totals + delta)
	switch state {
	case StateCleared:
		out.TotalsCleared = RoundAmount(out.TotalsCleared + delta)
	case StateOutstanding:
		out.TotalsOutstanding = RoundAmount(out.TotalsOutstanding + delta)
	case StateFuture:
		out.TotalsFuture = RoundAmount(out.TotalsFuture + delta)
	}
	return out
}
