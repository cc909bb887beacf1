// Package strategies patches cached finance data after a server mutation has
// succeeded, so every view reading a partition sees the change without a
// network round trip.
//
// # Strategies
//
//   - AddToList: after a create. Prepends or appends the new record.
//   - UpdateInList: after an update. Replaces the record with the same identity;
//     invalidates the key when nothing is cached yet.
//   - RemoveFromList: after a delete. Absent lists are left alone.
//   - UpdateTotals: after anything that moves an amount. Invalidates when no
//     aggregate is cached; the update function is never called in that case.
//   - InvalidateRelated: when the effect on other views cannot be computed
//     locally, such as merges.
//   - ClearCaches: on logout or a bulk reset.
//
// # Identities
//
// List strategies compare records through a finance.Identity, which pairs the
// wire field name with a typed accessor:
//
//	strategies.UpdateInList(qc, querykeys.Payments(), updated, finance.PaymentID)
//
// # Ordering
//
// Every strategy runs synchronously through cache.QueryCache.Update, so two
// calls against the same key apply strictly in call order and always see the
// most recent snapshot. Strategies never return errors for missing data.
package strategies
