// Package mutations applies writes to the finance API and keeps the query
// cache consistent with them.
//
// Every operation follows the same order: validate the payload, send the
// request, and only once the server has confirmed it apply the cache update
// strategies for the entity. A validation or transport failure returns before
// the cache is touched.
//
// Reads go through the Fetch methods, which load through the cache and leave
// an observer behind so that a later invalidation refetches the partition in
// the background:
//
//	svc := mutations.New(queryCache, client, logger)
//	txs, err := svc.FetchTransactionsByAccount(ctx, "chase_brian")
//
//	// Rewrites the two generated transactions in the cached lists.
//	updated, err := svc.UpdatePayment(ctx, oldPayment, newPayment)
package mutations
