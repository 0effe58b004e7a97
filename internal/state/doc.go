// Package state holds the product list shared by the view and the
// background refresher.
//
// # Snapshot semantics
//
// A Store owns one Snapshot. Refresh calls the Lister and, on success,
// replaces the product slice wholesale in server order; it is never patched
// item by item. On failure the previous products stay in place
// (stale-but-present), LastError is set, ConsecutiveFailures grows and the
// error notifier runs once:
//
//	store.Refresh(ctx) // ok    -> Products = server list, LastError = nil
//	store.Refresh(ctx) // fails -> Products unchanged,     LastError = err
//
// # Ordering
//
// Refreshes are not deduplicated. Each call takes a ticket; a result is only
// written if no newer ticket has been written already, so a slow response
// cannot overwrite a fresher list. Loading stays true while any refresh is
// in flight.
//
// # Concurrency
//
// Store is guarded by a sync.RWMutex that is never held across network I/O.
// Snapshot returns copies, so callers may keep and mutate what
// they get.
package state
