/*
Package store provides the machinery shared by brigada's entity stores.

An entity store mirrors one or more server-owned collections. Every
operation issues exactly one request through Run, which raises the
store's loading flag, clears its last error, and on return lowers the
flag on every path. A failure leaves a display-ready message (the
server's detail or the operation's Spanish fallback) and is returned to
the caller wrapped with the store and operation names.

# Reconciliation

Collection[T] is an ordered cache keyed by entity id:

  - Replace: full overwrite after a fetch-all
  - Prepend: newly created entities go first
  - Update: in-place replace, never inserts (an uncached entity stays
    uncached)
  - Upsert: replace or append, for keyed sub-collections
  - Remove: drop by id

# Ordering

Stores take a Ticket from their Sequencer before issuing a request and
pass it to the reconciliation. A slow fetch is applied and the
single-entity changes issued after it are replayed on top, so it can't
undo a newer create, update or delete. A fetch older than an applied
fetch, or a change older than an applied fetch or a newer change to the
same entity, is discarded (Stale). Discards are counted in
brigada_store_stale_responses_total; the response is still returned to
the caller.

Collections lock internally. Stores never hold a lock across a request.
*/
package store
