// Package search implements regex driven queries and bulk deletes on top of a
// key-value store that only offers primitive operations.
//
// Three commands are provided:
//
//	rgkeys <pattern>          keys whose name matches the regular expression
//	rgvalues <mask> <pattern> keys (within the glob mask) whose value matches
//	rgdelete <pattern>        delete every key rgkeys <pattern> would report
//
// A command runs as a straight pipeline: validate arguments, enumerate keys,
// read values (rgvalues only), filter, aggregate. The arguments are validated
// in full before the store is touched, so an invalid pattern never causes I/O.
// A failing enumeration aborts the command. A single key that cannot be read
// or deleted is logged and skipped.
//
// All store access goes through the Gateway interface. NewGateway adapts any
// store.IStore, which makes it possible to run the commands next to the data
// (rpc/server) or on a client against a remote store (rpc/client).
//
// Empty results are reported as NoResults, never as an empty KeyList. The same
// holds for rgdelete when nothing was deleted.
//
// Concurrency:
//
// The package starts no goroutines. Every Gateway call blocks until the store
// answered. Enumerating and then reading or deleting is not atomic: other
// clients may write between the two steps. Whether a command observes a single
// consistent view depends on the store. The lstore engine accepts writes
// concurrently, so a key returned by the enumeration may be gone when it is
// read (it is then skipped) or deleted (which counts as a successful delete).
// The dstore engine makes each primitive linearizable, but not the command as
// a whole.
//
// The command table, the pattern cache and the metrics are safe for
// concurrent use.
package search
