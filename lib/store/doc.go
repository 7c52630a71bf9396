// Package store defines IStore, the store interface the regex commands are
// executed against, together with its error codes and reply values.
//
// IStore offers the primitives the search layer needs: single key operations
// (Set, Delete, Get, Has), enumeration by glob mask (Keys) and bulk reads (MGet).
// MGet answers with one Reply per requested key:
//
//   - ReplyString: the value is valid UTF-8
//   - ReplyBytes: the value is binary
//   - ReplyNil: the key has no value
//
// Failures are reported as *Error with a RetCode. RetCUnsupportedOperation tells
// the caller that a backend lacks an operation (callers may fall back to simpler
// ones), RetCProtocolViolation that a reply did not have the expected shape.
//
// Implementations:
//
//   - lstore: in-memory store on top of a db.KVDB, for a single node
//   - dstore: the same engine replicated with dragonboat (RAFT)
//   - rpc/client.NewRPCStore: a store on a remote rgkv server
package store
