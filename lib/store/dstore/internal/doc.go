// Package internal holds the messages exchanged between the dstore client and
// its state machine.
//
// Commands (Set, Delete) change state. They are stored in the RAFT log and are
// therefore serialized into a compact binary form:
//
//   - 1 byte:  command type
//   - 4 bytes: key length (uint32, big endian)
//   - N bytes: key
//   - M bytes: value (everything after the key, empty for Delete)
//
// Queries (Get, Has, Keys, MGet, GetDBInfo) are passed to the local state
// machine as Go values and never serialized. For Keys the Key field carries
// the glob mask, for MGet the Keys field carries the requested keys.
package internal
