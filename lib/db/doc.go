// Package db provides the interface every key-value engine of rgkv implements.
//
// Key Components:
//
//   - KVDB Interface: the primitive operations of an engine. Writes (Set, Delete),
//     reads (Get, Has), enumeration by glob mask (Keys), persistence (Save, Load)
//     and metadata (GetInfo). The regex commands in lib/search are built from
//     these primitives only.
//
//   - Feature Flags: implementations advertise the operations they support through
//     SupportsFeature, so callers can detect a missing operation at runtime.
//
//   - Database Information: DatabaseInfo reports the state of an engine. Size
//     figures are estimates for most implementations.
//
// Write Index:
//
// Every write carries a write index that acts as a logical timestamp. The index of
// an engine only grows; a write with an index lower than the one stored for its key
// is ignored. SetWriteIdx advances the index without writing.
//
// Keys Enumeration:
//
// Keys(mask) returns every key matching the mask, sorted lexicographically. The mask
// syntax is the glob dialect of lib/db/util (*, ?, [abc], [!a], [a-z] and \x escapes).
// An invalid mask is an error; no match is an empty, non-nil slice.
//
// Related Packages:
//
//   - engines/maple: a sharded in-memory implementation of KVDB
//   - util: hashing helpers and the glob mask compiler
//   - testing: RunKVDBTests and RunKVDBBenchmarks, the conformance suite for implementations
package db
