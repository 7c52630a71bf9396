// Package maple implements an in-memory key-value database (KVDB) with
// sharded storage. It provides a complete implementation of the db.KVDB
// interface with a focus on thread safety and cheap key enumeration.
//
// Key Components:
//
//   - mapleImpl: The central database structure implementing db.KVDB. It manages
//     the shards and the monotonically increasing write index. The mapleImpl does not
//     generate write indices itself, the caller passes them in (raft log index for the
//     distributed store, an atomic counter for the local store).
//
//   - Shard: A partition of the key space backed by a lock-free xsync map. Keys are
//     distributed across shards by a seeded FNV-1a hash. Unlike a hashed-key layout,
//     each shard keeps the key string so the whole key space can be walked by Keys().
//
//   - Entry: The stored value plus the write index of the last update. A write with a
//     lower index than the stored one is ignored (stale write prevention).
//
// Enumeration:
//
//	Keys(mask) walks every shard, keeps the keys selected by the glob mask and returns
//	them sorted. The walk is not atomic across shards: writes running concurrently to
//	the walk may or may not be visible. Callers that need a consistent view have to
//	serialise access themselves (the raft state machine does).
//
// Persistence:
//
//	Save writes a fuzzy snapshot (entries added during the save may be missing) in a
//	compact little-endian binary format, Load replaces the whole content.
package maple
