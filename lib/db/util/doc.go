// Package util provides utility components for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - functions: seeded hashing used to distribute keys across shards
//   - mask: compilation and matching of host glob masks (used by KVDB.Keys)
package util
