// Package lstore implements store.IStore on top of a single db.KVDB instance.
//
// Writes are stamped with a write index taken from an atomic counter, so the
// store can be shared by any number of goroutines. Operations the engine does
// not support fail with store.RetCUnsupportedOperation; an invalid glob mask
// fails with store.RetCInvalidOperation.
//
// Keys and MGet run against the live engine. A key listed by Keys may already
// be gone when it is read or deleted afterwards; such keys read as missing.
//
// Usage Example:
//
//	s := lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) })
//	_ = s.Set("2015:01:01", []byte("4a3c1f0e"))
//	keys, err := s.Keys("2015:*")
//
// Nothing is persisted, data is lost when the process exits.
package lstore
