// Package testing holds the conformance tests and benchmarks every db.KVDB
// implementation runs.
//
// RunKVDBTests checks the contract the store and search layers rely on: stale
// writes are ignored, Keys returns sorted matches and rejects invalid masks,
// and Save/Load round trips the data. RunKVDBBenchmarks measures the single key
// operations and Keys over a prefilled database.
//
//	func TestMyDB(t *testing.T) {
//		testing.RunKVDBTests(t, "MyDB", func() db.KVDB { return NewMyDB() })
//	}
package testing
