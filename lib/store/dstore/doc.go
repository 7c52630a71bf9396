// Package dstore implements store.IStore on top of a Dragonboat RAFT shard.
// Every replica of the shard owns a db.KVDB inside a KVStateMachine, and the
// store type translates IStore calls into proposals (writes) and lookups (reads).
//
// Writes:
//
//	Set and Delete are encoded as internal.Command values in a compact binary
//	format and proposed with SyncPropose. Once committed, every replica applies
//	the command in Update, using the RAFT log index as the write index of the
//	entry. Stale writes are therefore ignored in the same way on all replicas.
//
// Reads:
//
//	Get, Has, Keys and MGet are internal.Query values answered by Lookup through
//	SyncRead, so they observe every write committed before the read started.
//	MGet reads all requested keys within one Lookup call. GetDBInfo uses
//	StaleRead and may lag behind.
//
// Consistency of derived commands:
//
//	Each primitive is linearizable on its own, but a command composed of several
//	primitives (enumerate, then read or delete) is not. A key enumerated by Keys
//	may be deleted before the following MGet or Delete reaches the shard.
//
// Retries:
//
//	When Dragonboat answers ErrSystemBusy the call is retried a few times with a
//	short pause. Any other failure is returned as a *store.Error. A reply of an
//	unexpected type is reported with RetCProtocolViolation.
//
// Example:
//
//	nh, err := dragonboat.NewNodeHost(nodeHostConfig)
//	if err != nil { ... }
//
//	dbFactory := func() db.KVDB { return maple.NewMapleDB(nil) }
//	err = nh.StartConcurrentReplica(members, false, dstore.CreateStateMachineFactory(dbFactory), shardConfig)
//	if err != nil { ... }
//
//	s := dstore.NewDistributedStore(nh, shardID, 5*time.Second)
//
// For a single node without replication, use the lstore package instead.
package dstore
