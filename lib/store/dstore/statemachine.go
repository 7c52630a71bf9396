package dstore

import (
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/rgKV/lib/db"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/lib/store/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// KVStateMachine is a state machine implementation for Dragonboat RAFT
type KVStateMachine struct {
	replicaID uint64
	shardID   uint64
	database  db.KVDB // the actual dataStorage
}

// CreateStateMachineFactory returns a function that can be used by dragonboat to create a new state machine for a node host.
// The factory pattern is used to enable the caller to pass an interchangeable dbFactory
func CreateStateMachineFactory(dbFactory store.DBFactory) func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &KVStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			database:  dbFactory(),
		}
	}
}

// unsupported is the error returned by Lookup if the database lacks a feature
func unsupported(op string) error {
	return store.NewError(store.RetCUnsupportedOperation, op+" operation is not supported")
}

// Lookup handles read-only queries by mapping each Query operation to the corresponding KVDB method.
func (fsm *KVStateMachine) Lookup(itf interface{}) (interface{}, error) {

	// try to parse Query into Query struct
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	switch q.Type {
	case internal.QueryTGet:
		if !fsm.database.SupportsFeature(db.FeatureGet) {
			return nil, unsupported("Get")
		}
		val, ok := fsm.database.Get(q.Key)
		return internal.QueryResult{
			Value: val,
			Ok:    ok,
		}, nil
	case internal.QueryTHas:
		if !fsm.database.SupportsFeature(db.FeatureHas) {
			return nil, unsupported("Has")
		}
		return fsm.database.Has(q.Key), nil
	case internal.QueryTKeys:
		if !fsm.database.SupportsFeature(db.FeatureKeys) {
			return nil, unsupported("Keys")
		}
		keys, err := fsm.database.Keys(q.Key)
		if err != nil {
			return nil, store.NewError(store.RetCInvalidOperation, err.Error())
		}
		return keys, nil
	case internal.QueryTMGet:
		if !fsm.database.SupportsFeature(db.FeatureGet) {
			return nil, unsupported("MGet")
		}
		// all keys are read within one Lookup, so the replies reflect a single applied index
		replies := make([]store.Reply, len(q.Keys))
		for i, key := range q.Keys {
			replies[i] = store.NewReply(fsm.database.Get(key))
		}
		return replies, nil
	case internal.QueryTGetDBInfo:
		return fsm.database.GetInfo(), nil
	default:
		return nil, store.NewError(store.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}

// result builds the sm.Result of an entry, Data carries the message for the proposer
func result(code store.RetCode, format string, args ...interface{}) sm.Result {
	return sm.Result{Value: uint64(code), Data: []byte(fmt.Sprintf(format, args...))}
}

// apply executes a single log entry against the database
func (fsm *KVStateMachine) apply(e sm.Entry) sm.Result {
	if len(e.Cmd) == 0 {
		return result(store.RetCInvalidOperation, "empty command ignored")
	}

	var cmd internal.Command
	if err := cmd.Deserialize(e.Cmd); err != nil {
		return result(store.RetCInternalError, "failed to deserialize command: %v", err)
	}

	feat, err := cmd.Type.ToDBFeature()
	if err != nil {
		return result(store.RetCInvalidOperation, "unknown Command operation: %s", cmd.Type)
	}
	if !fsm.database.SupportsFeature(feat) {
		return result(store.RetCUnsupportedOperation, "%s operation is not supported", cmd.Type)
	}

	switch cmd.Type {
	case internal.CommandTSet:
		fsm.database.Set(cmd.Key, cmd.Value, e.Index)
	case internal.CommandTDelete:
		fsm.database.Delete(cmd.Key, e.Index)
	}
	return result(store.RetCSuccess, "%s: key=%s", cmd.Type, cmd.Key)
}

// Update applies a batch of committed entries in log order.
// Failures are reported per entry in its Result, they never stop the batch.
func (fsm *KVStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	start := time.Now()
	for idx := range entries {
		entries[idx].Result = fsm.apply(entries[idx])
	}

	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("slow state machine update: %d entries took %.2fms", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

// PrepareSnapshot is not used. We don't need to prepare anything since we use fuzzy snapshotting
func (fsm *KVStateMachine) PrepareSnapshot() (interface{}, error) {
	return nil, nil
}

// SaveSnapshot saves a fuzzy db snapshot to the writer
func (fsm *KVStateMachine) SaveSnapshot(_ interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	if !fsm.database.SupportsFeature(db.FeatureSave) {
		return fmt.Errorf("the used KVDB implementation does not support Save() operations")
	}
	return fsm.database.Save(writer)
}

// RecoverFromSnapshot replaces the database content with the snapshot read from r.
func (fsm *KVStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	if !fsm.database.SupportsFeature(db.FeatureLoad) {
		return fmt.Errorf("the used KVDB implementation does not support Load() operations")
	}
	return fsm.database.Load(r)
}

// Close performs any necessary cleanup.
func (fsm *KVStateMachine) Close() error {
	return fsm.database.Close()
}
