package dstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/rgKV/lib/db"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/lib/store/dstore/internal"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

var (
	retries = 5
	log     = logger.GetLogger("store")
)

// storeImpl is the raft backed implementation of store.IStore.
// It encapsulates a Dragonboat NodeHost which is used to communicate with the state machine.
type storeImpl struct {
	nh      *dragonboat.NodeHost
	shardID uint64
	cs      *client.Session
	timeout time.Duration
}

// NewDistributedStore creates a new distributed store instance which uses raft consensus to ensure strict linearizability
// across multiple nodes.
func NewDistributedStore(nh *dragonboat.NodeHost, shardID uint64, timeout time.Duration) store.IStore {
	cs := nh.GetNoOPSession(shardID)
	return &storeImpl{
		nh:      nh,
		shardID: shardID,
		cs:      cs,
		timeout: timeout,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// retry runs fn with a fresh timeout until it stops failing with ErrSystemBusy.
// It gives up after `retries` attempts.
func (s *storeImpl) retry(op string, fn func(ctx context.Context) error) error {
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := fn(ctx)
		cancel()

		if !errors.Is(err, dragonboat.ErrSystemBusy) {
			return err
		}
		log.Infof("%s: system busy, retrying (%d/%d)...", op, i+1, retries)
		time.Sleep(s.timeout / 10)
	}
	return store.NewError(store.RetCInternalError, op+": system busy")
}

// asStoreError passes a *store.Error (returned by Lookup) through and wraps any other error
func asStoreError(err error) error {
	var se *store.Error
	if errors.As(err, &se) {
		return se
	}
	return store.NewError(store.RetCInternalError, err.Error())
}

// write proposes a Command and converts the result code of the state machine into an error
func (s *storeImpl) write(cmd internal.Command) error {
	var res sm.Result
	err := s.retry("propose "+cmd.Type.String(), func(ctx context.Context) (err error) {
		res, err = s.nh.SyncPropose(ctx, s.cs, cmd.Serialize())
		return err
	})
	if err != nil {
		return asStoreError(err)
	}
	if res.Value != uint64(store.RetCSuccess) {
		return store.NewError(store.RetCode(res.Value), string(res.Data))
	}
	return nil
}

// read queries the state machine and checks that the reply has type R.
// Reads are linearizable (SyncRead) unless stale is set, which uses StaleRead.
func read[R any](s *storeImpl, q internal.Query, stale bool) (R, error) {
	var zero R
	var res interface{}
	err := s.retry("read "+q.Type.String(), func(ctx context.Context) (err error) {
		if stale {
			res, err = s.nh.StaleRead(s.shardID, q)
		} else {
			res, err = s.nh.SyncRead(ctx, s.shardID, q)
		}
		return err
	})
	if err != nil {
		return zero, asStoreError(err)
	}

	casted, ok := res.(R)
	if !ok {
		return zero, store.NewError(store.RetCProtocolViolation,
			fmt.Sprintf("%s: unexpected reply type %T, expected %T", q.Type, res, zero))
	}
	return casted, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docs see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value []byte) error {
	return s.write(internal.Command{
		Type:  internal.CommandTSet,
		Key:   key,
		Value: value,
	})
}

func (s *storeImpl) Delete(key string) error {
	return s.write(
		internal.Command{
			Type: internal.CommandTDelete,
			Key:  key,
		},
	)
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	res, err := read[internal.QueryResult](s, internal.Query{
		Type: internal.QueryTGet,
		Key:  key,
	}, false)
	if err != nil {
		return nil, false, err
	}
	return res.Value, res.Ok, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	return read[bool](s, internal.Query{
		Type: internal.QueryTHas,
		Key:  key,
	}, false)
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return read[db.DatabaseInfo](
		s,
		internal.Query{
			Type: internal.QueryTGetDBInfo,
		},
		true, // Note: allow for stale reads
	)
}

func (s *storeImpl) Keys(mask string) ([]string, error) {
	return read[[]string](s, internal.Query{
		Type: internal.QueryTKeys,
		Key:  mask,
	}, false)
}

func (s *storeImpl) MGet(keys []string) ([]store.Reply, error) {
	replies, err := read[[]store.Reply](s, internal.Query{
		Type: internal.QueryTMGet,
		Keys: keys,
	}, false)
	if err != nil {
		return nil, err
	}
	if len(replies) != len(keys) {
		return nil, store.NewError(store.RetCProtocolViolation,
			fmt.Sprintf("mget: requested %d keys, got %d replies", len(keys), len(replies)))
	}
	return replies, nil
}
