package lstore

import (
	"sync/atomic"

	"github.com/ValentinKolb/rgKV/lib/db"
	"github.com/ValentinKolb/rgKV/lib/store"
)

type storeImpl struct {
	db    db.KVDB
	index atomic.Uint64 // write index of the last write
}

// NewLocalStore creates a store on top of a new engine created by factory.
// The store is not replicated, use dstore for that.
func NewLocalStore(factory store.DBFactory) store.IStore {
	return &storeImpl{db: factory()}
}

// require fails with RetCUnsupportedOperation if the engine lacks feature
func (s *storeImpl) require(feature db.Feature, op string) error {
	if s.db.SupportsFeature(feature) {
		return nil
	}
	return store.NewError(store.RetCUnsupportedOperation, op+" operation is not supported")
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, value []byte) error {
	if err := s.require(db.FeatureSet, "Set"); err != nil {
		return err
	}
	s.db.Set(key, value, s.index.Add(1))
	return nil
}

func (s *storeImpl) Delete(key string) error {
	if err := s.require(db.FeatureDelete, "Delete"); err != nil {
		return err
	}
	s.db.Delete(key, s.index.Add(1))
	return nil
}

func (s *storeImpl) Get(key string) ([]byte, bool, error) {
	if err := s.require(db.FeatureGet, "Get"); err != nil {
		return nil, false, err
	}
	val, ok := s.db.Get(key)
	return val, ok, nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	if err := s.require(db.FeatureHas, "Has"); err != nil {
		return false, err
	}
	return s.db.Has(key), nil
}

func (s *storeImpl) Keys(mask string) ([]string, error) {
	if err := s.require(db.FeatureKeys, "Keys"); err != nil {
		return nil, err
	}
	keys, err := s.db.Keys(mask)
	if err != nil {
		return nil, store.NewError(store.RetCInvalidOperation, err.Error())
	}
	return keys, nil
}

// MGet is a loop over Get, the local engine has no cheaper bulk read.
func (s *storeImpl) MGet(keys []string) ([]store.Reply, error) {
	if err := s.require(db.FeatureGet, "MGet"); err != nil {
		return nil, err
	}
	values := make([]store.Reply, len(keys))
	for i, key := range keys {
		values[i] = store.NewReply(s.db.Get(key))
	}
	return values, nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}
