package client

import (
	"fmt"

	"github.com/ValentinKolb/rgKV/lib/db"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/rpc/common"
	"github.com/ValentinKolb/rgKV/rpc/serializer"
	"github.com/ValentinKolb/rgKV/rpc/transport"
)

// NewRPCStore creates a new RPC store
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns a store.IStore and an error
func NewRPCStore(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IStore, error) {
	adapter, err := newRPCClientAdapter(shardId, config, transport, serializer)
	if err != nil {
		return nil, err
	}
	return &rpcStore{adapter}, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Set(key string, value []byte) (err error) {
	_, err = i.invoke(common.NewSetRequest(key, value))
	return err
}

func (i *rpcStore) Delete(key string) (err error) {
	_, err = i.invoke(common.NewDeleteRequest(key))
	return err
}

func (i *rpcStore) Get(key string) (value []byte, loaded bool, err error) {
	resp, err := i.invoke(common.NewGetRequest(key))
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Ok, nil
}

func (i *rpcStore) Has(key string) (loaded bool, err error) {
	resp, err := i.invoke(common.NewHasRequest(key))
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcStore) Keys(mask string) ([]string, error) {
	resp, err := i.invoke(common.NewKeysRequest(mask))
	if err != nil {
		return nil, err
	}
	if !resp.Ok {
		return nil, store.NewError(store.RetCProtocolViolation, "keys response is not a key list")
	}
	if resp.Keys == nil {
		return []string{}, nil
	}
	return resp.Keys, nil
}

func (i *rpcStore) MGet(keys []string) ([]store.Reply, error) {
	resp, err := i.invoke(common.NewMGetRequest(keys))
	if err != nil {
		return nil, err
	}
	if !resp.Ok || len(resp.Values) != len(keys) || len(resp.Found) != len(keys) {
		return nil, store.NewError(store.RetCProtocolViolation,
			fmt.Sprintf("mget response has %d values and %d flags for %d keys", len(resp.Values), len(resp.Found), len(keys)))
	}

	replies := make([]store.Reply, len(keys))
	for idx := range keys {
		replies[idx] = store.NewReply(resp.Values[idx], resp.Found[idx])
	}
	return replies, nil
}

// GetDBInfo is not available over rpc
func (i *rpcStore) GetDBInfo() (info db.DatabaseInfo, err error) {
	return db.DatabaseInfo{}, store.NewError(store.RetCUnsupportedOperation, "GetDBInfo is not available over rpc")
}
