package server

import (
	"fmt"

	"github.com/ValentinKolb/rgKV/lib/search"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/rpc/common"
)

// NewIStoreServerAdapter creates an adapter that answers KV messages with the
// store of the shard and runs command messages through the registry.
// If the registry is read-only, KV writes are refused as well.
func NewIStoreServerAdapter(registry *search.Registry) IRPCServerAdapter {
	return &iStoreServerAdapterImpl{
		registry: registry,
	}
}

type iStoreServerAdapterImpl struct {
	registry *search.Registry
}

var errReadOnly = store.NewError(store.RetCInvalidOperation, "the server is read-only")

func (adapter *iStoreServerAdapterImpl) Handle(req *common.Message, s store.IStore) *common.Message {
	if s == nil {
		return common.NewErrorResponse("handler: store is nil")
	}
	readOnly := adapter.registry.ReadOnly()

	switch req.MsgType {
	case common.MsgTKVSet:
		if readOnly {
			return common.NewSetResponse(errReadOnly)
		}
		return common.NewSetResponse(s.Set(req.Key, req.Value))
	case common.MsgTKVDelete:
		if readOnly {
			return common.NewDeleteResponse(errReadOnly)
		}
		return common.NewDeleteResponse(s.Delete(req.Key))
	case common.MsgTKVGet:
		val, ok, err := s.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTKVHas:
		ok, err := s.Has(req.Key)
		return common.NewHasResponse(ok, err)
	case common.MsgTKVKeys:
		keys, err := s.Keys(req.Key)
		return common.NewKeysResponse(keys, err)
	case common.MsgTKVMGet:
		replies, err := s.MGet(req.Keys)
		if err != nil {
			return common.NewMGetResponse(nil, nil, err)
		}
		values, found := splitReplies(replies)
		return common.NewMGetResponse(values, found, nil)
	case common.MsgTCommand:
		resp, err := adapter.registry.Execute(search.NewGateway(s), req.Args)
		return common.NewCommandResponse(resp, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC IStoreAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}

// splitReplies converts replies into the values and found flags of an MGet response
func splitReplies(replies []store.Reply) ([][]byte, []bool) {
	values := make([][]byte, len(replies))
	found := make([]bool, len(replies))
	for i, r := range replies {
		switch r := r.(type) {
		case store.ReplyString:
			values[i], found[i] = []byte(r), true
		case store.ReplyBytes:
			values[i], found[i] = r, true
		}
	}
	return values, found
}
