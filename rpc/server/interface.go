package server

import (
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/rpc/common"
)

// IRPCServerAdapter answers the decoded requests of one shard.
type IRPCServerAdapter interface {
	// Handle runs req against s. It never fails: errors are reported in the
	// returned message, whose type matches the request type.
	Handle(req *common.Message, s store.IStore) (resp *common.Message)
}
