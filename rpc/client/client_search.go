package client

import (
	"github.com/ValentinKolb/rgKV/lib/search"
	"github.com/ValentinKolb/rgKV/rpc/common"
	"github.com/ValentinKolb/rgKV/rpc/serializer"
	"github.com/ValentinKolb/rgKV/rpc/transport"
)

// RPCSearch runs search commands on the server, next to the data.
// Errors of failed commands are *search.Error values.
type RPCSearch struct {
	rpcClientAdapter
}

// NewRPCSearch creates a new client for the search commands of a shard
func NewRPCSearch(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCSearch, error) {
	adapter, err := newRPCClientAdapter(shardId, config, transport, serializer)
	if err != nil {
		return nil, err
	}
	return &RPCSearch{adapter}, nil
}

// Do runs a raw command line, args[0] is the command name
func (c *RPCSearch) Do(args ...string) (search.Response, error) {
	resp, err := c.invoke(common.NewCommandRequest(args))
	if err != nil {
		return nil, err
	}
	return resp.CommandResult()
}

// SearchKeys runs rgkeys
func (c *RPCSearch) SearchKeys(pattern string) (search.Response, error) {
	return c.Do("rgkeys", pattern)
}

// SearchValues runs rgvalues
func (c *RPCSearch) SearchValues(mask, pattern string) (search.Response, error) {
	return c.Do("rgvalues", mask, pattern)
}

// DeleteByPattern runs rgdelete
func (c *RPCSearch) DeleteByPattern(pattern string) (search.Response, error) {
	return c.Do("rgdelete", pattern)
}

// Close closes the underlying transport
func (c *RPCSearch) Close() error {
	return c.transport.Close()
}
