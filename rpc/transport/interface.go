package transport

import (
	"github.com/ValentinKolb/rgKV/rpc/common"
)

// ServerHandleFunc answers a serialized request for a shard with a serialized response.
// Errors are part of the response, so a handler always returns a body.
type ServerHandleFunc func(shardId uint64, req []byte) (resp []byte)

// IRPCServerTransport receives requests and hands them to the registered handler.
type IRPCServerTransport interface {
	// RegisterHandler sets the handler for all shards. It must be called before Listen.
	RegisterHandler(handler ServerHandleFunc)
	// Listen serves config.Endpoint and blocks until the transport fails.
	Listen(config common.ServerConfig) error
}

// IRPCClientTransport sends serialized requests to a server.
type IRPCClientTransport interface {
	// Connect prepares the transport for the endpoints of config.
	Connect(config common.ClientConfig) error
	// Send delivers req to the shard and returns the serialized response.
	// An error means that no response was received.
	Send(shardId uint64, req []byte) (resp []byte, err error)
	// Close releases the resources of the transport.
	Close() error
}
