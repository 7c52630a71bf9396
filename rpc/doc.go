// Package rpc connects rgkv clients to the shards of a server.
//
// The package is organized into several subpackages:
//
//   - common: the Message protocol, configuration structures and logging.
//
//   - transport: how serialized messages travel (HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB).
//
//   - client: an IStore over RPC and a client for the regex commands.
//
//   - server: hosts the shards and answers KV and command messages.
package rpc
