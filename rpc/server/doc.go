// Package server implements the RPC server of rgkv.
//
// A server hosts any number of shards. Every shard owns a store.IStore and an
// adapter that answers requests against it. Plain KV messages (set, get,
// delete, has, keys, mget) go straight to the store; command messages are
// dispatched through a search.Registry, so rgkeys, rgvalues and rgdelete run
// on the node that holds the data.
//
// Shard types:
//
//   - ShardTypeLocalIStore: an in-memory store on this node only.
//
//   - ShardTypeRemoteIStore: a store replicated with dragonboat. The RAFT
//     fields of the config (RTTMillisecond, SnapshotEntries, CompactionOverhead,
//     DataDir, ReplicaID and ClusterMembers) must be set.
//
// With ReadOnly set the server refuses rgdelete and plain KV writes.
//
// Usage Example:
//
//	s := server.NewRPCServer(
//	  common.ServerConfig{
//	    Shards:        []common.ServerShard{{ShardID: 100, Type: common.ShardTypeLocalIStore}},
//	    Endpoint:      "0.0.0.0:8080",
//	    TimeoutSecond: 5,
//	    LogLevel:      "info",
//	  },
//	  http.NewHttpServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Requests are handled concurrently; Serve must be called only once.
package server
