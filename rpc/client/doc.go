// Package client implements the RPC clients.
//
//   - NewRPCStore returns a store.IStore whose operations are sent to a shard
//     of a remote server. Combined with search.NewGateway it allows running the
//     search commands on the client side.
//
//   - NewRPCSearch returns an RPCSearch that runs the search commands on the
//     server, so only the result crosses the network.
//
// Typed errors survive the round trip: store failures arrive as *store.Error
// and command failures as *search.Error. Malformed or unexpected responses are
// reported as *store.Error with RetCProtocolViolation.
//
// Usage Example:
//
//	conf := common.ClientConfig{Endpoints: []string{"http://localhost:8080"}, TimeoutSecond: 5, RetryCount: 3}
//	s, err := client.NewRPCSearch(100, conf, http.NewHttpClientTransport(), serializer.NewBinarySerializer())
//	if err != nil { ... }
//	resp, err := s.SearchValues("*", "GET /user/.*")
package client
