// Package http implements the RPC transport over HTTP.
//
// The server answers POST /{shardId} with the serialized response of the shard
// handler and exposes GET /metrics (VictoriaMetrics, Prometheus text format).
// Requests are logged at debug level.
//
// The client picks one of the configured endpoints round-robin for every
// request and retries failed requests up to RetryCount times. It is safe for
// concurrent use.
package http
