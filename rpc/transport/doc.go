// Package transport defines how serialized messages travel between client and
// server. The only implementation is the http package: every request is a POST
// to /{shardId} whose body is a serialized common.Message.
package transport
