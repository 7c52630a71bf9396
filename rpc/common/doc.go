// Package common holds the types shared by the rpc client, server and
// transports: the Message exchanged on the wire, the server and client
// configuration, and the logger factory installed into Dragonboat's logger
// package.
//
// A Message is a flat struct whose used fields depend on MsgType. KV messages
// (set, delete, get, has, keys, mget) map one to one onto store.IStore. A
// command message carries a raw search command line in Args and is answered
// with either Keys, Count or Nil.
//
// Failed KV operations report the store.RetCode in Code, failed commands the
// search.Kind in Kind, so the client can rebuild typed errors.
package common
