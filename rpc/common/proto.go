package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/rgKV/lib/search"
	"github.com/ValentinKolb/rgKV/lib/store"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// Request fields
	Key   string   `json:"key,omitempty"`   // Used for: Set, Get, Has, Delete, Keys (the mask)
	Value []byte   `json:"value,omitempty"` // Used for: Set (request), Get (response)
	Keys  []string `json:"keys,omitempty"`  // Used for: MGet (request), Keys and Command (response)
	Args  []string `json:"args,omitempty"`  // Used for: Command (request), command name followed by its arguments

	// Response only fields
	Values [][]byte `json:"values,omitempty"` // Used for: MGet responses, one slot per requested key
	Found  []bool   `json:"found,omitempty"`  // Used for: MGet responses, false marks a missing key
	Count  int64    `json:"count,omitempty"`  // Used for: Command responses that report a count
	Nil    bool     `json:"nil,omitempty"`    // Used for: Command responses without results
	Ok     bool     `json:"ok,omitempty"`     // Used for: Get, Has responses
	Code   uint64   `json:"code,omitempty"`   // store.RetCode of a failed KV operation
	Kind   uint8    `json:"kind,omitempty"`   // search.Kind of a failed command
	Err    string   `json:"err,omitempty"`    // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// withErr fills the error fields of a response.
// Typed errors are sent as code (or kind) plus message so the client can rebuild them.
func withErr(msg *Message, err error) *Message {
	if err == nil {
		return msg
	}

	var se *store.Error
	var ce *search.Error
	switch {
	case errors.As(err, &ce):
		msg.Kind = uint8(ce.Kind)
		msg.Err = ce.Detail()
		if errors.As(err, &se) {
			msg.Code = uint64(se.Code)
		}
	case errors.As(err, &se):
		msg.Code = uint64(se.Code)
		msg.Err = se.Msg
	default:
		msg.Err = err.Error()
	}
	return msg
}

// RemoteErr returns the error carried by a response, or nil.
func (m *Message) RemoteErr() error {
	if m.Err == "" && m.MsgType != MsgTError {
		return nil
	}
	text := m.Err
	if text == "" {
		text = "unknown error"
	}

	switch {
	case m.Kind != 0:
		return &search.Error{Kind: search.Kind(m.Kind), Msg: text}
	case m.Code != 0:
		return store.NewError(store.RetCode(m.Code), text)
	default:
		return errors.New(text)
	}
}

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTKVSet}, err)
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVDelete,
		Key:     key,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	return withErr(&Message{MsgType: MsgTKVDelete}, err)
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	return withErr(&Message{
		MsgType: MsgTKVGet,
		Ok:      ok,
		Value:   value,
	}, err)
}

// NewHasRequest creates a new Has request
func NewHasRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVHas,
		Key:     key,
	}
}

// NewHasResponse creates a new Has response
func NewHasResponse(ok bool, err error) *Message {
	return withErr(&Message{
		MsgType: MsgTKVHas,
		Ok:      ok,
	}, err)
}

// NewKeysRequest creates a new Keys request for all keys matching the glob mask
func NewKeysRequest(mask string) *Message {
	return &Message{
		MsgType: MsgTKVKeys,
		Key:     mask,
	}
}

// NewKeysResponse creates a new Keys response.
// Ok is set on success so that an empty key list can be told apart from a malformed reply.
func NewKeysResponse(keys []string, err error) *Message {
	return withErr(&Message{
		MsgType: MsgTKVKeys,
		Keys:    keys,
		Ok:      err == nil,
	}, err)
}

// NewMGetRequest creates a new MGet request
func NewMGetRequest(keys []string) *Message {
	return &Message{
		MsgType: MsgTKVMGet,
		Keys:    keys,
	}
}

// NewMGetResponse creates a new MGet response
func NewMGetResponse(values [][]byte, found []bool, err error) *Message {
	return withErr(&Message{
		MsgType: MsgTKVMGet,
		Values:  values,
		Found:   found,
		Ok:      err == nil,
	}, err)
}

// NewCommandRequest creates a new Command request, args[0] is the command name
func NewCommandRequest(args []string) *Message {
	return &Message{
		MsgType: MsgTCommand,
		Args:    args,
	}
}

// NewCommandResponse creates a new Command response
func NewCommandResponse(resp search.Response, err error) *Message {
	msg := &Message{MsgType: MsgTCommand}
	switch r := resp.(type) {
	case search.KeyList:
		msg.Keys = r
	case search.Count:
		msg.Count = int64(r)
	case search.NoResults:
		msg.Nil = true
	}
	return withErr(msg, err)
}

// CommandResult converts a Command response back into a search.Response.
// A response that carries neither keys, a count nor the nil flag is malformed.
func (m *Message) CommandResult() (search.Response, error) {
	switch {
	case m.Nil:
		return search.NoResults{}, nil
	case m.Count > 0:
		return search.Count(m.Count), nil
	case len(m.Keys) > 0:
		return search.KeyList(m.Keys), nil
	default:
		return nil, &search.Error{Kind: search.KindUpstreamProtocol, Msg: "command response carries no result"}
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definitions
// --------------------------------------------------------------------------

type MessageType uint8

func (t MessageType) String() string {
	switch t {
	case MsgTKVSet:
		return "set"
	case MsgTKVDelete:
		return "delete"
	case MsgTKVGet:
		return "get"
	case MsgTKVHas:
		return "has"
	case MsgTKVKeys:
		return "keys"
	case MsgTKVMGet:
		return "mget"
	case MsgTCommand:
		return "command"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	for candidate := MsgTUnknown; candidate <= MsgTCommand; candidate++ {
		if candidate.String() == s {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown message type: %s", s)
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IStore operations

	MsgTKVSet    // Set a key-value pair
	MsgTKVDelete // Delete a key-value pair
	MsgTKVGet    // Get a value by key
	MsgTKVHas    // Check if a key exists
	MsgTKVKeys   // List keys matching a glob mask
	MsgTKVMGet   // Get many values at once

	// Search operations

	MsgTCommand // Run a registered search command (rgkeys, rgvalues, rgdelete)
)
