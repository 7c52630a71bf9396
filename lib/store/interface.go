package store

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ValentinKolb/rgKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.KVDB

// IStore is the generic interface for interacting with a key–value store.
// All write operations return only an error (nil on success),
// while read operations return the requested data along with an error (nil on success).
// Errors returned by implementations are of type *Error.
type IStore interface {
	// Set inserts or updates a key–value pair.
	Set(key string, value []byte) (err error)
	// Delete deletes a key–value pair. The key should be removed from the store.
	// Deleting a key that does not exist is not an error.
	Delete(key string) (err error)
	// Get return the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value []byte, loaded bool, err error)
	// Has returns whether a key exists in the store.
	Has(key string) (loaded bool, err error)
	// Keys returns all keys matching the glob mask in lexicographic order.
	// An empty mask selects all keys.
	Keys(mask string) (keys []string, err error)
	// MGet reads many keys at once. The result has exactly one Reply per requested key,
	// in request order. Missing keys are reported as ReplyNil.
	MGet(keys []string) (values []Reply, err error)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
}

// --------------------------------------------------------------------------
// Reply Values
// --------------------------------------------------------------------------

// Reply is a single slot of a bulk read. The set of implementations is closed:
// ReplyString, ReplyBytes and ReplyNil.
type Reply interface {
	isReply()
}

// ReplyString is a value that is valid UTF-8 text.
type ReplyString string

// ReplyBytes is a value that is not valid UTF-8 text.
type ReplyBytes []byte

// ReplyNil marks a key that has no value.
type ReplyNil struct{}

func (ReplyString) isReply() {}
func (ReplyBytes) isReply()  {}
func (ReplyNil) isReply()    {}

// NewReply classifies a raw value read from a KVDB.
func NewReply(value []byte, ok bool) Reply {
	if !ok {
		return ReplyNil{}
	}
	if utf8.Valid(value) {
		return ReplyString(value)
	}
	return ReplyBytes(value)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// IsCode reports whether err is (or wraps) a *Error with the given code.
func IsCode(err error, code RetCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying database.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCProtocolViolation                   // 4: A reply did not have the shape the request demands.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCProtocolViolation:
		return "ProtocolViolation"
	default:
		return "Unknown"
	}
}
