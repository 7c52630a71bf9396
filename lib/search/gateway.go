package search

import (
	"unicode/utf8"

	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("search")

// OptionalValue is a value read through a Gateway. Absent values are store.ReplyNil.
type OptionalValue = store.Reply

// Gateway is the only way the commands reach the store.
type Gateway interface {
	// Enumerate lists all keys matching the glob mask.
	// A failure aborts the command that called it.
	Enumerate(mask string) (keys []string, err error)
	// ReadOne reads a single key. Missing or unreadable keys are absent.
	ReadOne(key string) OptionalValue
	// ReadMany reads many keys at once. The result has one entry per key, in
	// request order. Only a reply of the wrong shape is reported as an error.
	ReadMany(keys []string) (values []OptionalValue, err error)
	// DeleteOne deletes a single key and reports whether the store accepted the delete.
	DeleteOne(key string) (ok bool)
}

// AsString maps a value to the text the patterns are evaluated against.
// Absent values and values that are not valid UTF-8 are not usable.
func AsString(v OptionalValue) (string, bool) {
	switch v := v.(type) {
	case store.ReplyString:
		return string(v), true
	case store.ReplyBytes:
		if utf8.Valid(v) {
			return string(v), true
		}
		return "", false
	default:
		return "", false
	}
}

// --------------------------------------------------------------------------
// IStore Gateway
// --------------------------------------------------------------------------

type storeGateway struct {
	store store.IStore
}

// NewGateway returns a Gateway backed by the given store.
func NewGateway(s store.IStore) Gateway {
	return &storeGateway{store: s}
}

func (g *storeGateway) Enumerate(mask string) ([]string, error) {
	keys, err := g.store.Keys(mask)
	if err != nil {
		if store.IsCode(err, store.RetCProtocolViolation) {
			return nil, newError(KindUpstreamProtocol, err, "enumerate %q: unexpected reply", mask)
		}
		return nil, newError(KindUpstream, err, "enumerate %q", mask)
	}
	return keys, nil
}

func (g *storeGateway) ReadOne(key string) OptionalValue {
	value, ok, err := g.store.Get(key)
	if err != nil {
		log.Debugf("read %q failed, skipping key: %v", key, err)
		readFaults.Inc()
		return store.ReplyNil{}
	}
	return store.NewReply(value, ok)
}

func (g *storeGateway) ReadMany(keys []string) ([]OptionalValue, error) {
	if len(keys) == 0 {
		return []OptionalValue{}, nil
	}

	values, err := g.store.MGet(keys)
	switch {
	case err == nil:
	case store.IsCode(err, store.RetCProtocolViolation):
		return nil, newError(KindUpstreamProtocol, err, "read %d keys: unexpected reply", len(keys))
	case store.IsCode(err, store.RetCUnsupportedOperation):
		log.Debugf("store has no multi read, reading %d keys one by one", len(keys))
		return g.readEach(keys), nil
	default:
		log.Warningf("multi read of %d keys failed, reading one by one: %v", len(keys), err)
		return g.readEach(keys), nil
	}

	if len(values) != len(keys) {
		return nil, newError(KindUpstreamProtocol, nil,
			"read %d keys: store answered with %d values", len(keys), len(values))
	}
	for i, v := range values {
		if v == nil {
			values[i] = store.ReplyNil{}
		}
	}
	return values, nil
}

func (g *storeGateway) readEach(keys []string) []OptionalValue {
	values := make([]OptionalValue, len(keys))
	for i, key := range keys {
		values[i] = g.ReadOne(key)
	}
	return values
}

func (g *storeGateway) DeleteOne(key string) bool {
	if err := g.store.Delete(key); err != nil {
		log.Warningf("delete %q failed: %v", key, err)
		deleteFaults.Inc()
		return false
	}
	return true
}
