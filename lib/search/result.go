package search

import (
	"strconv"
	"strings"
)

// Response is the result of a command. The set of implementations is closed:
// KeyList, Count and NoResults.
type Response interface {
	isResponse()
	String() string
}

// KeyList is a non-empty, ordered list of matching keys.
type KeyList []string

// Count is the number of keys a command changed. It is never zero.
type Count int64

// NoResults signals that nothing matched (or nothing was deleted).
type NoResults struct{}

func (KeyList) isResponse()   {}
func (Count) isResponse()     {}
func (NoResults) isResponse() {}

func (k KeyList) String() string {
	var sb strings.Builder
	for i, key := range k {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(") ")
		sb.WriteString(strconv.Quote(key))
	}
	return sb.String()
}

func (c Count) String() string {
	return "(integer) " + strconv.FormatInt(int64(c), 10)
}

func (NoResults) String() string {
	return "(nil)"
}

// CountResponse converts a tally into a Response, NoResults for zero.
func CountResponse(n int) Response {
	if n <= 0 {
		return NoResults{}
	}
	return Count(n)
}

// --------------------------------------------------------------------------
// Aggregator
// --------------------------------------------------------------------------

// Aggregator collects matching keys in insertion order and drops duplicates.
// It is not safe for concurrent use.
type Aggregator struct {
	keys []string
	seen map[string]struct{}
}

// NewAggregator returns an empty aggregator. sizeHint may be zero.
func NewAggregator(sizeHint int) *Aggregator {
	return &Aggregator{
		keys: make([]string, 0, sizeHint),
		seen: make(map[string]struct{}, sizeHint),
	}
}

// Add appends key unless it was added before.
func (a *Aggregator) Add(key string) {
	if _, ok := a.seen[key]; ok {
		return
	}
	a.seen[key] = struct{}{}
	a.keys = append(a.keys, key)
}

// Keys returns the collected keys.
func (a *Aggregator) Keys() []string {
	return a.keys
}

// Len returns the number of collected keys.
func (a *Aggregator) Len() int {
	return len(a.keys)
}

// Response returns the collected keys, or NoResults if there are none.
func (a *Aggregator) Response() Response {
	if len(a.keys) == 0 {
		return NoResults{}
	}
	return KeyList(a.keys)
}
