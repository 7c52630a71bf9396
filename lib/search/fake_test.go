package search

import (
	"sort"

	"github.com/ValentinKolb/rgKV/lib/db/util"
	"github.com/ValentinKolb/rgKV/lib/store"
)

// fakeGateway is an in-memory Gateway that counts how often it is called.
type fakeGateway struct {
	data        map[string]store.Reply
	unreadable  map[string]bool // keys whose read fails
	undeletable map[string]bool
	enumErr     error

	enumerateCalls int
	readCalls      int
	deleteCalls    int
}

func newFakeGateway(entries map[string]string) *fakeGateway {
	data := make(map[string]store.Reply, len(entries))
	for k, v := range entries {
		data[k] = store.ReplyString(v)
	}
	return &fakeGateway{
		data:        data,
		unreadable:  map[string]bool{},
		undeletable: map[string]bool{},
	}
}

func (f *fakeGateway) Enumerate(mask string) ([]string, error) {
	f.enumerateCalls++
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	m, err := util.CompileMask(mask)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		if m.Match(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeGateway) ReadOne(key string) OptionalValue {
	f.readCalls++
	if f.unreadable[key] {
		return store.ReplyNil{}
	}
	v, ok := f.data[key]
	if !ok {
		return store.ReplyNil{}
	}
	return v
}

func (f *fakeGateway) ReadMany(keys []string) ([]OptionalValue, error) {
	values := make([]OptionalValue, len(keys))
	for i, k := range keys {
		values[i] = f.ReadOne(k)
	}
	return values, nil
}

func (f *fakeGateway) DeleteOne(key string) bool {
	f.deleteCalls++
	if f.undeletable[key] {
		return false
	}
	delete(f.data, key)
	return true
}
