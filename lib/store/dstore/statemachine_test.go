package dstore

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/rgKV/lib/db"
	"github.com/ValentinKolb/rgKV/lib/db/engines/maple"
	"github.com/ValentinKolb/rgKV/lib/store"
	"github.com/ValentinKolb/rgKV/lib/store/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

func newTestStateMachine() *KVStateMachine {
	factory := CreateStateMachineFactory(func() db.KVDB {
		return maple.NewMapleDB(nil)
	})
	return factory(1, 1).(*KVStateMachine)
}

func apply(t *testing.T, fsm *KVStateMachine, cmds ...internal.Command) []sm.Entry {
	t.Helper()
	entries := make([]sm.Entry, len(cmds))
	for i, c := range cmds {
		entries[i] = sm.Entry{Index: uint64(i + 1), Cmd: c.Serialize()}
	}
	res, err := fsm.Update(entries)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	return res
}

func TestStateMachineSetAndGet(t *testing.T) {
	fsm := newTestStateMachine()
	defer fsm.Close()

	res := apply(t, fsm,
		internal.Command{Type: internal.CommandTSet, Key: "user:1", Value: []byte("alice")},
		internal.Command{Type: internal.CommandTSet, Key: "user:2", Value: []byte("bob")},
	)
	for i, e := range res {
		if e.Result.Value != uint64(store.RetCSuccess) {
			t.Errorf("entry %d: got code %d", i, e.Result.Value)
		}
	}

	out, err := fsm.Lookup(internal.Query{Type: internal.QueryTGet, Key: "user:1"})
	if err != nil {
		t.Fatalf("Lookup(Get) failed: %v", err)
	}
	qr := out.(internal.QueryResult)
	if !qr.Ok || string(qr.Value) != "alice" {
		t.Errorf("Get(user:1) = %q, %v", qr.Value, qr.Ok)
	}

	out, err = fsm.Lookup(internal.Query{Type: internal.QueryTHas, Key: "user:3"})
	if err != nil {
		t.Fatalf("Lookup(Has) failed: %v", err)
	}
	if out.(bool) {
		t.Errorf("Has(user:3) = true, want false")
	}
}

func TestStateMachineKeysAndMGet(t *testing.T) {
	fsm := newTestStateMachine()
	defer fsm.Close()

	apply(t, fsm,
		internal.Command{Type: internal.CommandTSet, Key: "b", Value: []byte("2")},
		internal.Command{Type: internal.CommandTSet, Key: "a", Value: []byte("1")},
		internal.Command{Type: internal.CommandTSet, Key: "bin", Value: []byte{0xff, 0xfe}},
		internal.Command{Type: internal.CommandTDelete, Key: "b"},
	)

	out, err := fsm.Lookup(internal.Query{Type: internal.QueryTKeys, Key: "*"})
	if err != nil {
		t.Fatalf("Lookup(Keys) failed: %v", err)
	}
	keys := out.([]string)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "bin" {
		t.Errorf("Keys(*) = %v, want [a bin]", keys)
	}

	out, err = fsm.Lookup(internal.Query{Type: internal.QueryTMGet, Keys: []string{"a", "b", "bin"}})
	if err != nil {
		t.Fatalf("Lookup(MGet) failed: %v", err)
	}
	replies := out.([]store.Reply)
	if len(replies) != 3 {
		t.Fatalf("MGet returned %d replies, want 3", len(replies))
	}
	if s, ok := replies[0].(store.ReplyString); !ok || s != "1" {
		t.Errorf("replies[0] = %#v", replies[0])
	}
	if _, ok := replies[1].(store.ReplyNil); !ok {
		t.Errorf("replies[1] = %#v, want ReplyNil", replies[1])
	}
	if b, ok := replies[2].(store.ReplyBytes); !ok || !bytes.Equal(b, []byte{0xff, 0xfe}) {
		t.Errorf("replies[2] = %#v, want ReplyBytes", replies[2])
	}
}

func TestStateMachineInvalidInput(t *testing.T) {
	fsm := newTestStateMachine()
	defer fsm.Close()

	if _, err := fsm.Lookup("not a query"); !store.IsCode(err, store.RetCInternalError) {
		t.Errorf("Lookup(string) err = %v, want InternalError", err)
	}
	if _, err := fsm.Lookup(internal.Query{Type: internal.QueryTKeys, Key: "[unclosed"}); !store.IsCode(err, store.RetCInvalidOperation) {
		t.Errorf("Lookup(Keys, bad mask) err = %v, want InvalidOperation", err)
	}
	if _, err := fsm.Lookup(internal.Query{Type: internal.QueryType(99)}); !store.IsCode(err, store.RetCInvalidOperation) {
		t.Errorf("Lookup(unknown) err = %v, want InvalidOperation", err)
	}

	res, err := fsm.Update([]sm.Entry{
		{Index: 1, Cmd: nil},
		{Index: 2, Cmd: []byte{0, 0}},
		{Index: 3, Cmd: (&internal.Command{Type: internal.CommandType(42), Key: "x"}).Serialize()},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	want := []store.RetCode{store.RetCInvalidOperation, store.RetCInternalError, store.RetCInvalidOperation}
	for i, code := range want {
		if res[i].Result.Value != uint64(code) {
			t.Errorf("entry %d: got code %d, want %s", i, res[i].Result.Value, code)
		}
	}
}

func TestStateMachineSnapshot(t *testing.T) {
	src := newTestStateMachine()
	defer src.Close()
	apply(t, src,
		internal.Command{Type: internal.CommandTSet, Key: "2024:01:01", Value: []byte("x")},
		internal.Command{Type: internal.CommandTSet, Key: "2024:01:02", Value: []byte("y")},
	)

	var buf bytes.Buffer
	if err := src.SaveSnapshot(nil, &buf, nil, nil); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	dst := newTestStateMachine()
	defer dst.Close()
	if err := dst.RecoverFromSnapshot(&buf, nil, nil); err != nil {
		t.Fatalf("RecoverFromSnapshot failed: %v", err)
	}

	out, err := dst.Lookup(internal.Query{Type: internal.QueryTKeys, Key: "2024:*"})
	if err != nil {
		t.Fatalf("Lookup(Keys) failed: %v", err)
	}
	if keys := out.([]string); len(keys) != 2 {
		t.Errorf("recovered keys = %v, want 2 keys", keys)
	}
}
