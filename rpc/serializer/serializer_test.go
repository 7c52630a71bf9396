package serializer

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/ValentinKolb/rgKV/lib/search"
	"github.com/ValentinKolb/rgKV/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages returns the messages the client and server actually exchange
func testMessages() map[string]common.Message {
	return map[string]common.Message{
		"Success": {MsgType: common.MsgTSuccess},
		"SetRequest": {
			MsgType: common.MsgTKVSet,
			Key:     "2024:01:15",
			Value:   []byte("3f2b1c4e-8d2a-4f7b-9a61-0c5e4d3b2a19"),
		},
		"GetResponse": {
			MsgType: common.MsgTKVGet,
			Value:   []byte{0x00, 0xff, 0x10},
			Ok:      true,
		},
		"KeysRequest": {
			MsgType: common.MsgTKVKeys,
			Key:     "user:*",
		},
		"KeysResponse": {
			MsgType: common.MsgTKVKeys,
			Keys:    []string{"user:1", "user:2", "user:ü"},
			Ok:      true,
		},
		"MGetResponse": {
			MsgType: common.MsgTKVMGet,
			Values:  [][]byte{[]byte("GET /user/12/134"), nil, []byte("POST /news")},
			Found:   []bool{true, false, true},
			Ok:      true,
		},
		"CommandRequest": {
			MsgType: common.MsgTCommand,
			Args:    []string{"rgvalues", "*", "GET /user/.*"},
		},
		"CommandCount": {
			MsgType: common.MsgTCommand,
			Count:   42,
		},
		"CommandNil": {
			MsgType: common.MsgTCommand,
			Nil:     true,
		},
		"CommandError": {
			MsgType: common.MsgTCommand,
			Kind:    2,
			Code:    4,
			Err:     "invalid pattern \"(\": error parsing regexp: missing closing )",
		},
		"Error": {
			MsgType: common.MsgTError,
			Err:     "shard not found",
		},
	}
}

// equalMessages compares two messages, treating nil and empty elements of Values as equal
func equalMessages(a, b common.Message) bool {
	if len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if !bytes.Equal(a.Values[i], b.Values[i]) {
			return false
		}
	}
	a.Values, b.Values = nil, nil
	return reflect.DeepEqual(a, b)
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for msgName, msg := range testMessages() {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize %s: %v", msgName, err)
					continue
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize %s: %v", msgName, err)
					continue
				}

				if !equalMessages(msg, result) {
					t.Errorf("%s doesn't match after round trip:\nOriginal: %+v\nResult: %+v", msgName, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for msgType := common.MsgTSuccess; msgType <= common.MsgTCommand; msgType++ {
				data, err := serializer.Serialize(common.Message{MsgType: msgType})
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType, err)
					continue
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType, err)
					continue
				}

				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s", msgType, result.MsgType)
				}
			}
		})
	}
}

// TestBinaryKeepsEmptyVsNil checks that the binary format tells nil and empty apart
func TestBinaryKeepsEmptyVsNil(t *testing.T) {
	serializer := NewBinarySerializer()

	msg := common.Message{
		MsgType: common.MsgTKVMGet,
		Value:   []byte{},
		Keys:    []string{},
		Values:  [][]byte{nil, {}},
		Found:   []bool{},
	}
	data, err := serializer.Serialize(msg)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	var result common.Message
	if err := serializer.Deserialize(data, &result); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if !reflect.DeepEqual(msg, result) {
		t.Errorf("round trip changed the message:\nOriginal: %#v\nResult: %#v", msg, result)
	}
	if result.Values[0] != nil || result.Values[1] == nil {
		t.Errorf("nil/empty values were mixed up: %#v", result.Values)
	}
}

// TestBinaryDoesNotAlias checks that decoded slices do not share memory with the input
func TestBinaryDoesNotAlias(t *testing.T) {
	serializer := NewBinarySerializer()

	data, err := serializer.Serialize(common.Message{MsgType: common.MsgTKVGet, Value: []byte("abc")})
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	var result common.Message
	if err := serializer.Deserialize(data, &result); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	for i := range data {
		data[i] = 'x'
	}
	if string(result.Value) != "abc" {
		t.Errorf("decoded value changed with the input buffer: %q", result.Value)
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1, 0}, // message type and half the flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0, 0},
			expectError: false,
		},
		{
			name:        "Invalid length for key",
			data:        []byte{1, 0, byte(hasKey), 0, 0, 0, 5, 'a', 'b', 'c'}, // key length 5, only 3 bytes
			expectError: true,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{1, 0, byte(hasValue), 0, 0, 0, 10},
			expectError: true,
		},
		{
			name:        "Key count larger than data",
			data:        []byte{1, 0, byte(hasKeys), 0xff, 0xff, 0xff, 0xff},
			expectError: true,
		},
		{
			name:        "Missing count",
			data:        []byte{1, 0, byte(hasCount), 0, 0, 0},
			expectError: true,
		},
		{
			name:        "Nil and Ok flags carry no data",
			data:        []byte{byte(common.MsgTCommand), byte((hasNil | hasOk) >> 8), byte((hasNil | hasOk) & 0xff)},
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}

// TestDeserializeOverwrites checks that no field of a reused message survives decoding
func TestDeserializeOverwrites(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()
			data, err := serializer.Serialize(*common.NewCommandResponse(search.Count(3), nil))
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			reused := common.Message{MsgType: common.MsgTKVKeys, Keys: []string{"stale"}, Err: "stale", Ok: true}
			if err := serializer.Deserialize(data, &reused); err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}
			if reused.Keys != nil || reused.Err != "" || reused.Ok || reused.Count != 3 {
				t.Errorf("stale fields survived: %#v", reused)
			}
		})
	}
}
