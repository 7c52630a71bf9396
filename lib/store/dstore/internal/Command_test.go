package internal

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/rgKV/lib/db"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name:     "Command with key and value",
			command:  Command{Type: CommandTSet, Key: "testkey", Value: []byte("testvalue")},
			expected: 1 + 4 + 7 + 9, // Type + KeyLen + Key + Value
		},
		{
			name:     "Command with empty key and value",
			command:  Command{Type: CommandTSet, Key: "", Value: []byte("testvalue")},
			expected: 1 + 4 + 0 + 9,
		},
		{
			name:     "Delete without value",
			command:  Command{Type: CommandTDelete, Key: "testkey"},
			expected: 1 + 4 + 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.command.SizeBytes(); size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{
			name:    "Set with value",
			command: Command{Type: CommandTSet, Key: "testkey", Value: []byte("testvalue")},
		},
		{
			name:    "Delete without value",
			command: Command{Type: CommandTDelete, Key: "testkey"},
		},
		{
			name:    "Set with empty key",
			command: Command{Type: CommandTSet, Key: "", Value: []byte("testvalue")},
		},
		{
			name:    "Set with binary value",
			command: Command{Type: CommandTSet, Key: "bin", Value: []byte{0x00, 0xff, 0x10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()
			if len(data) != tt.command.SizeBytes() {
				t.Fatalf("Serialize() produced %d bytes, SizeBytes() = %d", len(data), tt.command.SizeBytes())
			}

			var got Command
			if err := got.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() failed: %v", err)
			}

			if got.Type != tt.command.Type {
				t.Errorf("Type = %v, want %v", got.Type, tt.command.Type)
			}
			if got.Key != tt.command.Key {
				t.Errorf("Key = %q, want %q", got.Key, tt.command.Key)
			}
			if !bytes.Equal(got.Value, tt.command.Value) {
				t.Errorf("Value = %v, want %v", got.Value, tt.command.Value)
			}
		})
	}
}

// TestDeserializeErrors tests that truncated input is rejected
func TestDeserializeErrors(t *testing.T) {
	var c Command
	if err := c.Deserialize([]byte{0, 0, 0}); err == nil {
		t.Errorf("expected error for short header")
	}

	// key length says 10, only 2 bytes follow
	if err := c.Deserialize([]byte{0, 0, 0, 0, 10, 'a', 'b'}); err == nil {
		t.Errorf("expected error for truncated key")
	}
}

// TestToDBFeature tests the mapping of command types to db features
func TestToDBFeature(t *testing.T) {
	if f, err := CommandTSet.ToDBFeature(); err != nil || f != db.FeatureSet {
		t.Errorf("CommandTSet -> %v, %v", f, err)
	}
	if f, err := CommandTDelete.ToDBFeature(); err != nil || f != db.FeatureDelete {
		t.Errorf("CommandTDelete -> %v, %v", f, err)
	}
	if _, err := CommandType(42).ToDBFeature(); err == nil {
		t.Errorf("expected error for unknown command type")
	}
}
