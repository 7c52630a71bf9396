package store

import (
	"fmt"
	"testing"
)

func TestNewReply(t *testing.T) {
	tests := []struct {
		name     string
		value    []byte
		ok       bool
		expected Reply
	}{
		{"missing", nil, false, ReplyNil{}},
		{"missing with stale value", []byte("x"), false, ReplyNil{}},
		{"text", []byte("GET /user/12"), true, ReplyString("GET /user/12")},
		{"empty", []byte{}, true, ReplyString("")},
		{"binary", []byte{0xff, 0xfe}, true, ReplyBytes{0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewReply(tt.value, tt.ok)
			if fmt.Sprintf("%T %v", got, got) != fmt.Sprintf("%T %v", tt.expected, tt.expected) {
				t.Errorf("NewReply() = %T(%v), want %T(%v)", got, got, tt.expected, tt.expected)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(RetCProtocolViolation, "bad reply"))

	if !IsCode(err, RetCProtocolViolation) {
		t.Errorf("expected wrapped error to carry RetCProtocolViolation")
	}
	if IsCode(err, RetCInternalError) {
		t.Errorf("expected wrapped error not to carry RetCInternalError")
	}
	if IsCode(fmt.Errorf("plain"), RetCProtocolViolation) {
		t.Errorf("plain errors carry no code")
	}
}
