package serializer

import "github.com/ValentinKolb/rgKV/rpc/common"

// IRPCSerializer converts messages to and from their wire format.
// Client and server must use the same implementation.
type IRPCSerializer interface {
	// Serialize encodes msg.
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg. Every field of msg is overwritten,
	// fields absent in b are left at their zero value.
	Deserialize(b []byte, msg *common.Message) error
}
