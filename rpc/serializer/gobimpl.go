package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/ValentinKolb/rgKV/rpc/common"
)

// NewGOBSerializer creates a serializer using Go's gob format.
// Every message is encoded with a fresh encoder, so each payload carries its
// own type description and can be decoded on its own.
func NewGOBSerializer() IRPCSerializer {
	return gobSerializerImpl{}
}

type gobSerializerImpl struct{}

func (gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize decodes into a fresh message, gob would otherwise keep the
// fields of msg that are zero in the payload.
func (gobSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	var decoded common.Message
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&decoded); err != nil {
		return err
	}
	*msg = decoded
	return nil
}
