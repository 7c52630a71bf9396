package serializer

import (
	"encoding/json"

	"github.com/ValentinKolb/rgKV/rpc/common"
)

// NewJSONSerializer creates a serializer that sends messages as JSON objects.
// Message types are written by name ("keys", "command", ...), which makes the
// format the easiest one to inspect with curl.
func NewJSONSerializer() IRPCSerializer {
	return jsonSerializerImpl{}
}

type jsonSerializerImpl struct{}

func (jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	*msg = common.Message{}
	return json.Unmarshal(b, msg)
}
