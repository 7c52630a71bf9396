package serializer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ValentinKolb/rgKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format:
//
//	1 byte MsgType | 2 bytes flags | present fields in flag order
//
// Strings and byte slices are prefixed with a 4 byte length, lists with a 4 byte count.
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey uint16 = 1 << iota
	hasValue
	hasKeys
	hasArgs
	hasValues
	hasFound
	hasCount
	hasNil
	hasOk
	hasCode
	hasKind
	hasErr
)

const (
	headerSize = 3
	// nilLen marks a nil element in Values, so that nil and empty values survive a round trip
	nilLen = math.MaxUint32
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	buf := make([]byte, headerSize, b.sizeBytes(msg))
	buf[0] = byte(msg.MsgType)

	var flags uint16
	if msg.Key != "" {
		flags |= hasKey
		buf = appendString(buf, msg.Key)
	}
	if msg.Value != nil {
		flags |= hasValue
		buf = appendBytes(buf, msg.Value)
	}
	if msg.Keys != nil {
		flags |= hasKeys
		buf = appendStrings(buf, msg.Keys)
	}
	if msg.Args != nil {
		flags |= hasArgs
		buf = appendStrings(buf, msg.Args)
	}
	if msg.Values != nil {
		flags |= hasValues
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(msg.Values)))
		for _, v := range msg.Values {
			if v == nil {
				buf = binary.BigEndian.AppendUint32(buf, nilLen)
				continue
			}
			buf = appendBytes(buf, v)
		}
	}
	if msg.Found != nil {
		flags |= hasFound
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(msg.Found)))
		for _, f := range msg.Found {
			buf = appendBool(buf, f)
		}
	}
	if msg.Count != 0 {
		flags |= hasCount
		buf = binary.BigEndian.AppendUint64(buf, uint64(msg.Count))
	}
	if msg.Nil {
		flags |= hasNil
	}
	if msg.Ok {
		flags |= hasOk
	}
	if msg.Code != 0 {
		flags |= hasCode
		buf = binary.BigEndian.AppendUint64(buf, msg.Code)
	}
	if msg.Kind != 0 {
		flags |= hasKind
		buf = append(buf, msg.Kind)
	}
	if msg.Err != "" {
		flags |= hasErr
		buf = appendString(buf, msg.Err)
	}

	// Set flags after knowing which fields are present
	binary.BigEndian.PutUint16(buf[1:headerSize], flags)
	return buf, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for message header")
	}

	flags := binary.BigEndian.Uint16(data[1:headerSize])
	r := reader{data: data, pos: headerSize}

	*msg = common.Message{MsgType: common.MessageType(data[0])}

	if flags&hasKey != 0 {
		msg.Key = r.readString("key")
	}
	if flags&hasValue != 0 {
		msg.Value = r.readBytes("value")
	}
	if flags&hasKeys != 0 {
		msg.Keys = r.readStrings("keys")
	}
	if flags&hasArgs != 0 {
		msg.Args = r.readStrings("args")
	}
	if flags&hasValues != 0 {
		n := r.count("values")
		msg.Values = make([][]byte, 0, n)
		for i := 0; i < n && r.err == nil; i++ {
			msg.Values = append(msg.Values, r.readBytes("values"))
		}
	}
	if flags&hasFound != 0 {
		n := r.count("found")
		msg.Found = make([]bool, 0, n)
		for i := 0; i < n; i++ {
			p := r.next(1, "found")
			if p == nil {
				break
			}
			msg.Found = append(msg.Found, p[0] != 0)
		}
	}
	if flags&hasCount != 0 {
		if p := r.next(8, "count"); p != nil {
			msg.Count = int64(binary.BigEndian.Uint64(p))
		}
	}
	msg.Nil = flags&hasNil != 0
	msg.Ok = flags&hasOk != 0
	if flags&hasCode != 0 {
		if p := r.next(8, "code"); p != nil {
			msg.Code = binary.BigEndian.Uint64(p)
		}
	}
	if flags&hasKind != 0 {
		if p := r.next(1, "kind"); p != nil {
			msg.Kind = p[0]
		}
	}
	if flags&hasErr != 0 {
		msg.Err = r.readString("err")
	}

	return r.err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	size := headerSize

	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Keys != nil {
		size += 4
		for _, k := range msg.Keys {
			size += 4 + len(k)
		}
	}
	if msg.Args != nil {
		size += 4
		for _, a := range msg.Args {
			size += 4 + len(a)
		}
	}
	if msg.Values != nil {
		size += 4
		for _, v := range msg.Values {
			size += 4 + len(v)
		}
	}
	if msg.Found != nil {
		size += 4 + len(msg.Found)
	}
	if msg.Count != 0 {
		size += 8
	}
	if msg.Code != 0 {
		size += 8
	}
	if msg.Kind != 0 {
		size += 1
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}
	return size
}

func appendBytes(buf, b []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendStrings(buf []byte, list []string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(list)))
	for _, s := range list {
		buf = appendString(buf, s)
	}
	return buf
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// reader walks a serialized message. After the first error all reads return zero values.
type reader struct {
	data []byte
	pos  int
	err  error
}

// next returns the next n bytes, or nil if the data is too short
func (r *reader) next(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("data too short for %s", field)
		return nil
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n
	return p
}

func (r *reader) readUint32(field string) uint32 {
	p := r.next(4, field)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint32(p)
}

// count reads a list length and rejects counts that cannot fit into the remaining data
func (r *reader) count(field string) int {
	n := int(r.readUint32(field))
	if r.err == nil && n > len(r.data)-r.pos {
		r.err = fmt.Errorf("invalid %s count %d", field, n)
		return 0
	}
	return n
}

// readBytes reads a length prefixed byte slice. The result is a copy and never aliases data.
func (r *reader) readBytes(field string) []byte {
	l := r.readUint32(field)
	if r.err != nil || l == nilLen {
		return nil
	}
	p := r.next(int(l), field)
	if p == nil {
		return nil
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out
}

func (r *reader) readString(field string) string {
	l := r.readUint32(field)
	if r.err != nil {
		return ""
	}
	return string(r.next(int(l), field))
}

func (r *reader) readStrings(field string) []string {
	n := r.count(field)
	list := make([]string, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		list = append(list, r.readString(field))
	}
	return list
}
