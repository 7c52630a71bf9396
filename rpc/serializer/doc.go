// Package serializer converts common.Message values to bytes and back.
//
// Three implementations of IRPCSerializer are provided:
//
//   - Binary: a compact custom format. A three byte header (message type and a
//     16 bit field mask) is followed by the fields that are set, each string or
//     byte slice prefixed with its length. Nil and empty slices are kept apart.
//     This is the default.
//
//   - JSON: readable on the wire, handy for debugging with curl.
//
//   - GOB: Go's gob encoding. It is kept for compatibility and is the slowest
//     of the three.
//
// All serializers are stateless and safe for concurrent use.
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(msg)
//	...
//	var received common.Message
//	err = s.Deserialize(data, &received)
package serializer
