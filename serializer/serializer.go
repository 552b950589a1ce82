// Package serializer is the opaque codec boundary between in-memory values and the
// byte payloads the cache and queue contracts store. Core components only ever
// call Encode/Decode; everything about the wire format lives behind this
// interface (spec.md §2.2, §6).
package serializer

import "infracore/errkind"

// Serializer is the plug-in contract. Decode receives a type tag so implementations
// that need reflection or a registry (protobuf) can reconstruct the right type.
type Serializer interface {
	// Encode converts a value into its wire representation.
	Encode(value any) ([]byte, error)
	// Decode reconstructs a value of the shape described by typeTag from data.
	// typeTag is an instance of the target type (often a nil/zero pointer), used
	// the same way parser.PbParser used its proto.Message argument.
	Decode(data []byte, typeTag any) (any, error)
}

// errSerialization wraps an underlying encode/decode failure with the shared
// errkind.Serialization tag so cachekit can apply try-get-mode semantics
// (spec.md §7: "try-get mode converts this to absent").
func errSerialization(op string, err error) error {
	return errkind.Wrap(errkind.Serialization, err, op)
}
