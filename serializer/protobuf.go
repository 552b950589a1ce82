package serializer

import (
	"google.golang.org/protobuf/proto"
)

// ProtoSerializer is an alternate wire format, adapted from parser.PbParser:
// values must implement proto.Message. Useful when a cache or queue carries
// protobuf-native payloads instead of plain structs.
type ProtoSerializer struct{}

// NewProto returns a ready-to-use protobuf Serializer.
func NewProto() *ProtoSerializer { return &ProtoSerializer{} }

func (ProtoSerializer) Encode(value any) ([]byte, error) {
	m, ok := value.(proto.Message)
	if !ok {
		return nil, errSerialization("proto encode", errNotProtoMessage(value))
	}
	b, err := proto.Marshal(m)
	if err != nil {
		return nil, errSerialization("proto encode", err)
	}
	return b, nil
}

func (ProtoSerializer) Decode(data []byte, typeTag any) (any, error) {
	m, ok := typeTag.(proto.Message)
	if !ok {
		return nil, errSerialization("proto decode", errNotProtoMessage(typeTag))
	}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, errSerialization("proto decode", err)
	}
	return m, nil
}

type notProtoMessageError struct{ value any }

func (e *notProtoMessageError) Error() string {
	return "value does not implement proto.Message"
}

func errNotProtoMessage(value any) error {
	return &notProtoMessageError{value: value}
}
