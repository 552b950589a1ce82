package serializer

import "encoding/json"

// JSONSerializer is the default Serializer, adapted from parser.JSONParser: same
// encoding/json round trip, now wrapped so failures report the shared
// errkind.Serialization kind instead of a bare encoding/json error.
type JSONSerializer struct{}

// NewJSON returns a ready-to-use JSON Serializer.
func NewJSON() *JSONSerializer { return &JSONSerializer{} }

func (JSONSerializer) Encode(value any) ([]byte, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, errSerialization("json encode", err)
	}
	return b, nil
}

func (JSONSerializer) Decode(data []byte, typeTag any) (any, error) {
	if err := json.Unmarshal(data, typeTag); err != nil {
		return nil, errSerialization("json decode", err)
	}
	return typeTag, nil
}
