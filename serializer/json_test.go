package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/errkind"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONSerializer_RoundTrip(t *testing.T) {
	s := NewJSON()

	data, err := s.Encode(widget{Name: "bolt", Count: 3})
	require.NoError(t, err)

	out, err := s.Decode(data, &widget{})
	require.NoError(t, err)

	got, ok := out.(*widget)
	require.True(t, ok)
	assert.Equal(t, "bolt", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestJSONSerializer_DecodeFailureIsSerializationKind(t *testing.T) {
	s := NewJSON()
	_, err := s.Decode([]byte("not json"), &widget{})
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.Serialization))
}
