package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IdentityRoundTrip(t *testing.T) {
	c := New()
	payload := []byte("hello infracore")

	encoded, err := c.Encode(payload)
	require.NoError(t, err)
	assert.Equal(t, payload, encoded)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestCodec_ZstdRoundTrip(t *testing.T) {
	z, err := NewZstd()
	require.NoError(t, err)
	c := New(WithCompressor(z))

	payload := []byte(strings.Repeat("compressible-payload-", 64))

	encoded, err := c.Encode(payload)
	require.NoError(t, err)
	assert.Less(t, len(encoded), len(payload))

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestCodec_CompressThenEncryptRoundTrip(t *testing.T) {
	z, err := NewZstd()
	require.NoError(t, err)
	crypter, err := NewAES([]byte("0123456789abcdef"), []byte("abcdef0123456789"))
	require.NoError(t, err)

	c := New(WithCompressor(z), WithCrypter(crypter))
	payload := []byte(strings.Repeat("secret-payload-", 64))

	encoded, err := c.Encode(payload)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "secret-payload")

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestAESCrypter_RejectsBadKeyLength(t *testing.T) {
	_, err := NewAES([]byte("short"), []byte("abcdef0123456789"))
	require.Error(t, err)
}
