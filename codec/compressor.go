// Package codec composes optional compression and encryption into the payload
// pipeline a providers/redis client can opt into (redis.WithCodec). Serialization
// itself stays the serializer package's job (spec.md §6): codec only transforms
// the bytes a Serializer already produced.
package codec

import "github.com/cockroachdb/errors"

// Compressor is the compression contract, adapted from compressor.Compresser.
type Compressor interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// ErrIncompressible means the compressor could not process the input at all.
var ErrIncompressible = errors.New("codec: compress error")

// ErrNotShrunk means compression ran but did not reduce the payload size.
var ErrNotShrunk = errors.New("codec: compressed size not reduced")

// NoneCompressor is the identity compressor, the default when a client doesn't
// opt into compression.
type NoneCompressor struct{}

func (NoneCompressor) Compress(src []byte) ([]byte, error)   { return src, nil }
func (NoneCompressor) Decompress(src []byte) ([]byte, error) { return src, nil }
