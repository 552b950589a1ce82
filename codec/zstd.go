package codec

import (
	"github.com/cockroachdb/errors"
	ddzstd "github.com/DataDog/zstd"
	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor compresses with klauspost/compress's streaming zstd encoder,
// adapted from compressor.ZstdCompressor. Rejects payloads compression didn't
// actually shrink so callers don't pay the decompress cost for nothing.
type ZstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd builds a reusable zstd compressor. The encoder/decoder pair is safe for
// concurrent use across multiple Compress/Decompress calls.
func NewZstd() (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "codec: zstd encoder init")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "codec: zstd decoder init")
	}
	return &ZstdCompressor{encoder: enc, decoder: dec}, nil
}

func (z *ZstdCompressor) Compress(src []byte) ([]byte, error) {
	compressed := z.encoder.EncodeAll(src, nil)
	if len(compressed) >= len(src) {
		return nil, ErrNotShrunk
	}
	return compressed, nil
}

func (z *ZstdCompressor) Decompress(src []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, errors.Wrap(err, "codec: zstd decode")
	}
	return out, nil
}

// DdZstdCompressor uses DataDog's cgo zstd binding instead of the pure-Go
// klauspost implementation, adapted from compressor.ZstdCompressor's
// CompressWithDdzstd/DecompressWithDdzstd methods. Kept as a distinct strategy
// rather than folded into ZstdCompressor: the two libraries have different
// buffer-sizing contracts (ddzstd needs CompressBound, klauspost doesn't).
type DdZstdCompressor struct{}

func (DdZstdCompressor) Compress(src []byte) ([]byte, error) {
	buf := make([]byte, ddzstd.CompressBound(len(src)))
	out, err := ddzstd.CompressLevel(buf, src, ddzstd.DefaultCompression)
	if err != nil {
		return nil, errors.Wrap(err, "codec: ddzstd compress")
	}
	if len(out) >= len(src) {
		return nil, ErrNotShrunk
	}
	return out, nil
}

func (DdZstdCompressor) Decompress(src []byte) ([]byte, error) {
	out, err := ddzstd.Decompress(nil, src)
	if err != nil {
		return nil, errors.Wrap(err, "codec: ddzstd decompress")
	}
	return out, nil
}
