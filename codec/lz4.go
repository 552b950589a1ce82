package codec

import (
	"bytes"

	"github.com/pierrec/lz4"
)

// Lz4Compressor is a faster, lower-ratio alternative to zstd, adapted verbatim
// in shape from compressor.Lz4Compressor.
type Lz4Compressor struct{}

func (Lz4Compressor) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, ErrIncompressible
	}
	if err := w.Close(); err != nil {
		return nil, ErrIncompressible
	}

	return buf.Bytes(), nil
}

func (Lz4Compressor) Decompress(src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
