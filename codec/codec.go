package codec

// Codec composes an optional compressor and an optional crypter into a single
// Encode/Decode pipeline that providers/redis clients opt into through
// WithCodec. Neither the Cache Client nor Queue contracts in spec.md mandate
// this — serialization is left opaque (spec.md §6) — but the teacher already
// carries both halves (compressor, crypter) as disconnected packages, so this is
// the concrete home that plug gets.
//
// Pipeline order: Encode compresses then encrypts; Decode decrypts then
// decompresses (the inverse). Either stage can be NoneCompressor / a nil Crypter
// to opt out.
type Codec struct {
	compressor Compressor
	crypter    Crypter
}

// Option configures a Codec at construction time.
type Option func(*Codec)

// WithCompressor selects the compression stage. Defaults to NoneCompressor.
func WithCompressor(c Compressor) Option {
	return func(codec *Codec) { codec.compressor = c }
}

// WithCrypter selects the encryption stage. Defaults to no encryption.
func WithCrypter(c Crypter) Option {
	return func(codec *Codec) { codec.crypter = c }
}

// New builds a Codec. With no options it is the identity pipeline.
func New(opts ...Option) *Codec {
	c := &Codec{compressor: NoneCompressor{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode runs the compress-then-encrypt pipeline over raw bytes (typically the
// output of a serializer.Serializer.Encode call).
func (c *Codec) Encode(raw []byte) ([]byte, error) {
	out, err := c.compressor.Compress(raw)
	if err != nil {
		return nil, err
	}
	if c.crypter != nil {
		out, err = c.crypter.Encrypt(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode runs the decrypt-then-decompress pipeline, the inverse of Encode.
func (c *Codec) Decode(stored []byte) ([]byte, error) {
	in := stored
	var err error
	if c.crypter != nil {
		in, err = c.crypter.Decrypt(in)
		if err != nil {
			return nil, err
		}
	}
	return c.compressor.Decompress(in)
}
