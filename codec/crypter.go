package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"

	"github.com/cockroachdb/errors"
)

// Crypter is the optional encryption stage of the codec pipeline, adapted from
// crypter.Crypter/crypter.Aes.
type Crypter interface {
	Encrypt(plainText []byte) ([]byte, error)
	Decrypt(cipherText []byte) ([]byte, error)
}

// AESCrypter implements Crypter with AES-CBC and PKCS#7 padding.
type AESCrypter struct {
	key []byte
	iv  []byte
}

// NewAES validates key/iv lengths up front (16/24/32-byte key, 16-byte IV) so
// construction fails fast instead of on the first Encrypt call.
func NewAES(key, iv []byte) (*AESCrypter, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, errors.Newf("codec: invalid AES key length %d; must be 16, 24, or 32 bytes", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.Newf("codec: invalid AES IV length %d; must be %d bytes", len(iv), aes.BlockSize)
	}
	return &AESCrypter{key: key, iv: iv}, nil
}

func (a *AESCrypter) Encrypt(plainText []byte) ([]byte, error) {
	if len(plainText) == 0 {
		return nil, errors.New("codec: encrypt input is empty")
	}

	padded := pkcs7Pad(plainText, aes.BlockSize)

	block, err := aes.NewCipher(a.key)
	if err != nil {
		return nil, errors.Wrap(err, "codec: aes cipher init")
	}

	cipherText := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, a.iv).CryptBlocks(cipherText, padded)
	return cipherText, nil
}

func (a *AESCrypter) Decrypt(cipherText []byte) ([]byte, error) {
	if len(cipherText) == 0 {
		return nil, errors.New("codec: decrypt input is empty")
	}
	if len(cipherText)%aes.BlockSize != 0 {
		return nil, errors.New("codec: ciphertext is not block-aligned")
	}

	block, err := aes.NewCipher(a.key)
	if err != nil {
		return nil, errors.Wrap(err, "codec: aes cipher init")
	}

	plainText := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, a.iv).CryptBlocks(plainText, cipherText)
	return pkcs7Unpad(plainText)
}

func pkcs7Pad(src []byte, blockSize int) []byte {
	padLen := blockSize - len(src)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(src, padding...)
}

func pkcs7Unpad(src []byte) ([]byte, error) {
	length := len(src)
	if length == 0 {
		return nil, errors.New("codec: cannot unpad empty input")
	}
	padLen := int(src[length-1])
	if padLen == 0 || padLen > length {
		return nil, errors.New("codec: invalid padding")
	}
	for _, b := range src[length-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("codec: invalid padding")
		}
	}
	return src[:length-padLen], nil
}
