// Package rand provides the small random-value helpers the rest of this
// module builds lease-token suffixes and Continuous-mode interval jitter from.
// It wraps crypto/rand and math/rand rather than being a cryptography
// primitive in its own right.
package rand

import (
	"crypto/rand"

	"infracore/errkind"
)

// Letters is the URL-safe alphanumeric alphabet random tokens are drawn from.
const Letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateRandomBytes returns a random string of length characters drawn from
// Letters, suitable as a lease token or unique suffix (queue/memory uses it
// as the random suffix of each lease token).
func GenerateRandomBytes(length int) (string, error) {
	if length <= 0 {
		return "", errkind.Newf(errkind.InvalidArgument, "rand: length must be a positive integer, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", errkind.Wrap(errkind.Transport, err, "rand: failed to read from the system entropy source")
	}

	for i := range buf {
		buf[i] = Letters[int(buf[i])%len(Letters)]
	}

	return string(buf), nil
}
