package common

import (
	"crypto/rand"
	"math/big"
)

const alphanumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MakeRandAlphanumString generates a random alphanumeric string of the given
// length using crypto/rand. It returns an error if the random number
// generator fails.
func MakeRandAlphanumString(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(alphanumChars)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphanumChars[n.Int64()]
	}

	return string(b), nil
}
