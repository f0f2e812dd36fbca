package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// base58 alphabet, no look-alike characters
const randAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// RandString returns a random string of length n built with crypto/rand. It's
// used for wallet IDs and passphrases.
func RandString(n int) string {
	max := big.NewInt(int64(len(randAlphabet)))
	b := make([]byte, n)
	for i := range b {
		r, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("cannot read random")
		}
		b[i] = randAlphabet[r.Int64()]
	}
	return string(b)
}

// UUID generates new UUID with Go's crypto package, and returns value as
// string.
func UUID() string {
	return uuid.New().String()
}
