package ssi

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"

	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	"github.com/teserakt-io/golang-ed25519/extra25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	seedLen  = ed25519.SeedSize
	didBytes = 16
)

var (
	ErrBadVerkey = errors.New("invalid verkey")
	ErrBadSeed   = errors.New("seed must be 32 bytes")
)

// newSeed returns a new random seed or the given one.
func newSeed(seed string) (s []byte, err error) {
	if seed == "" {
		s = make([]byte, seedLen)
		_, err = rand.Read(s)
		return s, err
	}
	if len(seed) != seedLen {
		return nil, ErrBadSeed
	}
	return []byte(seed), nil
}

// DIDFromVerkey returns the indy style DID of the verkey: the base58 encoded
// first 16 bytes of the public key.
func DIDFromVerkey(verkey string) (did string, err error) {
	defer err2.Handle(&err, "did from verkey")

	pub := try.To1(base58.Decode(verkey))
	if len(pub) != ed25519.PublicKeySize {
		return "", ErrBadVerkey
	}
	return base58.Encode(pub[:didBytes]), nil
}

func verkeyOf(seed []byte) string {
	priv := ed25519.NewKeyFromSeed(seed)
	return base58.Encode(priv.Public().(ed25519.PublicKey))
}

func curvePublic(verkey string) (pub *[32]byte, err error) {
	defer err2.Handle(&err, "verkey to curve25519")

	edPub := try.To1(base58.Decode(verkey))
	if len(edPub) != ed25519.PublicKeySize {
		return nil, ErrBadVerkey
	}
	var in, out [32]byte
	copy(in[:], edPub)
	if !extra25519.PublicKeyToCurve25519(&out, &in) {
		return nil, ErrBadVerkey
	}
	return &out, nil
}

func curvePrivate(seed []byte) *[32]byte {
	assert.Equal(len(seed), seedLen)

	var in [64]byte
	var out [32]byte
	copy(in[:], ed25519.NewKeyFromSeed(seed))
	extra25519.PrivateKeyToCurve25519(&out, &in)
	return &out
}

// SealTo encrypts msg anonymously to the owner of the verkey. Only the wallet
// holding the private key can open it with SealOpen.
func SealTo(verkey string, msg []byte) (ct []byte, err error) {
	defer err2.Handle(&err, "seal")

	pub := try.To1(curvePublic(verkey))
	return box.SealAnonymous(nil, msg, pub, rand.Reader)
}
