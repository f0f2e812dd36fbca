/*
Package sec offers the envelope codec which encrypts A2A message bundles
between two verkeys, and Pipe, the secure channel of a pairwise connection.

The envelope is a DIDComm v1 style authcrypt JWM:

	{"protected": b64(header), "iv": b64, "ciphertext": b64, "tag": b64}

The content is encrypted with XChaCha20-Poly1305 by a random content key, and
the protected header is its additional data. The content key is authcrypted
with nacl box from the sender to the recipient, and the sender's verkey is
anonymously sealed to the recipient.
*/
package sec

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/findy-network/findy-cloud-agent/agent/ssi"
	"github.com/findy-network/findy-cloud-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	jwmType  = "JWM/1.0"
	algAuth  = "Authcrypt"
	encXChaC = "xchacha20poly1305_ietf"
)

var (
	ErrNotRecipient = errors.New("not a recipient of the envelope")
	ErrBadEnvelope  = errors.New("malformed envelope")
)

// Codec bundles and encrypts A2A messages, and reverses it.
type Codec interface {
	Bundle(ctx context.Context, wallet int, myVerkey, theirVerkey string,
		msgs []a2a.Msg) ([]byte, error)
	Unbundle(ctx context.Context, wallet int, myVerkey string,
		data []byte) (senderVerkey string, msgs []a2a.Msg, err error)
}

type envelope struct {
	Protected  string `json:"protected"`
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Tag        string `json:"tag"`
}

type protected struct {
	Enc        string      `json:"enc"`
	Typ        string      `json:"typ"`
	Alg        string      `json:"alg"`
	Recipients []recipient `json:"recipients"`
}

type recipient struct {
	EncryptedKey string `json:"encrypted_key"`
	Header       header `json:"header"`
}

type header struct {
	KID    string `json:"kid"`
	Sender string `json:"sender"`
	IV     string `json:"iv"`
}

// Authcrypt is the Codec which uses the wallet's crypto.
type Authcrypt struct {
	Crypto ssi.Crypto
}

func (a Authcrypt) Bundle(
	ctx context.Context,
	wallet int,
	myVerkey, theirVerkey string,
	msgs []a2a.Msg,
) (
	data []byte,
	err error,
) {
	defer err2.Handle(&err, "authcrypt bundle")

	plain := try.To1(a2a.Bundle(msgs))

	cek := make([]byte, chacha20poly1305.KeySize)
	try.To1(rand.Read(cek))
	encKey, cekNonce := try.To2(a.Crypto.AuthBox(ctx, wallet, myVerkey,
		theirVerkey, cek))
	sender := try.To1(ssi.SealTo(theirVerkey, []byte(myVerkey)))

	hdr := try.To1(json.Marshal(protected{
		Enc: encXChaC,
		Typ: jwmType,
		Alg: algAuth,
		Recipients: []recipient{{
			EncryptedKey: utils.EncodeB64(encKey),
			Header: header{
				KID:    theirVerkey,
				Sender: utils.EncodeB64(sender),
				IV:     utils.EncodeB64(cekNonce),
			},
		}},
	}))
	prot := utils.EncodeB64(hdr)

	aead := try.To1(chacha20poly1305.NewX(cek))
	iv := make([]byte, aead.NonceSize())
	try.To1(rand.Read(iv))
	sealed := aead.Seal(nil, iv, plain, []byte(prot))
	tagAt := len(sealed) - aead.Overhead()

	glog.V(5).Infof("bundle %d msg(s) %s -> %s", len(msgs), myVerkey, theirVerkey)
	return json.Marshal(envelope{
		Protected:  prot,
		IV:         utils.EncodeB64(iv),
		Ciphertext: utils.EncodeB64(sealed[:tagAt]),
		Tag:        utils.EncodeB64(sealed[tagAt:]),
	})
}

func (a Authcrypt) Unbundle(
	ctx context.Context,
	wallet int,
	myVerkey string,
	data []byte,
) (
	senderVerkey string,
	msgs []a2a.Msg,
	err error,
) {
	defer err2.Handle(&err, "authcrypt unbundle")

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, ErrBadEnvelope
	}
	var prot protected
	try.To(json.Unmarshal(try.To1(utils.DecodeB64(env.Protected)), &prot))
	if prot.Alg != algAuth {
		return "", nil, ErrBadEnvelope
	}

	var rcp *recipient
	for i := range prot.Recipients {
		if prot.Recipients[i].Header.KID == myVerkey {
			rcp = &prot.Recipients[i]
			break
		}
	}
	if rcp == nil {
		return "", nil, ErrNotRecipient
	}

	sender := try.To1(a.Crypto.SealOpen(ctx, wallet, myVerkey,
		try.To1(utils.DecodeB64(rcp.Header.Sender))))
	senderVerkey = string(sender)

	cek := try.To1(a.Crypto.AuthBoxOpen(ctx, wallet, myVerkey, senderVerkey,
		try.To1(utils.DecodeB64(rcp.EncryptedKey)),
		try.To1(utils.DecodeB64(rcp.Header.IV))))

	aead := try.To1(chacha20poly1305.NewX(cek))
	iv := try.To1(utils.DecodeB64(env.IV))
	if len(iv) != aead.NonceSize() {
		return "", nil, ErrBadEnvelope
	}
	sealed := append(try.To1(utils.DecodeB64(env.Ciphertext)),
		try.To1(utils.DecodeB64(env.Tag))...)
	plain := try.To1(aead.Open(nil, iv, sealed, []byte(env.Protected)))

	msgs = try.To1(a2a.Unbundle(plain))
	glog.V(5).Infof("unbundle %d msg(s) %s -> %s", len(msgs), senderVerkey, myVerkey)
	return senderVerkey, msgs, nil
}
