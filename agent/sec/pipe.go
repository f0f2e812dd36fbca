package sec

import (
	"context"
	"errors"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var ErrSenderMismatch = errors.New("sender mismatch")

// Pipe is a secure way to transport data between a pairwise connection. In is
// our verkey and Out is the other end's verkey, both in the same wallet.
type Pipe struct {
	Codec  Codec
	Wallet int
	In     string
	Out    string
}

// Pack bundles and encrypts the messages from In to Out.
func (p Pipe) Pack(ctx context.Context, msgs ...a2a.Msg) ([]byte, error) {
	return p.Codec.Bundle(ctx, p.Wallet, p.In, p.Out, msgs)
}

// Unpack decrypts the data sent to In and verifies it's from Out.
func (p Pipe) Unpack(ctx context.Context, data []byte) (msgs []a2a.Msg, err error) {
	defer err2.Handle(&err, "pipe unpack")

	sender, msgs := try.To2(p.Codec.Unbundle(ctx, p.Wallet, p.In, data))
	if sender != p.Out {
		return nil, ErrSenderMismatch
	}
	return msgs, nil
}
