package pairwise

import (
	"context"
	"errors"
	"testing"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/findy-network/findy-cloud-agent/agent/actor"
	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

// senderCodec is a Codec without encryption. Every envelope comes from the
// sender verkey.
type senderCodec struct {
	sender string
}

func (senderCodec) Bundle(_ context.Context, _ int, _, _ string, msgs []a2a.Msg) ([]byte, error) {
	return a2a.Bundle(msgs)
}

func (c senderCodec) Unbundle(_ context.Context, _ int, _ string, data []byte) (string, []a2a.Msg, error) {
	msgs, err := a2a.Unbundle(data)
	return c.sender, msgs, err
}

func testConfig() Config {
	return Config{
		Wallet:              1,
		OwnerDID:            "OwnerDID",
		OwnerVerkey:         "OwnerVerkey",
		AgentDID:            "AgentDID",
		UserPairwiseDID:     "UserDID",
		UserPairwiseVerkey:  "UserVerkey",
		AgentPairwiseDID:    "ConnDID",
		AgentPairwiseVerkey: "ConnVerkey",
	}
}

func bundle(t *testing.T, msgs ...a2a.Msg) []byte {
	t.Helper()
	data, err := a2a.Bundle(msgs)
	require.NoError(t, err)
	return data
}

func TestMetadata(t *testing.T) {
	md := NewMetadata("AgentDID")
	assert.True(t, IsConnection(md, "AgentDID"))
	assert.False(t, IsConnection(md, "OtherDID"))
	assert.False(t, IsConnection("{}", "AgentDID"))
	assert.False(t, IsConnection("not json", "AgentDID"))
}

func TestCreate(t *testing.T) {
	r := router.New()
	c, err := Create(ctx, testConfig(), r, senderCodec{sender: "UserVerkey"})
	require.NoError(t, err)

	h, ok := r.Route("ConnDID")
	require.True(t, ok)
	assert.Same(t, c, h)
	assert.Equal(t, "ConnDID", c.DID())
	assert.Equal(t, testConfig(), c.Config())

	_, err = Create(ctx, testConfig(), r, senderCodec{})
	assert.ErrorIs(t, err, e2.ErrStateConflict)
	assert.Contains(t, err.Error(), "route-register")
	h, _ = r.Route("ConnDID")
	assert.Same(t, c, h)

	c.Stop()
	assert.Zero(t, r.Count())
	_, err = c.HandleEnvelope(ctx, bundle(t, &a2a.Forward{Fwd: "X"}))
	assert.ErrorIs(t, err, actor.ErrStopped)
	assert.ErrorIs(t, err, e2.ErrNotFound)
}

func TestHandleEnvelope(t *testing.T) {
	r := router.New()
	require.NoError(t, r.AddRoute("EchoDID", router.HandlerFunc(
		func(_ context.Context, data []byte) ([]byte, error) {
			return append([]byte("echo:"), data...), nil
		})))

	tests := []struct {
		name     string
		sender   string
		msgs     []a2a.Msg
		want     []byte
		wantKind error
		wantErr  error
	}{
		{"forward", "UserVerkey",
			[]a2a.Msg{&a2a.Forward{Fwd: "EchoDID", Msg: []byte("inner")}},
			[]byte("echo:inner"), nil, nil},
		{"takes last", "UserVerkey",
			[]a2a.Msg{
				&a2a.CreateKey{ForDID: "D", ForDIDVerKey: "V"},
				&a2a.Forward{Fwd: "EchoDID", Msg: []byte("last")},
			},
			[]byte("echo:last"), nil, nil},
		{"sender mismatch", "OtherVerkey",
			[]a2a.Msg{&a2a.Forward{Fwd: "EchoDID"}},
			nil, e2.ErrCrypto, nil},
		{"unsupported", "UserVerkey",
			[]a2a.Msg{&a2a.CreateKey{ForDID: "D", ForDIDVerKey: "V"}},
			nil, e2.ErrProtocol, e2.ErrUnsupportedMessage},
		{"empty bundle", "UserVerkey",
			nil, nil, e2.ErrProtocol, nil},
		{"unknown route", "UserVerkey",
			[]a2a.Msg{&a2a.Forward{Fwd: "NoSuchDID"}},
			nil, e2.ErrNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.AgentPairwiseDID = "Conn_" + tt.name
			c, err := Create(ctx, cfg, r, senderCodec{sender: tt.sender})
			require.NoError(t, err)
			defer c.Stop()

			got, err := c.HandleEnvelope(ctx, bundle(t, tt.msgs...))
			if tt.wantKind != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantKind)
				if tt.wantErr != nil {
					assert.True(t, errors.Is(err, tt.wantErr))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
