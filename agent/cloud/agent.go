package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/findy-network/findy-cloud-agent/agent/actor"
	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/findy-network/findy-cloud-agent/agent/pairwise"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/findy-network/findy-cloud-agent/agent/sec"
	"github.com/findy-network/findy-cloud-agent/agent/ssi"
	"github.com/findy-network/findy-cloud-agent/agent/utils"
	"github.com/golang/glog"
)

const walletIDLen = 10

// AgentConfig is everything needed to restore the agent later. It's returned
// by Create.
type AgentConfig struct {
	DID                string                 `json:"did"`
	OwnerDID           string                 `json:"owner_did"`
	OwnerVerkey        string                 `json:"owner_verkey"`
	WalletID           string                 `json:"wallet_id"`
	WalletPassphrase   string                 `json:"wallet_passphrase,omitempty"`
	ForwardAgentDetail a2a.ForwardAgentDetail `json:"forward_agent_detail"`
}

// WalletStorageConfig selects the wallet storage of the agent. Config and
// Credentials are storage type specific JSON.
type WalletStorageConfig struct {
	XType       string          `json:"xtype,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	Credentials json.RawMessage `json:"credentials,omitempty"`
}

// UnmarshalJSON accepts the storage type as "type" as well.
func (w *WalletStorageConfig) UnmarshalJSON(data []byte) error {
	type plain WalletStorageConfig
	var aux struct {
		plain
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WalletStorageConfig(aux.plain)
	if w.XType == "" {
		w.XType = aux.Type
	}
	return nil
}

func (w WalletStorageConfig) wallet(id, passphrase string) (ssi.Config, ssi.Credentials) {
	return ssi.Config{
			ID:            id,
			StorageType:   w.XType,
			StorageConfig: w.Config,
		}, ssi.Credentials{
			Key:                passphrase,
			StorageCredentials: w.Credentials,
		}
}

// AccessTracker is told about the wallet writes, e.g. for backups.
type AccessTracker interface {
	Touch(id string, wallet int)
}

// Env is the collaborators of the agent. If Codec is nil the authcrypt codec
// of the Provider is used. Access is optional.
type Env struct {
	Router   router.Routes
	Provider ssi.Provider
	Codec    sec.Codec
	Access   AccessTracker
}

func (e Env) codec() sec.Codec {
	if e.Codec == nil {
		return sec.Authcrypt{Crypto: e.Provider}
	}
	return e.Codec
}

/*
Agent is the cloud agent of an offline owner. It owns its wallet and its DID,
it's registered to the router by the DID, and it processes the envelopes sent
to it one at a time in its inbox. The agent answers CreateKey by provisioning
an agent connection, and it routes Forward messages to their recipients.
*/
type Agent struct {
	env   Env
	codec sec.Codec
	inbox *actor.Inbox

	wallet      int
	did         string
	verkey      string
	ownerDID    string
	ownerVerkey string
	fwd         a2a.ForwardAgentDetail
	walletID    string

	connsLk sync.Mutex
	conns   map[string]*pairwise.Connection
}

func newAgent(env Env, wallet int, did, verkey string, cfg AgentConfig) *Agent {
	return &Agent{
		env:         env,
		codec:       env.codec(),
		inbox:       actor.Start("agent:" + did),
		wallet:      wallet,
		did:         did,
		verkey:      verkey,
		ownerDID:    cfg.OwnerDID,
		ownerVerkey: cfg.OwnerVerkey,
		fwd:         cfg.ForwardAgentDetail,
		walletID:    cfg.WalletID,
		conns:       make(map[string]*pairwise.Connection),
	}
}

// Create provisions a new agent for the owner: a new wallet with random ID and
// passphrase, and a new DID in it. The agent is started and its route is
// registered before the config is returned. A failed step doesn't roll back
// the previous ones, only the started inbox is stopped.
func Create(
	ctx context.Context,
	env Env,
	ownerDID, ownerVerkey string,
	storage WalletStorageConfig,
	fwd a2a.ForwardAgentDetail,
) (
	cfg *AgentConfig,
	a *Agent,
	err error,
) {
	walletID := utils.RandString(walletIDLen)
	passphrase := utils.RandString(walletIDLen)
	wcfg, creds := storage.wallet(walletID, passphrase)

	glog.V(1).Infof("creating agent for owner %s, wallet: %s", ownerDID, walletID)

	if err = env.Provider.CreateWallet(ctx, wcfg, creds); err != nil {
		return nil, nil, e2.Wrap(e2.ResourceProvision, err, "wallet-create")
	}
	h, err := env.Provider.OpenWallet(ctx, wcfg, creds)
	if err != nil {
		return nil, nil, e2.Wrap(e2.ResourceProvision, err, "wallet-open")
	}
	did, verkey, err := env.Provider.CreateAndStoreDID(ctx, h, ssi.DIDOptions{})
	if err != nil {
		return nil, nil, e2.Wrap(e2.ResourceProvision, err, "did-create")
	}

	cfg = &AgentConfig{
		DID:                did,
		OwnerDID:           ownerDID,
		OwnerVerkey:        ownerVerkey,
		WalletID:           walletID,
		WalletPassphrase:   passphrase,
		ForwardAgentDetail: fwd,
	}
	a = newAgent(env, h, did, verkey, *cfg)
	if err = env.Router.AddRoute(did, a); err != nil {
		a.inbox.Stop()
		return nil, nil, e2.Wrap(e2.StateConflict, err, "route-register")
	}
	a.touch()
	glog.V(1).Infoln("agent created:", did)
	return cfg, a, nil
}

// Restore starts the agent of the config again: it opens the existing wallet,
// registers the agent's route and restores the agent connections found in
// the wallet. A DID already routed fails before the wallet is touched. On
// failure everything restore started is stopped and the wallet is closed.
func Restore(
	ctx context.Context,
	env Env,
	cfg AgentConfig,
	storage WalletStorageConfig,
) (
	a *Agent,
	err error,
) {
	if _, routed := env.Router.Route(cfg.DID); routed {
		return nil, e2.Wrap(e2.StateConflict,
			fmt.Errorf("route conflict: %s", cfg.DID), "route-register")
	}
	wcfg, creds := storage.wallet(cfg.WalletID, cfg.WalletPassphrase)

	h, err := env.Provider.OpenWallet(ctx, wcfg, creds)
	if err != nil {
		return nil, e2.Wrap(e2.ResourceProvision, err, "wallet-open")
	}
	verkey, err := env.Provider.KeyForLocalDID(ctx, h, cfg.DID)
	if err != nil {
		_ = env.Provider.CloseWallet(ctx, h)
		return nil, e2.Wrap(e2.ResourceProvision, err, "did-key")
	}

	a = newAgent(env, h, cfg.DID, verkey, cfg)
	if err = env.Router.AddRoute(cfg.DID, a); err != nil {
		a.inbox.Stop()
		_ = env.Provider.CloseWallet(ctx, h)
		return nil, e2.Wrap(e2.StateConflict, err, "route-register")
	}
	if err = a.restoreConnections(ctx); err != nil {
		a.Close(ctx)
		return nil, e2.Annotate(err, "restore connections")
	}
	glog.V(1).Infof("agent %s restored with %d connection(s)", cfg.DID,
		len(a.Connections()))
	return a, nil
}

func (a *Agent) restoreConnections(ctx context.Context) error {
	pws, err := a.env.Provider.ListPairwise(ctx, a.wallet)
	if err != nil {
		return e2.Wrap(e2.ResourceProvision, err, "pairwise-list")
	}
	for _, pw := range pws {
		if !pairwise.IsConnection(pw.Metadata, a.did) {
			continue
		}
		conn, err := pairwise.Create(ctx, a.connConfig(pw.TheirDID, pw.TheirVerkey,
			pw.MyDID, pw.MyVerkey), a.env.Router, a.codec)
		if err != nil {
			return err
		}
		a.addConn(conn)
	}
	return nil
}

// HandleEnvelope is the entry point of the agent. The envelope is processed in
// the agent's inbox after the previous ones.
func (a *Agent) HandleEnvelope(ctx context.Context, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.Settings.Timeout())
	defer cancel()

	return a.inbox.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return a.handleA2AMsg(ctx, data)
	})
}

func (a *Agent) handleA2AMsg(ctx context.Context, data []byte) ([]byte, error) {
	sender, msgs, err := a.codec.Unbundle(ctx, a.wallet, a.verkey, data)
	if err != nil {
		return nil, e2.Wrap(e2.Crypto, err, "decrypt")
	}
	if len(msgs) == 0 {
		return nil, e2.New(e2.Protocol, "empty bundle")
	}
	if len(msgs) > 1 {
		glog.V(3).Infof("agent %s: %d msgs in bundle, handling the last",
			a.did, len(msgs))
	}

	// only the last message of the bundle is handled
	switch m := msgs[len(msgs)-1].(type) {
	case *a2a.Forward:
		glog.V(3).Infof("agent %s forwards to %s", a.did, m.Fwd)
		return a.env.Router.RouteMessage(ctx, m.Fwd, m.Msg)
	default:
		return a.handleAgentMsg(ctx, sender, m)
	}
}

func (a *Agent) handleAgentMsg(ctx context.Context, sender string, msg a2a.Msg) ([]byte, error) {
	var (
		replies []a2a.Msg
		err     error
	)
	switch m := msg.(type) {
	case *a2a.CreateKey:
		replies, err = a.handleCreateKey(ctx, m)
		a.touch()
	default:
		return nil, e2.Unsupported(msg.Type())
	}
	if err != nil {
		return nil, err
	}

	data, err := a.codec.Bundle(ctx, a.wallet, a.verkey, sender, replies)
	if err != nil {
		return nil, e2.Wrap(e2.Crypto, err, "encrypt")
	}
	return data, nil
}

// handleCreateKey provisions an agent connection for the user's pairwise DID.
// The steps aren't atomic: a failure leaves the previous wallet writes in
// place.
func (a *Agent) handleCreateKey(ctx context.Context, msg *a2a.CreateKey) ([]a2a.Msg, error) {
	glog.V(3).Infof("agent %s: create key for %s", a.did, msg.ForDID)

	exists, err := a.env.Provider.PairwiseExists(ctx, a.wallet, msg.ForDID)
	if err != nil {
		return nil, e2.Wrap(e2.ResourceProvision, err, "pairwise-check")
	}
	if exists {
		return nil, e2.Wrap(e2.StateConflict, ssi.ErrPairwiseExists, "pairwise-check")
	}

	err = a.env.Provider.StoreTheirDID(ctx, a.wallet, ssi.TheirDID{
		DID:    msg.ForDID,
		Verkey: msg.ForDIDVerKey,
	})
	if err != nil {
		return nil, e2.Wrap(e2.ResourceProvision, err, "did-store")
	}

	pwDID, pwVerkey, err := a.env.Provider.CreateAndStoreDID(ctx, a.wallet,
		ssi.DIDOptions{})
	if err != nil {
		return nil, e2.Wrap(e2.ResourceProvision, err, "did-create")
	}

	err = a.env.Provider.CreatePairwise(ctx, a.wallet, msg.ForDID, pwDID,
		pairwise.NewMetadata(a.did))
	if err != nil {
		return nil, e2.Wrap(e2.ResourceProvision, err, "pairwise-create")
	}

	conn, err := pairwise.Create(ctx, a.connConfig(msg.ForDID, msg.ForDIDVerKey,
		pwDID, pwVerkey), a.env.Router, a.codec)
	if err != nil {
		return nil, e2.Annotate(err, "connection-create")
	}
	a.addConn(conn)

	return []a2a.Msg{&a2a.KeyCreated{
		WithPairwiseDID:       pwDID,
		WithPairwiseDIDVerKey: pwVerkey,
	}}, nil
}

// touch marks the wallet written. It's called also after the failed
// provisioning steps because they may leave writes behind.
func (a *Agent) touch() {
	if a.env.Access != nil {
		a.env.Access.Touch(a.walletID, a.wallet)
	}
}

func (a *Agent) connConfig(userDID, userVerkey, agentDID, agentVerkey string) pairwise.Config {
	return pairwise.Config{
		Wallet:              a.wallet,
		OwnerDID:            a.ownerDID,
		OwnerVerkey:         a.ownerVerkey,
		AgentDID:            a.did,
		UserPairwiseDID:     userDID,
		UserPairwiseVerkey:  userVerkey,
		AgentPairwiseDID:    agentDID,
		AgentPairwiseVerkey: agentVerkey,
		ForwardAgentDetail:  a.fwd,
	}
}

func (a *Agent) addConn(c *pairwise.Connection) {
	a.connsLk.Lock()
	defer a.connsLk.Unlock()
	a.conns[c.DID()] = c
}

// Connections returns the agent connections of the agent.
func (a *Agent) Connections() []*pairwise.Connection {
	a.connsLk.Lock()
	defer a.connsLk.Unlock()

	conns := make([]*pairwise.Connection, 0, len(a.conns))
	for _, c := range a.conns {
		conns = append(conns, c)
	}
	return conns
}

func (a *Agent) DID() string {
	return a.did
}

func (a *Agent) Verkey() string {
	return a.verkey
}

// Config returns the agent's config without the wallet passphrase.
func (a *Agent) Config() AgentConfig {
	return AgentConfig{
		DID:                a.did,
		OwnerDID:           a.ownerDID,
		OwnerVerkey:        a.ownerVerkey,
		WalletID:           a.walletID,
		ForwardAgentDetail: a.fwd,
	}
}

// Close unregisters the agent and its connections, stops them, and closes
// the wallet.
func (a *Agent) Close(ctx context.Context) {
	a.env.Router.RemoveRoute(a.did)
	a.inbox.Stop()

	for _, c := range a.Connections() {
		c.Stop()
	}
	a.connsLk.Lock()
	a.conns = make(map[string]*pairwise.Connection)
	a.connsLk.Unlock()

	if err := a.env.Provider.CloseWallet(ctx, a.wallet); err != nil {
		glog.Errorf("agent %s close wallet: %v", a.did, err)
	}
	glog.V(1).Infoln("agent closed:", a.did)
}
