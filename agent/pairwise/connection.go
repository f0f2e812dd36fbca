/*
Package pairwise implements the agent connection: the per relationship
sub-identity an agent provisions for each of its owner's pairwise DIDs. A
connection registers its own route and has its own inbox, but it uses the
wallet of its parent agent.
*/
package pairwise

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/findy-network/findy-cloud-agent/agent/actor"
	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/findy-network/findy-cloud-agent/agent/sec"
	"github.com/golang/glog"
)

// MetadataKind marks the wallet pairwise records which are agent connections.
const MetadataKind = "agent_connection"

// Metadata is stored with the wallet's pairwise record of the connection.
type Metadata struct {
	Kind     string `json:"kind"`
	AgentDID string `json:"agent_did"`
}

// NewMetadata returns the pairwise metadata JSON for the agent's connection.
func NewMetadata(agentDID string) string {
	data, _ := json.Marshal(Metadata{Kind: MetadataKind, AgentDID: agentDID})
	return string(data)
}

// IsConnection tells if the pairwise metadata belongs to a connection of the
// agent.
func IsConnection(metadata, agentDID string) bool {
	var m Metadata
	if err := json.Unmarshal([]byte(metadata), &m); err != nil {
		return false
	}
	return m.Kind == MetadataKind && m.AgentDID == agentDID
}

// Config is the configuration of the agent connection.
type Config struct {
	Wallet int `json:"-"`

	OwnerDID    string `json:"owner_did"`
	OwnerVerkey string `json:"owner_verkey"`
	AgentDID    string `json:"agent_did"`

	UserPairwiseDID     string `json:"user_pairwise_did"`
	UserPairwiseVerkey  string `json:"user_pairwise_verkey"`
	AgentPairwiseDID    string `json:"agent_pairwise_did"`
	AgentPairwiseVerkey string `json:"agent_pairwise_verkey"`

	ForwardAgentDetail a2a.ForwardAgentDetail `json:"forward_agent_detail"`
}

// Connection is the agent connection actor.
type Connection struct {
	cfg    Config
	routes router.Routes
	pipe   sec.Pipe
	inbox  *actor.Inbox
}

// Create starts the connection and registers its route by the agent pairwise
// DID before returning. If the route cannot be registered the connection is
// stopped.
func Create(ctx context.Context, cfg Config, routes router.Routes, codec sec.Codec) (*Connection, error) {
	c := &Connection{
		cfg:    cfg,
		routes: routes,
		pipe: sec.Pipe{
			Codec:  codec,
			Wallet: cfg.Wallet,
			In:     cfg.AgentPairwiseVerkey,
			Out:    cfg.UserPairwiseVerkey,
		},
		inbox: actor.Start("conn:" + cfg.AgentPairwiseDID),
	}
	if err := routes.AddRoute(cfg.AgentPairwiseDID, c); err != nil {
		c.inbox.Stop()
		return nil, e2.Annotate(err, "route-register")
	}
	glog.V(1).Infof("agent connection %s created for %s",
		cfg.AgentPairwiseDID, cfg.UserPairwiseDID)
	return c, nil
}

// HandleEnvelope queues the envelope to the connection's inbox.
func (c *Connection) HandleEnvelope(ctx context.Context, data []byte) ([]byte, error) {
	return c.inbox.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return c.handle(ctx, data)
	})
}

func (c *Connection) handle(ctx context.Context, data []byte) ([]byte, error) {
	msgs, err := c.pipe.Unpack(ctx, data)
	if errors.Is(err, sec.ErrSenderMismatch) {
		return nil, e2.Wrap(e2.Crypto, err, "sender mismatch")
	} else if err != nil {
		return nil, e2.Wrap(e2.Crypto, err, "decrypt")
	}
	if len(msgs) == 0 {
		return nil, e2.New(e2.Protocol, "empty bundle")
	}

	switch m := msgs[len(msgs)-1].(type) {
	case *a2a.Forward:
		glog.V(3).Infof("connection %s forwards to %s", c.cfg.AgentPairwiseDID, m.Fwd)
		return c.routes.RouteMessage(ctx, m.Fwd, m.Msg)
	default:
		return nil, e2.Unsupported(m.Type())
	}
}

func (c *Connection) DID() string {
	return c.cfg.AgentPairwiseDID
}

func (c *Connection) Config() Config {
	return c.cfg
}

// Stop removes the route of the connection and stops its inbox.
func (c *Connection) Stop() {
	c.routes.RemoveRoute(c.cfg.AgentPairwiseDID)
	c.inbox.Stop()
}
