package agency

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/findy-network/findy-cloud-agent/agent/cloud"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/findy-network/findy-cloud-agent/agent/ssi"
	"github.com/findy-network/findy-cloud-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// CreateCmd creates a new cloud agent for the owner. The agent is saved to
// the register and the enclave, and it is served after the next server
// start.
type CreateCmd struct {
	Base

	OwnerDID    string
	OwnerVerkey string
}

type CreateResult struct {
	cloud.AgentConfig
}

func (r CreateResult) JSON() ([]byte, error) {
	return json.MarshalIndent(r.AgentConfig, "", "  ")
}

func (c *CreateCmd) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if c.OwnerDID == "" {
		return errors.New("owner DID cannot be empty")
	}
	if c.OwnerVerkey == "" {
		return errors.New("owner verkey cannot be empty")
	}
	// the wallet of an offline created agent must outlive this process
	if c.WalletStorage == ssi.StorageMemory {
		return errors.New("memory wallets cannot be restored, use default storage")
	}
	return nil
}

func (c *CreateCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "create agent")

	ctx := context.Background()
	ag, _ := try.To2(c.Base.setup(router.New(), ""))
	defer c.closeAll(ag)

	try.To(ag.LoadRegister())
	cfg := try.To1(ag.CreateAgent(ctx, c.OwnerDID, c.OwnerVerkey))

	res := CreateResult{AgentConfig: *cfg}
	cmds.Fprintln(w, string(try.To1(res.JSON())))
	return res, nil
}
