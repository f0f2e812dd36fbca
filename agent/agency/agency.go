/*
Package agency offers the multi tenant services of the cloud agent process: it
creates the agents, keeps them in the persistent register, and restores them
when the process starts again. The register has no secrets. The wallet
passphrases of the agents are kept in the enclave.
*/
package agency

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/findy-network/findy-cloud-agent/agent/cloud"
	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/findy-network/findy-cloud-agent/agent/utils"
	"github.com/findy-network/findy-cloud-agent/enclave"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Config is the configuration shared by all of the agents of the agency.
type Config struct {
	RegisterName       string
	RegisterBackupName string
	Storage            cloud.WalletStorageConfig
	Forward            a2a.ForwardAgentDetail
}

// Agency is the set of the running cloud agents.
type Agency struct {
	env cloud.Env
	cfg Config

	register utils.Reg // stores the agents already created, has agent DID as key

	l      sync.Mutex
	agents map[string]*cloud.Agent
}

func New(env cloud.Env, cfg Config) *Agency {
	return &Agency{
		env:    env,
		cfg:    cfg,
		agents: make(map[string]*cloud.Agent),
	}
}

// LoadRegistered loads the register file and restores every agent in it. An
// agent which cannot be restored is logged and skipped. It returns the count
// of the restored agents.
func (ag *Agency) LoadRegistered(ctx context.Context) (count int, err error) {
	defer err2.Handle(&err, "load registered")

	try.To(ag.LoadRegister())

	cfgs := make([]cloud.AgentConfig, 0, ag.register.Len())
	ag.register.EnumValues(func(did string, v json.RawMessage) bool {
		var cfg cloud.AgentConfig
		if err := json.Unmarshal(v, &cfg); err != nil {
			glog.Errorf("agency load %s: %v", did, err)
			return true
		}
		cfgs = append(cfgs, cfg)
		return true // default is to continue even on error
	})

	for _, cfg := range cfgs {
		if err := ag.restore(ctx, cfg); err != nil {
			glog.Errorf("agency load %s: %v", cfg.DID, err)
			continue
		}
		count++
	}
	glog.V(1).Infof("agency: %d/%d agent(s) restored", count, len(cfgs))
	return count, nil
}

// LoadRegister only loads the register file. The agents aren't started.
func (ag *Agency) LoadRegister() error {
	return ag.register.Load(ag.cfg.RegisterName)
}

func (ag *Agency) restore(ctx context.Context, cfg cloud.AgentConfig) (err error) {
	defer err2.Handle(&err, "restore %s", cfg.DID)

	cfg.WalletPassphrase = try.To1(enclave.WalletKeyByDID(cfg.DID))
	a := try.To1(cloud.Restore(ctx, ag.env, cfg, ag.cfg.Storage))
	ag.add(a)
	return nil
}

// ResetRegistered cleans the register file empty.
func (ag *Agency) ResetRegistered() error {
	fmt.Println("Note! Resetting agent register, agent creation starts over.")
	return ag.register.Reset(ag.cfg.RegisterName)
}

// CreateAgent creates a new agent for the owner, stores its wallet
// passphrase to the enclave and the config to the register. The returned
// config includes the passphrase. If the register cannot be saved the enclave
// key and the register entry are removed and the agent is closed.
func (ag *Agency) CreateAgent(
	ctx context.Context,
	ownerDID, ownerVerkey string,
) (
	cfg *cloud.AgentConfig,
	err error,
) {
	defer err2.Handle(&err, "create agent for %s", ownerDID)

	cfg, a := try.To2(cloud.Create(ctx, ag.env, ownerDID, ownerVerkey,
		ag.cfg.Storage, ag.cfg.Forward))
	defer err2.Handle(&err, func(err error) error {
		a.Close(ctx)
		return err
	})

	did := cfg.DID
	if !enclave.WalletKeyNotExists(did) {
		return nil, e2.Wrap(e2.StateConflict,
			fmt.Errorf("enclave has a key for %s", did), "enclave")
	}
	try.To(enclave.SetKeysDID(cfg.WalletPassphrase, did))
	defer err2.Handle(&err, func(err error) error {
		ag.register.Rm(did)
		if rmErr := enclave.RemoveKeysDID(did); rmErr != nil {
			glog.Errorf("remove enclave key of %s: %v", did, rmErr)
		}
		return err
	})
	regCfg := *cfg
	regCfg.WalletPassphrase = ""
	ag.register.Add(did, try.To1(json.Marshal(regCfg)))
	if ag.cfg.RegisterName != "" {
		try.To(ag.register.Save(ag.cfg.RegisterName))
	}

	ag.add(a)
	return cfg, nil
}

func (ag *Agency) add(a *cloud.Agent) {
	ag.l.Lock()
	defer ag.l.Unlock()
	ag.agents[a.DID()] = a
}

// Agent returns the running agent by its DID.
func (ag *Agency) Agent(did string) (*cloud.Agent, bool) {
	ag.l.Lock()
	defer ag.l.Unlock()
	a, ok := ag.agents[did]
	return a, ok
}

// DIDs returns the sorted DIDs of the running agents.
func (ag *Agency) DIDs() []string {
	ag.l.Lock()
	defer ag.l.Unlock()
	dids := make([]string, 0, len(ag.agents))
	for did := range ag.agents {
		dids = append(dids, did)
	}
	sort.Strings(dids)
	return dids
}

// Backup saves the register to the backup file. It's called by the
// scheduler.
func (ag *Agency) Backup() {
	if ag.cfg.RegisterBackupName == "" {
		return
	}
	if err := ag.register.Save(ag.cfg.RegisterBackupName); err != nil {
		glog.Errorln("register backup:", err)
		return
	}
	glog.V(1).Infoln("register backup done:", ag.cfg.RegisterBackupName)
}

// Close closes all of the running agents.
func (ag *Agency) Close(ctx context.Context) {
	ag.l.Lock()
	agents := ag.agents
	ag.agents = make(map[string]*cloud.Agent)
	ag.l.Unlock()

	for _, a := range agents {
		a.Close(ctx)
	}
}
