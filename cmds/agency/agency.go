package agency

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/findy-network/findy-cloud-agent/agent/a2a"
	"github.com/findy-network/findy-cloud-agent/agent/accessmgr"
	"github.com/findy-network/findy-cloud-agent/agent/agency"
	"github.com/findy-network/findy-cloud-agent/agent/cloud"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/findy-network/findy-cloud-agent/agent/ssi"
	"github.com/findy-network/findy-cloud-agent/agent/utils"
	"github.com/findy-network/findy-cloud-agent/cmds"
	"github.com/findy-network/findy-cloud-agent/enclave"
	"github.com/findy-network/findy-cloud-agent/server"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Base is the configuration shared by the server and the agent creation.
type Base struct {
	ServiceName string
	HostAddr    string
	HostScheme  string
	HostPort    uint

	WalletDir     string
	WalletStorage string

	RegisterFile   string
	RegisterBackup string

	EnclavePath   string
	EnclaveKey    string
	EnclaveBackup string

	Timeout time.Duration

	ForwardDID    string
	ForwardVerkey string
}

// Cmd starts the cloud agent server.
type Cmd struct {
	Base

	ServerPort   uint
	BackupTime   string
	WalletBackup string
	ResetData    bool
	VersionInfo  string
}

var (
	cron = gocron.NewScheduler(time.Now().Location())
)

func (c *Base) Validate() error {
	if c.ServiceName == "" {
		return errors.New("service name cannot be empty")
	}
	if c.HostAddr == "" {
		return errors.New("host address cannot be empty")
	}
	if c.RegisterFile == "" {
		return errors.New("register path cannot be empty")
	}
	if c.WalletStorage != ssi.StorageDefault && c.WalletStorage != ssi.StorageMemory {
		return fmt.Errorf("unknown wallet storage type: %s", c.WalletStorage)
	}
	if c.EnclaveKey == "" {
		glog.Warning("enclave key is empty, wallet keys are stored unencrypted")
	}
	return nil
}

func (c *Cmd) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if c.ServerPort == 0 {
		return errors.New("server port cannot be zero")
	}
	if c.RegisterBackup == "" {
		glog.Warning("register backup name is empty, no register backups")
	}
	if c.EnclaveBackup == "" {
		glog.Warning("enclave backup name is empty, no enclave backups")
	}
	if c.WalletBackup == "" {
		glog.Warning("wallet backup path is empty, no wallet backups")
	}
	if c.BackupTime != "" {
		if err := cmds.ValidateTime(c.BackupTime); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return nil, StartAgency(ctx, c)
}

// StartAgency sets up the agency and runs the server until the context is
// canceled.
func StartAgency(ctx context.Context, c *Cmd) (err error) {
	defer err2.Handle(&err)

	utils.Settings.SetVersionInfo(c.VersionInfo)
	utils.Settings.SetBackupTime(c.BackupTime)
	c.printStartupArgs()

	routes := router.New()
	ag, walletAccess := try.To2(c.Base.setup(routes, c.WalletBackup))
	defer c.closeAll(ag)

	if c.ResetData {
		try.To(ag.ResetRegistered())
	}
	try.To1(ag.LoadRegistered(ctx))

	c.startBackupTasks(ag, walletAccess)
	defer cron.Stop()

	try.To(server.StartHTTPServer(ctx, routes, c.ServerPort))
	return nil
}

// setup writes the runtime settings, opens the enclave and builds the agency.
// The wallet access manager is returned when the wallet backup path is given.
func (c *Base) setup(
	routes *router.Router,
	walletBackup string,
) (
	ag *agency.Agency,
	walletAccess *accessmgr.Mgr,
	err error,
) {
	defer err2.Handle(&err, "setup")

	c.setRuntimeSettings()
	try.To(c.initSealedBox())

	keystore := ssi.NewKeystore(utils.Settings.WalletDir())
	env := cloud.Env{
		Router:   routes,
		Provider: keystore,
	}
	if walletBackup != "" {
		walletAccess = accessmgr.New(keystore, walletBackup)
		env.Access = walletAccess
	}
	return agency.New(env, agency.Config{
		RegisterName:       c.RegisterFile,
		RegisterBackupName: c.RegisterBackup,
		Storage:            cloud.WalletStorageConfig{XType: c.WalletStorage},
		Forward: a2a.ForwardAgentDetail{
			DID:      c.ForwardDID,
			Verkey:   c.ForwardVerkey,
			Endpoint: utils.Settings.Endpoint(c.ForwardDID),
		},
	}), walletAccess, nil
}

func (c *Cmd) startBackupTasks(ag *agency.Agency, walletAccess *accessmgr.Mgr) {
	backupTime := utils.Settings.BackupTime()
	if backupTime == "" {
		return
	}
	if walletAccess != nil {
		glog.V(1).Infoln("wallet backup time:", backupTime)
		_, err := cron.Every(1).Day().At(backupTime).Do(walletAccess.StartBackup)
		if err != nil {
			glog.Warningln("wallet backup start error:", err)
		}
	}
	if c.EnclaveBackup != "" {
		glog.V(1).Infoln("enclave backup time:", backupTime)
		_, err := cron.Every(1).Day().At(backupTime).Do(enclave.Backup)
		if err != nil {
			glog.Warningln("enclave backup start error:", err)
		}
	}
	if c.RegisterBackup != "" {
		glog.V(1).Infoln("register backup time:", backupTime)
		_, err := cron.Every(1).Day().At(backupTime).Do(ag.Backup)
		if err != nil {
			glog.Warningln("register backup start error:", err)
		}
	}
	cron.StartAsync()
}

func (c *Base) initSealedBox() (err error) {
	sealedBoxPath := c.EnclavePath
	if sealedBoxPath == "" {
		sealedBoxPath = filepath.Join(utils.HomeDir(), ".findy/cloud-agent/enclave.bolt")
	}
	utils.Settings.SetEnclaveName(sealedBoxPath)
	utils.Settings.SetEnclaveKey(c.EnclaveKey)
	try.To(os.MkdirAll(filepath.Dir(sealedBoxPath), 0700))

	return enclave.InitSealedBox(sealedBoxPath, c.EnclaveBackup, c.EnclaveKey)
}

func (c *Cmd) printStartupArgs() {
	fmt.Println(
		"Register path:", c.RegisterFile,
		"\nWallet dir:", c.WalletDir,
		"\nHost address:", c.HostAddr,
		"\nHost port:", c.HostPort,
		"\nServer port:", c.ServerPort)
}

func (c *Base) setRuntimeSettings() {
	utils.Settings.SetServiceName(c.ServiceName)
	utils.Settings.SetHostAddr(c.HostAddr)
	utils.Settings.SetRegisterName(c.RegisterFile)
	utils.Settings.SetRegisterBackupName(c.RegisterBackup)
	if c.WalletDir != "" {
		utils.Settings.SetWalletDir(c.WalletDir)
	}
	if c.Timeout != 0 {
		utils.Settings.SetTimeout(c.Timeout)
	}
	server.BuildHostAddr(c.HostScheme, c.HostPort)
}

func (c *Base) closeAll(ag *agency.Agency) {
	ag.Close(context.Background())
	enclave.Close()
}

// ParseLoggingArgs parses the glog flags from the string.
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	args = append(args, strings.Split(s, " ")...)
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}
