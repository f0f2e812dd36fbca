package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-cloud-agent/agent/ssi"
	"github.com/findy-network/findy-cloud-agent/agent/utils"
	"github.com/findy-network/findy-cloud-agent/cmds/agency"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var baseEnvs = map[string]string{
	"service-name":   "SERVICE_NAME",
	"host-address":   "HOST_ADDRESS",
	"host-scheme":    "HOST_SCHEME",
	"host-port":      "HOST_PORT",
	"wallet-dir":     "WALLET_DIR",
	"wallet-storage": "WALLET_STORAGE",
	"register-file":  "REGISTER_FILE",
	"enclave-path":   "ENCLAVE_PATH",
	"enclave-key":    "ENCLAVE_KEY",
	"timeout":        "TIMEOUT",
	"forward-did":    "FORWARD_DID",
	"forward-verkey": "FORWARD_VERKEY",
}

var serverEnvs = map[string]string{
	"server-port":     "SERVER_PORT",
	"reset-register":  "RESET_REGISTER",
	"register-backup": "REGISTER_BACKUP",
	"enclave-backup":  "ENCLAVE_BACKUP",
	"backup-time":     "BACKUP_TIME",
	"wallet-backup":   "WALLET_BACKUP",
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Command for starting the cloud agent server",
	Long: `
Starts the cloud agent server. The agents of the register are restored and
their routes served until the server is stopped.

Example
	findy-cloud-agent server \
		--host-address agency.example.com \
		--enclave-key 15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c \
		--backup-time 03:00
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		try.To(BindEnvs(baseEnvs, cmd.Name()))
		return BindEnvs(serverEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		try.To(sCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(sCmd.Exec(os.Stdout))
		}
		return nil
	},
}

// agentCmd represents the agent command
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Parent command for managing cloud agents",
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var createEnvs = map[string]string{
	"owner-did":    "OWNER_DID",
	"owner-verkey": "OWNER_VERKEY",
}

// createAgentCmd represents the agent create subcommand
var createAgentCmd = &cobra.Command{
	Use:   "create",
	Short: "Command for creating a cloud agent",
	Long: `
Creates a new cloud agent for the owner and prints its configuration. The
agent is saved to the register and its wallet key to the enclave, and the
server serves it after the next start.

Example
	findy-cloud-agent agent create \
		--owner-did VsKV7grR1BUE29mG2Fm2kX \
		--owner-verkey GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		try.To(BindEnvs(baseEnvs, "AGENT"))
		return BindEnvs(createEnvs, "AGENT")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		try.To(cCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(cCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var pingEnvs = map[string]string{
	"base-address": "BASE_ADDRESS",
}

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Command for pinging the cloud agent server",
	Long: `
Pings the server. If the server works, ping ok with its version is printed.

Example
	findy-cloud-agent ping \
		--base-address http://localhost:8080
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(pingEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		try.To(pCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(pCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var (
	sCmd = agency.Cmd{}
	cCmd = agency.CreateCmd{}
	pCmd = agency.PingCmd{}
)

func addBaseFlags(flags *pflag.FlagSet, b *agency.Base, cmdName string) {
	flags.StringVar(&b.ServiceName, "service-name", "a2a", flagInfo("URL path of the A2A transport", cmdName, baseEnvs["service-name"]))
	flags.StringVar(&b.HostAddr, "host-address", "localhost", flagInfo("host address", cmdName, baseEnvs["host-address"]))
	flags.StringVar(&b.HostScheme, "host-scheme", "http", flagInfo("scheme of the host address", cmdName, baseEnvs["host-scheme"]))
	flags.UintVar(&b.HostPort, "host-port", 8080, flagInfo("host port", cmdName, baseEnvs["host-port"]))
	flags.StringVar(&b.WalletDir, "wallet-dir", "", flagInfo("directory of the agent wallets", cmdName, baseEnvs["wallet-dir"]))
	flags.StringVar(&b.WalletStorage, "wallet-storage", ssi.StorageDefault, flagInfo("wallet storage type: default or memory", cmdName, baseEnvs["wallet-storage"]))
	flags.StringVar(&b.RegisterFile, "register-file", "findy-cloud-agent.json", flagInfo("agent register's filename", cmdName, baseEnvs["register-file"]))
	flags.StringVar(&b.EnclavePath, "enclave-path", "", flagInfo("enclave full file name", cmdName, baseEnvs["enclave-path"]))
	flags.StringVar(&b.EnclaveKey, "enclave-key", "", flagInfo("SHA-256 32 bytes in hex ascii", cmdName, baseEnvs["enclave-key"]))
	flags.DurationVar(&b.Timeout, "timeout", utils.HTTPReqTimeout, flagInfo("timeout of the message handling", cmdName, baseEnvs["timeout"]))
	flags.StringVar(&b.ForwardDID, "forward-did", "", flagInfo("DID of the forward agent", cmdName, baseEnvs["forward-did"]))
	flags.StringVar(&b.ForwardVerkey, "forward-verkey", "", flagInfo("verkey of the forward agent", cmdName, baseEnvs["forward-verkey"]))
}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	sCmd.VersionInfo = "findy-cloud-agent v. " + rootCmd.Version

	flags := serverCmd.Flags()
	addBaseFlags(flags, &sCmd.Base, serverCmd.Name())
	flags.UintVar(&sCmd.ServerPort, "server-port", 8080, flagInfo("server port", serverCmd.Name(), serverEnvs["server-port"]))
	flags.BoolVar(&sCmd.ResetData, "reset-register", false, flagInfo("reset agent register", serverCmd.Name(), serverEnvs["reset-register"]))
	flags.StringVar(&sCmd.RegisterBackup, "register-backup", "findy-cloud-agent.json.bak", flagInfo("agent register backup file", serverCmd.Name(), serverEnvs["register-backup"]))
	flags.StringVar(&sCmd.EnclaveBackup, "enclave-backup", "", flagInfo("base name for enclave backup file", serverCmd.Name(), serverEnvs["enclave-backup"]))
	flags.StringVar(&sCmd.WalletBackup, "wallet-backup", "", flagInfo("path for wallet backups", serverCmd.Name(), serverEnvs["wallet-backup"]))
	flags.StringVar(&sCmd.BackupTime, "backup-time", "03:00", flagInfo("time to start daily backups in HH:MM[:SS]", serverCmd.Name(), serverEnvs["backup-time"]))

	c := createAgentCmd.Flags()
	addBaseFlags(c, &cCmd.Base, "AGENT")
	c.StringVar(&cCmd.OwnerDID, "owner-did", "", flagInfo("owner's DID", "AGENT", createEnvs["owner-did"]))
	c.StringVar(&cCmd.OwnerVerkey, "owner-verkey", "", flagInfo("owner's verkey", "AGENT", createEnvs["owner-verkey"]))

	p := pingCmd.Flags()
	p.StringVar(&pCmd.BaseAddr, "base-address", "http://localhost:8080", flagInfo("base address of the server", pingCmd.Name(), pingEnvs["base-address"]))

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(agentCmd)
	agentCmd.AddCommand(createAgentCmd)
	rootCmd.AddCommand(pingCmd)
}
