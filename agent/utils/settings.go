package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/golang/glog"
)

const (
	HTTPReqTimeout = 1 * time.Minute

	defaultWalletDir = ".findy/cloud-agent/wallets"
)

var Settings = &Hub{}

type Hub struct {
	registerName       string // name of the persistent register where agents are stored
	registerBackupName string // register's backup file
	backupTime         string // daily backup time, e.g. "03:00"

	serviceName string        // name of the this service which is used in URLs, etc.
	hostAddr    string        // Ip host name of the server's host seen from internet
	versionInfo string        // Version number etc. in free format as a string
	timeout     time.Duration // timeout for http requests and provider calls
	walletDir   string        // where file based wallets live by default

	enclaveName string // sealed box file keeping wallet keys
	enclaveKey  string // hex encoded master key of the sealed box
}

func (h *Hub) BackupTime() string {
	return h.backupTime
}

func (h *Hub) SetBackupTime(t string) {
	h.backupTime = t
}

func (h *Hub) RegisterBackupName() string {
	return h.registerBackupName
}

func (h *Hub) SetRegisterBackupName(name string) {
	h.registerBackupName = name
}

func (h *Hub) RegisterName() string {
	return h.registerName
}

func (h *Hub) SetRegisterName(registerName string) {
	h.registerName = registerName
}

func (h *Hub) EnclaveName() string {
	return h.enclaveName
}

func (h *Hub) SetEnclaveName(name string) {
	h.enclaveName = name
}

func (h *Hub) EnclaveKey() string {
	return h.enclaveKey
}

func (h *Hub) SetEnclaveKey(key string) {
	h.enclaveKey = key
}

// SetTimeout sets the default timeout for HTTP requests and wallet operations.
func (h *Hub) SetTimeout(to time.Duration) {
	h.timeout = to
}

// SetServiceName sets the service name of this cloud agent. Service name is
// used in the URLs and endpoint addresses.
func (h *Hub) SetServiceName(n string) {
	h.serviceName = n
}

// SetVersionInfo sets current version info of this service. The info is shown
// by the version endpoint.
func (h *Hub) SetVersionInfo(info string) {
	h.versionInfo = info
}

// SetHostAddr sets current host name of this service. The host name is used in
// the URLs and endpoints.
func (h *Hub) SetHostAddr(ipName string) {
	h.hostAddr = ipName
}

// SetWalletDir sets the directory of file based wallets.
func (h *Hub) SetWalletDir(dir string) {
	h.walletDir = dir
}

func (h *Hub) HostAddr() string {
	return h.hostAddr
}

func (h *Hub) ServiceName() string {
	if h.serviceName == "" && glog.V(3) {
		glog.Info("warning service name is empty")
	}
	return h.serviceName
}

func (h *Hub) VersionInfo() string {
	return h.versionInfo
}

func (h *Hub) Timeout() time.Duration {
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

// WalletDir returns the wallet directory. If it's not set, the default is under
// the user's home directory.
func (h *Hub) WalletDir() string {
	if h.walletDir == "" {
		return filepath.Join(HomeDir(), defaultWalletDir)
	}
	return h.walletDir
}

// Endpoint builds the public endpoint URL of the DID.
func (h *Hub) Endpoint(did string) string {
	return h.hostAddr + "/" + h.ServiceName() + "/" + did
}

func HomeDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	currentUser, err := user.Current()
	if err != nil {
		panic(err)
	}
	return currentUser.HomeDir
}
