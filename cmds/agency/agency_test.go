package agency

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/findy-network/findy-cloud-agent/agent/cloud"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/findy-network/findy-cloud-agent/agent/ssi"
	"github.com/findy-network/findy-cloud-agent/enclave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hexKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

func newBase(t *testing.T) Base {
	t.Helper()
	dir := t.TempDir()
	return Base{
		ServiceName:    "a2a",
		HostAddr:       "localhost",
		HostScheme:     "http",
		HostPort:       8080,
		WalletDir:      filepath.Join(dir, "wallets"),
		WalletStorage:  ssi.StorageDefault,
		RegisterFile:   filepath.Join(dir, "register.json"),
		RegisterBackup: filepath.Join(dir, "register.json.bak"),
		EnclavePath:    filepath.Join(dir, "enclave.bolt"),
		EnclaveKey:     hexKey,
		ForwardDID:     "FwdDID",
		ForwardVerkey:  "FwdVerkey",
	}
}

func TestCmd_Validate(t *testing.T) {
	valid := Cmd{Base: newBase(t), ServerPort: 8080, BackupTime: "03:00"}

	tests := []struct {
		name    string
		modify  func(c *Cmd)
		wantErr bool
	}{
		{"valid", func(*Cmd) {}, false},
		{"no service", func(c *Cmd) { c.ServiceName = "" }, true},
		{"no host", func(c *Cmd) { c.HostAddr = "" }, true},
		{"no register", func(c *Cmd) { c.RegisterFile = "" }, true},
		{"bad storage", func(c *Cmd) { c.WalletStorage = "postgres" }, true},
		{"no port", func(c *Cmd) { c.ServerPort = 0 }, true},
		{"bad backup time", func(c *Cmd) { c.BackupTime = "3 am" }, true},
		{"no backups", func(c *Cmd) { c.BackupTime = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateCmd(t *testing.T) {
	base := newBase(t)

	c := &CreateCmd{Base: base}
	assert.Error(t, c.Validate(), "owner is missing")

	c.OwnerDID, c.OwnerVerkey = "OwnerDID", "OwnerVerkey"
	require.NoError(t, c.Validate())

	c.WalletStorage = ssi.StorageMemory
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory")
	c.WalletStorage = ssi.StorageDefault

	var out bytes.Buffer
	r, err := c.Exec(&out)
	require.NoError(t, err)

	var printed cloud.AgentConfig
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, "OwnerDID", printed.OwnerDID)
	assert.NotEmpty(t, printed.WalletPassphrase)
	assert.Equal(t, "FwdDID", printed.ForwardAgentDetail.DID)
	assert.Equal(t, "http://localhost:8080/a2a/FwdDID", printed.ForwardAgentDetail.Endpoint)

	data, err := r.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, out.String(), string(data))

	// second agent keeps the first one in the register
	c2 := &CreateCmd{Base: base, OwnerDID: "Owner2", OwnerVerkey: "Verkey2"}
	_, err = c2.Exec(nil)
	require.NoError(t, err)

	reg, err := os.ReadFile(base.RegisterFile)
	require.NoError(t, err)
	var m map[string]cloud.AgentConfig
	require.NoError(t, json.Unmarshal(reg, &m))
	assert.Len(t, m, 2)
	assert.Contains(t, m, printed.DID)
	assert.Empty(t, m[printed.DID].WalletPassphrase)

	require.NoError(t, enclave.InitSealedBox(base.EnclavePath, "", hexKey))
	key, err := enclave.WalletKeyByDID(printed.DID)
	enclave.Close()
	require.NoError(t, err)
	assert.Equal(t, printed.WalletPassphrase, key)
}

func TestPingCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("test-version"))
	}))
	defer srv.Close()

	assert.Error(t, PingCmd{}.Validate())

	var out bytes.Buffer
	_, err := PingCmd{BaseAddr: srv.URL}.Exec(&out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "test-version")

	_, err = PingCmd{BaseAddr: srv.URL + "/nothing"}.Exec(nil)
	assert.Error(t, err)
}

func TestSetup_WalletBackup(t *testing.T) {
	base := newBase(t)
	backupDir := filepath.Join(t.TempDir(), "wallet-backups")

	ag, walletAccess, err := base.setup(router.New(), backupDir)
	require.NoError(t, err)
	defer base.closeAll(ag)
	require.NotNil(t, walletAccess)

	_, err = ag.CreateAgent(context.Background(), "OwnerDID", "OwnerVerkey")
	require.NoError(t, err)
	assert.Equal(t, 1, walletAccess.Backup(context.Background()))

	files, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestSetup_NoWalletBackup(t *testing.T) {
	base := newBase(t)

	ag, walletAccess, err := base.setup(router.New(), "")
	require.NoError(t, err)
	defer base.closeAll(ag)
	assert.Nil(t, walletAccess)
}
