package enclave

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// key must be set from production environment, SHA-256, 32 bytes
const hexKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

var dbFilename = filepath.Join(os.TempDir(), "fca-enclave-test.bolt")

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	_ = os.RemoveAll(dbFilename)
	if err := InitSealedBox(dbFilename, "", hexKey); err != nil {
		panic(err)
	}
}

func tearDown() {
	WipeSealedBox()
	_ = os.RemoveAll(dbFilename + "_backup")
}

func TestInitSealedBox_Twice(t *testing.T) {
	err := InitSealedBox(dbFilename, "", hexKey)
	assert.ErrorIs(t, err, ErrSealBoxAlreadyExists)
}

func TestSetKeysDID(t *testing.T) {
	const key = "WalletPassphrase"

	require.NoError(t, SetKeysDID(key, "TESTDID"))

	k, err := WalletKeyByDID("TESTDID")
	assert.NoError(t, err)
	assert.Equal(t, key, k)

	require.NoError(t, SetKeysDID("Other", "TESTDID"))
	k, err = WalletKeyByDID("TESTDID")
	assert.NoError(t, err)
	assert.Equal(t, "Other", k, "set overwrites the key")
}

func TestWalletKeyByDID_NotExists(t *testing.T) {
	key, err := WalletKeyByDID("NOTEXISTS")
	assert.ErrorIs(t, err, ErrNotExists)
	assert.Empty(t, key)

	assert.True(t, WalletKeyNotExists("NOTEXISTS"))
}

func TestRemoveKeysDID(t *testing.T) {
	require.NoError(t, SetKeysDID("key", "RMDID"))
	assert.False(t, WalletKeyNotExists("RMDID"))

	require.NoError(t, RemoveKeysDID("RMDID"))
	assert.True(t, WalletKeyNotExists("RMDID"))
}

func TestSealedValues(t *testing.T) {
	const key = "PlainPassphrase"
	require.NoError(t, SetKeysDID(key, "SEALDID"))

	assert.NotEqual(t, []byte(key), encrypt([]byte(key)))
	assert.Equal(t, []byte(key), decrypt(encrypt([]byte(key))))
	assert.Len(t, hash([]byte("SEALDID")), 32)
}

func TestBackup(t *testing.T) {
	require.NoError(t, SetKeysDID("key", "BACKUPDID"))
	Backup()

	k, err := WalletKeyByDID("BACKUPDID")
	assert.NoError(t, err)
	assert.Equal(t, "key", k)
}
