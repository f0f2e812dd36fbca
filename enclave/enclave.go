/*
Package enclave is a server-side Secure Enclave. It offers a sealed storage
for the wallet passphrases of the cloud agents, indexed by the agent DID. The
values are encrypted with the master key given to InitSealedBox and the DIDs
are stored only as hashes.
*/
package enclave

import (
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/lainio/err2"
)

var (
	lk                sync.Mutex
	sealedBoxFilename string
)

// InitSealedBox initialize enclave's sealed box. This must be called once
// during the app life cycle. The key is the hex encoded 32 byte master key;
// an empty key leaves the values unencrypted, which is for tests only.
func InitSealedBox(filename, backupName, key string) (err error) {
	lk.Lock()
	defer lk.Unlock()

	glog.V(1).Infoln("init enclave", filename)
	if key == "" {
		glog.Warningln("enclave master key is empty, values are not encrypted")
	}
	sealedBoxFilename = filename
	return open(filename, backupName, key)
}

// Close closes the sealed box of the enclave. It can be open again with
// InitSealedBox.
func Close() {
	lk.Lock()
	defer lk.Unlock()

	if err := closeDB(); err != nil {
		glog.Errorln("enclave close:", err)
	}
}

// WipeSealedBox closes and destroys the enclave permanently. This version only
// removes the sealed box file.
func WipeSealedBox() {
	Close()

	lk.Lock()
	defer lk.Unlock()
	if err := os.RemoveAll(sealedBoxFilename); err != nil {
		glog.Errorln("enclave wipe:", err)
	}
}

// Backup takes a backup copy of the sealed box. It's called by the scheduler.
func Backup() {
	lk.Lock()
	defer lk.Unlock()

	if mgdDB == nil {
		glog.Warningln("enclave backup: sealed box not open")
		return
	}
	did, err := mgdDB.Backup()
	if err != nil {
		glog.Errorln("enclave backup:", err)
		return
	}
	glog.V(1).Infoln("enclave backup done:", did)
}

// SetKeysDID stores a wallet key by its agent DID. We can retrieve the
// wallet key by the DID with WalletKeyByDID.
func SetKeysDID(key, DID string) (err error) {
	lk.Lock()
	defer lk.Unlock()

	defer err2.Handle(&err, "enclave set key %s", DID)
	return addKeyValueToBucket(bucketDID, key, DID)
}

// WalletKeyByDID retrieves a wallet key by a DID. ErrNotExists is returned
// for an unknown DID.
func WalletKeyByDID(DID string) (key string, err error) {
	lk.Lock()
	defer lk.Unlock()

	return getKeyValueFromBucket(bucketDID, DID)
}

// WalletKeyNotExists returns true if a wallet key is not in the enclave
// associated by the DID.
func WalletKeyNotExists(DID string) bool {
	_, err := WalletKeyByDID(DID)
	return err == ErrNotExists
}

// RemoveKeysDID removes the wallet key of the DID.
func RemoveKeysDID(DID string) (err error) {
	lk.Lock()
	defer lk.Unlock()

	defer err2.Handle(&err, "enclave remove key %s", DID)
	return rmKeyValueFromBucket(bucketDID, DID)
}
