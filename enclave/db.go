package enclave

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/findy-network/findy-common-go/crypto"
	"github.com/findy-network/findy-common-go/crypto/db"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const (
	bucketDID byte = 0 + iota
)

var (
	buckets = [][]byte{
		{bucketDID},
	}

	theCipher *crypto.Cipher

	mgdDB db.Handle
)

// ErrNotExists is an error for key not exist in the enclave.
var ErrNotExists = errors.New("key not exists")

// ErrSealBoxAlreadyExists is an error for enclave sealed box already exists.
var ErrSealBoxAlreadyExists = errors.New("enclave sealed box exists")

// ErrNotOpen is returned when the sealed box is used before InitSealedBox.
var ErrNotOpen = errors.New("enclave sealed box not open")

func open(filename, backupName, key string) (err error) {
	defer err2.Handle(&err, "enclave open")

	if mgdDB != nil {
		return ErrSealBoxAlreadyExists
	}
	if key != "" {
		k := try.To1(hex.DecodeString(key))
		theCipher = crypto.NewCipher(k)
	}
	if backupName == "" {
		backupName = filename + "_backup"
	}
	// file handle is opened on the first use
	mgdDB = db.New(db.Cfg{
		Filename:   filename,
		Buckets:    buckets,
		BackupName: backupName,
	})
	return nil
}

func closeDB() (err error) {
	if mgdDB == nil {
		return nil
	}
	err = mgdDB.Close()
	mgdDB = nil
	theCipher = nil
	return err
}

func addKeyValueToBucket(bucketID byte, value, index string) (err error) {
	if mgdDB == nil {
		return ErrNotOpen
	}
	return mgdDB.AddKeyValueToBucket(buckets[bucketID],
		&db.Data{
			Data: []byte(value),
			Read: encrypt,
		},
		&db.Data{
			Data: []byte(index),
			Read: hash,
		},
	)
}

func getKeyValueFromBucket(bucketID byte, index string) (value string, err error) {
	if mgdDB == nil {
		return "", ErrNotOpen
	}
	found, err := mgdDB.GetKeyValueFromBucket(buckets[bucketID],
		&db.Data{
			Data: []byte(index),
			Read: hash,
		},
		&db.Data{
			Write: decrypt,
			Use: func(d []byte) interface{} {
				value = string(d)
				return nil
			},
		})
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotExists
	}
	return value, nil
}

func rmKeyValueFromBucket(bucketID byte, index string) (err error) {
	if mgdDB == nil {
		return ErrNotOpen
	}
	return mgdDB.RmKeyValueFromBucket(buckets[bucketID],
		&db.Data{
			Data: []byte(index),
			Read: hash,
		})
}

// hash makes the index of the value so that DIDs aren't stored as plain
// text.
func hash(key []byte) []byte {
	h := sha256.Sum256(key)
	return h[:]
}

func encrypt(value []byte) []byte {
	if theCipher != nil {
		return theCipher.TryEncrypt(value)
	}
	return append(value[:0:0], value...)
}

func decrypt(value []byte) []byte {
	if theCipher != nil {
		return theCipher.TryDecrypt(value)
	}
	return append(value[:0:0], value...)
}
