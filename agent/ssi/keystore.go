package ssi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

var (
	ErrWalletExists      = errors.New("wallet already exists")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrWalletAlreadyOpen = errors.New("wallet already open")
	ErrWalletAccess      = errors.New("wallet access denied")
	ErrInvalidHandle     = errors.New("invalid wallet handle")
	ErrNotFound          = errors.New("item not found")
	ErrDIDExists         = errors.New("DID already exists")
	ErrPairwiseExists    = errors.New("pairwise already exists")
	ErrDecrypt           = errors.New("cannot decrypt")
)

const (
	nonceLen = 24
	saltLen  = 16

	// handle of a wallet which open is in progress
	reserved = 0
)

var (
	keySalt  = []byte("salt")
	keyCheck = []byte("check")

	checkPlain = []byte("findy-cloud-agent wallet")
)

type wallet struct {
	id  string
	st  store
	key [32]byte
}

// Keystore is the Provider implementation. Wallets of the storage type
// "default" are bbolt files, "memory" wallets live as long as the Keystore.
type Keystore struct {
	l sync.Mutex

	dir     string
	next    int
	open    map[int]*wallet
	openIDs map[string]int
	mem     map[string]*memStore
}

// NewKeystore creates a keystore which stores file wallets to dir when their
// storage config doesn't tell the path.
func NewKeystore(dir string) *Keystore {
	return &Keystore{
		dir:     dir,
		open:    make(map[int]*wallet),
		openIDs: make(map[string]int),
		mem:     make(map[string]*memStore),
	}
}

type storageConfig struct {
	Path string `json:"path"`
}

func (k *Keystore) walletFile(cfg Config) (name string, err error) {
	defer err2.Handle(&err, "storage config")

	dir := k.dir
	if len(cfg.StorageConfig) > 0 && string(cfg.StorageConfig) != "null" {
		var sc storageConfig
		try.To(json.Unmarshal(cfg.StorageConfig, &sc))
		if sc.Path != "" {
			dir = sc.Path
		}
	}
	return filepath.Join(dir, cfg.ID+".bolt"), nil
}

func (k *Keystore) CreateWallet(ctx context.Context, cfg Config, creds Credentials) (err error) {
	defer err2.Handle(&err, "create wallet %s", cfg.ID)

	try.To(ctx.Err())
	if cfg.ID == "" {
		return errors.New("wallet id is empty")
	}
	salt := make([]byte, saltLen)
	try.To1(rand.Read(salt))
	key := try.To1(deriveKey(creds, salt))

	var st store
	switch cfg.StorageType {
	case StorageMemory:
		k.l.Lock()
		defer k.l.Unlock()
		if _, exists := k.mem[cfg.ID]; exists {
			return ErrWalletExists
		}
		m := newMemStore()
		k.mem[cfg.ID] = m
		st = m
	case "", StorageDefault:
		filename := try.To1(k.walletFile(cfg))
		if _, err := os.Stat(filename); err == nil {
			return ErrWalletExists
		}
		try.To(os.MkdirAll(filepath.Dir(filename), 0700))
		st = try.To1(openBolt(filename))
		defer st.close()
	default:
		return fmt.Errorf("unknown storage type: %s", cfg.StorageType)
	}

	try.To(st.put(bucketMeta, keySalt, salt))
	try.To(st.put(bucketMeta, keyCheck, seal(key, checkPlain)))
	glog.V(1).Infof("wallet %s (%s) created", cfg.ID, cfg.StorageType)
	return nil
}

// OpenWallet opens the wallet and returns its handle. The wallet ID is
// reserved under the keystore lock, but the key derivation and the store open
// run outside it so the other wallets aren't blocked.
func (k *Keystore) OpenWallet(ctx context.Context, cfg Config, creds Credentials) (h int, err error) {
	defer err2.Handle(&err, "open wallet %s", cfg.ID)

	try.To(ctx.Err())

	mem, err := k.reserve(cfg)
	if err != nil {
		return 0, err
	}
	defer err2.Handle(&err, func(err error) error {
		k.release(cfg.ID)
		return err
	})

	var st store
	switch cfg.StorageType {
	case StorageMemory:
		st = mem
	case "", StorageDefault:
		filename := try.To1(k.walletFile(cfg))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			return 0, ErrWalletNotFound
		}
		st = try.To1(openBolt(filename))
	default:
		return 0, fmt.Errorf("unknown storage type: %s", cfg.StorageType)
	}

	w, err := unlock(st, cfg.ID, creds)
	if err != nil {
		_ = st.close()
		return 0, err
	}

	k.l.Lock()
	defer k.l.Unlock()

	k.next++
	h = k.next
	k.open[h] = w
	k.openIDs[cfg.ID] = h
	glog.V(1).Infof("wallet %s open, handle: %d", cfg.ID, h)
	return h, nil
}

// reserve marks the wallet ID being opened. The memory store of the wallet is
// returned for the memory storage type.
func (k *Keystore) reserve(cfg Config) (mem *memStore, err error) {
	k.l.Lock()
	defer k.l.Unlock()

	if _, isOpen := k.openIDs[cfg.ID]; isOpen {
		return nil, ErrWalletAlreadyOpen
	}
	if cfg.StorageType == StorageMemory {
		m, exists := k.mem[cfg.ID]
		if !exists {
			return nil, ErrWalletNotFound
		}
		mem = m
	}
	k.openIDs[cfg.ID] = reserved
	return mem, nil
}

func (k *Keystore) release(id string) {
	k.l.Lock()
	defer k.l.Unlock()

	if k.openIDs[id] == reserved {
		delete(k.openIDs, id)
	}
}

func unlock(st store, id string, creds Credentials) (w *wallet, err error) {
	defer err2.Handle(&err)

	salt := try.To1(st.get(bucketMeta, keySalt))
	check := try.To1(st.get(bucketMeta, keyCheck))
	if salt == nil || check == nil {
		return nil, ErrWalletAccess
	}
	key := try.To1(deriveKey(creds, salt))
	if _, err := open(key, check); err != nil {
		return nil, ErrWalletAccess
	}
	return &wallet{id: id, st: st, key: *key}, nil
}

func (k *Keystore) CloseWallet(ctx context.Context, h int) (err error) {
	defer err2.Handle(&err, "close wallet")

	k.l.Lock()
	defer k.l.Unlock()

	w, ok := k.open[h]
	if !ok {
		return ErrInvalidHandle
	}
	delete(k.open, h)
	delete(k.openIDs, w.id)
	glog.V(1).Infof("wallet %s closed", w.id)
	return w.st.close()
}

// Backup writes a copy of the open wallet to the file as a bbolt database. The
// copy is sealed with the same key as the wallet.
func (k *Keystore) Backup(ctx context.Context, h int, filename string) (err error) {
	defer err2.Handle(&err, "backup wallet")

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))
	try.To(os.MkdirAll(filepath.Dir(filename), 0700))
	try.To(w.st.backup(filename))
	glog.V(1).Infof("wallet %s backup: %s", w.id, filename)
	return nil
}

func (k *Keystore) wallet(h int) (*wallet, error) {
	k.l.Lock()
	defer k.l.Unlock()

	w, ok := k.open[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return w, nil
}

func (k *Keystore) CreateAndStoreDID(
	ctx context.Context,
	h int,
	opts DIDOptions,
) (
	did, verkey string,
	err error,
) {
	defer err2.Handle(&err, "create DID")

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))

	seed := try.To1(newSeed(opts.Seed))
	verkey = verkeyOf(seed)
	did = opts.DID
	if did == "" {
		did = try.To1(DIDFromVerkey(verkey))
	}

	if err := w.st.insert(bucketMyDIDs, []byte(did), []byte(verkey)); err != nil {
		if errors.Is(err, errKeyExists) {
			return "", "", ErrDIDExists
		}
		return "", "", err
	}
	try.To(w.st.put(bucketMyKeys, []byte(verkey), seal(&w.key, seed)))

	glog.V(3).Infoln("new DID:", did)
	return did, verkey, nil
}

func (k *Keystore) StoreTheirDID(ctx context.Context, h int, their TheirDID) (err error) {
	defer err2.Handle(&err, "store their DID")

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))
	try.To1(curvePublic(their.Verkey))
	if their.DID == "" {
		return errors.New("their DID is empty")
	}
	return w.st.put(bucketTheirDIDs, []byte(their.DID), []byte(their.Verkey))
}

func (k *Keystore) KeyForLocalDID(ctx context.Context, h int, did string) (vk string, err error) {
	defer err2.Handle(&err, "key for DID %s", did)

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))
	return keyForDID(w, did)
}

func keyForDID(w *wallet, did string) (vk string, err error) {
	for _, b := range [][]byte{bucketMyDIDs, bucketTheirDIDs} {
		v, err := w.st.get(b, []byte(did))
		if err != nil {
			return "", err
		}
		if v != nil {
			return string(v), nil
		}
	}
	return "", ErrNotFound
}

type pairwiseRec struct {
	MyDID    string `json:"my_did"`
	Metadata string `json:"metadata,omitempty"`
}

func (k *Keystore) PairwiseExists(ctx context.Context, h int, theirDID string) (yes bool, err error) {
	defer err2.Handle(&err, "pairwise exists")

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))
	v := try.To1(w.st.get(bucketPairwise, []byte(theirDID)))
	return v != nil, nil
}

func (k *Keystore) CreatePairwise(
	ctx context.Context,
	h int,
	theirDID, myDID, metadata string,
) (err error) {
	defer err2.Handle(&err, "create pairwise")

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))

	if v := try.To1(w.st.get(bucketTheirDIDs, []byte(theirDID))); v == nil {
		return fmt.Errorf("their DID %s: %w", theirDID, ErrNotFound)
	}
	if v := try.To1(w.st.get(bucketMyDIDs, []byte(myDID))); v == nil {
		return fmt.Errorf("my DID %s: %w", myDID, ErrNotFound)
	}
	rec := try.To1(json.Marshal(pairwiseRec{MyDID: myDID, Metadata: metadata}))
	if err := w.st.insert(bucketPairwise, []byte(theirDID), rec); err != nil {
		if errors.Is(err, errKeyExists) {
			return ErrPairwiseExists
		}
		return err
	}
	glog.V(3).Infof("pairwise %s -> %s", myDID, theirDID)
	return nil
}

func (k *Keystore) ListPairwise(ctx context.Context, h int) (pws []Pairwise, err error) {
	defer err2.Handle(&err, "list pairwise")

	try.To(ctx.Err())
	w := try.To1(k.wallet(h))

	recs := make(map[string]pairwiseRec)
	try.To(w.st.forEach(bucketPairwise, func(key, v []byte) error {
		var rec pairwiseRec
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		recs[string(key)] = rec
		return nil
	}))
	// verkeys are resolved outside of the iteration transaction
	for theirDID, rec := range recs {
		pws = append(pws, Pairwise{
			TheirDID:    theirDID,
			TheirVerkey: try.To1(keyForDID(w, theirDID)),
			MyDID:       rec.MyDID,
			MyVerkey:    try.To1(keyForDID(w, rec.MyDID)),
			Metadata:    rec.Metadata,
		})
	}
	return pws, nil
}

func (k *Keystore) secret(h int, verkey string) (seed []byte, err error) {
	defer err2.Handle(&err, "secret key")

	w := try.To1(k.wallet(h))
	sealed := try.To1(w.st.get(bucketMyKeys, []byte(verkey)))
	if sealed == nil {
		return nil, fmt.Errorf("verkey %s: %w", verkey, ErrNotFound)
	}
	return open(&w.key, sealed)
}

func (k *Keystore) AuthBox(
	ctx context.Context,
	h int,
	myVerkey, theirVerkey string,
	msg []byte,
) (
	ct, nonce []byte,
	err error,
) {
	defer err2.Handle(&err, "auth box")

	try.To(ctx.Err())
	priv := curvePrivate(try.To1(k.secret(h, myVerkey)))
	pub := try.To1(curvePublic(theirVerkey))

	var n [nonceLen]byte
	try.To1(rand.Read(n[:]))
	return box.Seal(nil, msg, &n, pub, priv), n[:], nil
}

func (k *Keystore) AuthBoxOpen(
	ctx context.Context,
	h int,
	myVerkey, theirVerkey string,
	ct, nonce []byte,
) (
	msg []byte,
	err error,
) {
	defer err2.Handle(&err, "auth box open")

	try.To(ctx.Err())
	if len(nonce) != nonceLen {
		return nil, ErrDecrypt
	}
	priv := curvePrivate(try.To1(k.secret(h, myVerkey)))
	pub := try.To1(curvePublic(theirVerkey))

	var n [nonceLen]byte
	copy(n[:], nonce)
	msg, ok := box.Open(nil, ct, &n, pub, priv)
	if !ok {
		return nil, ErrDecrypt
	}
	return msg, nil
}

func (k *Keystore) SealOpen(ctx context.Context, h int, myVerkey string, ct []byte) (msg []byte, err error) {
	defer err2.Handle(&err, "seal open")

	try.To(ctx.Err())
	priv := curvePrivate(try.To1(k.secret(h, myVerkey)))
	pub := try.To1(curvePublic(myVerkey))

	msg, ok := box.OpenAnonymous(nil, ct, pub, priv)
	if !ok {
		return nil, ErrDecrypt
	}
	return msg, nil
}

func deriveKey(creds Credentials, salt []byte) (k *[32]byte, err error) {
	defer err2.Handle(&err, "derive wallet key")

	var key []byte
	switch creds.KeyDerivationMethod {
	case KeyDerivationRaw:
		key = try.To1(base58.Decode(creds.Key))
		if len(key) != 32 {
			return nil, errors.New("raw key must be 32 bytes")
		}
	case KeyDerivationArgon2i:
		key = argon2.Key([]byte(creds.Key), salt, 1, 8*1024, 1, 32)
	case "", KeyDerivationArgon2id:
		key = argon2.IDKey([]byte(creds.Key), salt, 1, 16*1024, 2, 32)
	default:
		return nil, fmt.Errorf("unknown key derivation method: %s",
			creds.KeyDerivationMethod)
	}
	k = new([32]byte)
	copy(k[:], key)
	return k, nil
}

func seal(key *[32]byte, data []byte) []byte {
	var n [nonceLen]byte
	if _, err := rand.Read(n[:]); err != nil {
		panic(err)
	}
	return secretbox.Seal(n[:], data, &n, key)
}

func open(key *[32]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < nonceLen {
		return nil, ErrDecrypt
	}
	var n [nonceLen]byte
	copy(n[:], sealed[:nonceLen])
	data, ok := secretbox.Open(nil, sealed[nonceLen:], &n, key)
	if !ok {
		return nil, ErrDecrypt
	}
	return data, nil
}
