package ssi

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketMeta      = []byte("meta")
	bucketMyKeys    = []byte("mykeys")
	bucketMyDIDs    = []byte("mydids")
	bucketTheirDIDs = []byte("theirdids")
	bucketPairwise  = []byte("pairwise")

	buckets = [][]byte{bucketMeta, bucketMyKeys, bucketMyDIDs, bucketTheirDIDs,
		bucketPairwise}
)

var errKeyExists = errors.New("key exists")

// store is the wallet storage. get returns nil value when key isn't found,
// insert fails with errKeyExists when it is.
type store interface {
	get(bucket, key []byte) ([]byte, error)
	put(bucket, key, value []byte) error
	insert(bucket, key, value []byte) error
	forEach(bucket []byte, fn func(k, v []byte) error) error
	backup(filename string) error
	close() error
}

type boltStore struct {
	db *bolt.DB
}

func openBolt(filename string) (s *boltStore, err error) {
	defer err2.Handle(&err, "open bolt")

	db := try.To1(bolt.Open(filename, 0600, &bolt.Options{Timeout: time.Second}))
	err = db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err, "create buckets")

		for _, b := range buckets {
			try.To1(tx.CreateBucketIfNotExists(b))
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) get(bucket, key []byte) (value []byte, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		if d := tx.Bucket(bucket).Get(key); d != nil {
			value = bytes.Clone(d)
		}
		return nil
	})
	return value, err
}

func (s *boltStore) put(bucket, key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, value)
	})
}

func (s *boltStore) insert(bucket, key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get(key) != nil {
			return errKeyExists
		}
		return b.Put(key, value)
	})
}

func (s *boltStore) forEach(bucket []byte, fn func(k, v []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(fn)
	})
}

// backup writes a consistent copy of the database to the file.
func (s *boltStore) backup(filename string) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(filename, 0600)
	})
}

func (s *boltStore) close() error {
	return s.db.Close()
}

// memStore keeps the buckets in memory. Its data lives as long as the
// Keystore, closing it only marks it closed.
type memStore struct {
	sync.RWMutex
	b map[string]map[string][]byte
}

func newMemStore() *memStore {
	m := &memStore{b: make(map[string]map[string][]byte)}
	for _, b := range buckets {
		m.b[string(b)] = make(map[string][]byte)
	}
	return m
}

func (m *memStore) get(bucket, key []byte) ([]byte, error) {
	m.RLock()
	defer m.RUnlock()
	return bytes.Clone(m.b[string(bucket)][string(key)]), nil
}

func (m *memStore) put(bucket, key, value []byte) error {
	m.Lock()
	defer m.Unlock()
	m.b[string(bucket)][string(key)] = bytes.Clone(value)
	return nil
}

func (m *memStore) insert(bucket, key, value []byte) error {
	m.Lock()
	defer m.Unlock()
	b := m.b[string(bucket)]
	if _, ok := b[string(key)]; ok {
		return errKeyExists
	}
	b[string(key)] = bytes.Clone(value)
	return nil
}

func (m *memStore) forEach(bucket []byte, fn func(k, v []byte) error) error {
	m.RLock()
	defer m.RUnlock()
	for k, v := range m.b[string(bucket)] {
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

// backup writes the buckets to a new bbolt file, the same format file wallets
// have.
func (m *memStore) backup(filename string) error {
	bs, err := openBolt(filename)
	if err != nil {
		return err
	}
	defer bs.close()

	m.RLock()
	defer m.RUnlock()
	for b, kv := range m.b {
		for k, v := range kv {
			if err := bs.put([]byte(b), []byte(k), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *memStore) close() error {
	return nil
}
