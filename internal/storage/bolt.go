package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var walletBucket = []byte("wallet")

// BoltBackend stores keys in a single bbolt bucket on disk.
type BoltBackend struct {
	db   *bbolt.DB
	path string
}

// NewBoltBackend opens (or creates) the bbolt file at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(walletBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltBackend{db: db, path: path}, nil
}

func (b *BoltBackend) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(walletBucket).Get([]byte(key))
		if v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, translateBoltErr(err)
	}
	return value, found, nil
}

func (b *BoltBackend) Set(key, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(walletBucket).Put([]byte(key), []byte(value))
	})
	return translateBoltErr(err)
}

func (b *BoltBackend) Remove(key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(walletBucket).Delete([]byte(key))
	})
	return translateBoltErr(err)
}

func (b *BoltBackend) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0)
	p := []byte(prefix)
	err := b.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(walletBucket).Cursor()
		for k, _ := cursor.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = cursor.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, translateBoltErr(err)
	}
	return keys, nil
}

func (b *BoltBackend) Name() string {
	return fmt.Sprintf("bolt-%s", filepath.Base(b.path))
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

func translateBoltErr(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}
