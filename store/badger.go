// ABOUTME: BadgerDB implementation of the store backend
// ABOUTME: Translates badger transactions and its not-found error into the backend contract

package store

import (
	"errors"

	"github.com/dgraph-io/badger/v3"
)

type badgerBackend struct {
	db *badger.DB
}

func openBadger(dir string) (*badgerBackend, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil) // badger's own logger is too chatty for a daemon log
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerBackend{db: db}, nil
}

func (b *badgerBackend) Get(key string) (string, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (b *badgerBackend) Set(key, value string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (b *badgerBackend) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (b *badgerBackend) DropAll() error {
	return b.db.DropAll()
}

func (b *badgerBackend) Close() error {
	return b.db.Close()
}
