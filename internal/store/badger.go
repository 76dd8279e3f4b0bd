package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Badger is a Store backed by an embedded BadgerDB directory. It is the
// durable per-deployment backend, standing in for the key-value storage the
// data model was designed around.
type Badger struct {
	db  *badger.DB
	log zerolog.Logger
}

// OpenBadger opens (or creates) a BadgerDB store at the given directory.
func OpenBadger(path string, log zerolog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %s: %w", path, err)
	}
	return &Badger{db: db, log: log.With().Str("store", "badger").Logger()}, nil
}

func (b *Badger) Read(key string) ([]byte, bool) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			b.log.Warn().Err(err).Str("key", key).Msg("Read failed, treating as absent")
		}
		return nil, false
	}
	return out, true
}

func (b *Badger) Write(key string, data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (b *Badger) Remove(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close releases the underlying database
func (b *Badger) Close() error {
	return b.db.Close()
}
