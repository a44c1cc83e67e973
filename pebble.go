package farkle

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps records in a pebble database, one key per record.
type PebbleStore struct {
	records
	db *pebble.DB
}

// NewPebbleStore opens (or creates) the database at dir. A nil opts uses
// pebble's defaults.
func NewPebbleStore(dir string, opts *pebble.Options) (*PebbleStore, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %s", dir)
	}
	return &PebbleStore{
		records: records{kv: pebbleKV{db: db}},
		db:      db,
	}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

type pebbleKV struct {
	db *pebble.DB
}

func (p pebbleKV) get(key string) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%s", key)
	} else if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	defer closer.Close()
	return append([]byte(nil), value...), nil
}

func (p pebbleKV) put(key string, value []byte) error {
	return p.db.Set([]byte(key), value, pebble.Sync)
}

func (p pebbleKV) del(key string) error {
	return p.db.Delete([]byte(key), pebble.Sync)
}
