package farkle

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// Store persists settings, the game in progress and the turn log so that a
// host can resume after restarting.
type Store interface {
	LoadSettings() (Config, error)
	SaveSettings(cfg Config) error
	// LoadGame returns ErrNotFound if nothing is saved. The snapshot is not
	// validated; Restore does that.
	LoadGame() (Snapshot, error)
	SaveGame(snap Snapshot) error
	LoadLog() ([]LogEntry, error)
	SaveLog(entries []LogEntry) error
	// Reset removes every record.
	Reset() error
	io.Closer
}

const (
	settingsKey = "settings"
	playKey     = "play"
	logKey      = "log"
)

var allKeys = []string{settingsKey, playKey, logKey}

// kv is the raw record storage behind a Store. get returns ErrNotFound for
// a missing key.
type kv interface {
	get(key string) ([]byte, error)
	put(key string, value []byte) error
	del(key string) error
}

// records implements the Store methods on top of a kv as JSON documents.
type records struct {
	kv kv
}

func (r records) load(key string, v interface{}) error {
	buf, err := r.kv.get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

func (r records) save(key string, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return r.kv.put(key, buf)
}

func (r records) LoadSettings() (Config, error) {
	var cfg Config
	if err := r.load(settingsKey, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.Normalize(), nil
}

func (r records) SaveSettings(cfg Config) error {
	return r.save(settingsKey, cfg)
}

func (r records) LoadGame() (Snapshot, error) {
	buf, err := r.kv.get(playKey)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := snap.UnmarshalBinary(buf); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r records) SaveGame(snap Snapshot) error {
	buf, err := snap.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return r.kv.put(playKey, buf)
}

func (r records) LoadLog() ([]LogEntry, error) {
	var entries []LogEntry
	if err := r.load(logKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r records) SaveLog(entries []LogEntry) error {
	return r.save(logKey, entries)
}

func (r records) Reset() error {
	for _, key := range allKeys {
		if err := r.kv.del(key); err != nil {
			return err
		}
	}
	return nil
}

// MemoryStore keeps records in a map. State is lost when the process exits.
type MemoryStore struct {
	records
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: records{kv: &memKV{values: make(map[string][]byte)}},
	}
}

func (s *MemoryStore) Close() error {
	return nil
}

type memKV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func (m *memKV) get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, errors.Wrapf(ErrNotFound, "%s", key)
}

func (m *memKV) put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStore keeps one JSON file per record in a directory. Access is
// serialized across processes with flock on a lock file in the directory, and
// writes replace files atomically.
type FileStore struct {
	records
	lock *os.File
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	lock, err := os.OpenFile(filepath.Join(dir, ".lock"), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open lock file")
	}
	return &FileStore{
		records: records{kv: &fileKV{dir: dir, fd: int(lock.Fd())}},
		lock:    lock,
	}, nil
}

func (s *FileStore) Close() error {
	return s.lock.Close()
}

type fileKV struct {
	dir string
	fd  int
}

func (f *fileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileKV) withLock(how int, fn func() error) error {
	if err := unix.Flock(f.fd, how); err != nil {
		return errors.Wrap(err, "flock")
	}
	defer unix.Flock(f.fd, unix.LOCK_UN)
	return fn()
}

func (f *fileKV) get(key string) ([]byte, error) {
	var buf []byte
	err := f.withLock(unix.LOCK_SH, func() error {
		var err error
		buf, err = os.ReadFile(f.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(ErrNotFound, "%s", key)
		}
		return err
	})
	return buf, err
}

func (f *fileKV) put(key string, value []byte) error {
	return f.withLock(unix.LOCK_EX, func() error {
		tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
		if err != nil {
			return errors.Wrap(err, "create temp file")
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.Write(value); err != nil {
			_ = tmp.Close()
			return errors.Wrapf(err, "write %s", key)
		}
		if err := tmp.Sync(); err != nil {
			_ = tmp.Close()
			return errors.Wrapf(err, "sync %s", key)
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		return os.Rename(tmp.Name(), f.path(key))
	})
}

func (f *fileKV) del(key string) error {
	return f.withLock(unix.LOCK_EX, func() error {
		err := os.Remove(f.path(key))
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	})
}
