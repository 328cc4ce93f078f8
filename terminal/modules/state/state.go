package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/juju/fslock"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// State is the terminal's session store. It keeps the selected client
// record, the per-client attachment flags and the workflow dump. Values
// survive daemon restarts inside one session directory; Reset starts a new
// session.
type State interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	DeleteByPrefix(prefix string) error
	Reset(stateDbPath string) (string, error)
	Close() error
}

type LevelDBState struct {
	sync.Mutex
	stateDb     *leveldb.DB
	flock       *fslock.Lock
	stateDbPath string
}

// NewLevelDBState opens the session store, taking an exclusive file lock so
// two daemons cannot share one session directory.
func NewLevelDBState(stateDbPath string) (*LevelDBState, error) {
	flock := fslock.New(stateDbPath + ".lock")
	if err := flock.TryLock(); err != nil {
		return nil, fmt.Errorf("session store %s is locked by another process: %w", stateDbPath, err)
	}

	db, err := leveldb.OpenFile(stateDbPath, nil)
	if err != nil {
		_ = flock.Unlock()
		return nil, fmt.Errorf("failed to open stateDB: %w", err)
	}

	return &LevelDBState{
		stateDb:     db,
		flock:       flock,
		stateDbPath: stateDbPath,
	}, nil
}

// Reset closes the current session and opens a fresh underlying storage.
func (s *LevelDBState) Reset(stateDbPath string) (string, error) {
	s.Lock()
	defer s.Unlock()

	if len(stateDbPath) < 1 {
		stateDbPath = fmt.Sprintf("%s_%d", s.stateDbPath, time.Now().Unix())
	}

	newState, err := NewLevelDBState(stateDbPath)
	if err != nil {
		return stateDbPath, fmt.Errorf("failed to open stateDB: %w", err)
	}

	_ = s.stateDb.Close()
	_ = s.flock.Unlock()

	s.stateDb = newState.stateDb
	s.flock = newState.flock
	s.stateDbPath = stateDbPath

	return stateDbPath, nil
}

// Get returns nil for an absent key.
func (s *LevelDBState) Get(key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	value, err := s.stateDb.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get value with key {%s} from leveldb storage: %w", key, err)
	}
	return value, nil
}

func (s *LevelDBState) Set(key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("failed to save value with key %s: %w", key, err)
	}
	return nil
}

func (s *LevelDBState) Delete(key string) error {
	s.Lock()
	defer s.Unlock()

	err := s.stateDb.Delete([]byte(key), nil)
	if err != nil && !errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("failed to delete value with key {%s}: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every key under prefix in one batch. This is the
// invalidation primitive behind "begin new lookup".
func (s *LevelDBState) DeleteByPrefix(prefix string) error {
	s.Lock()
	defer s.Unlock()

	batch := new(leveldb.Batch)
	iter := s.stateDb.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to iterate keys with prefix {%s}: %w", prefix, err)
	}

	if err := s.stateDb.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to delete keys with prefix {%s}: %w", prefix, err)
	}
	return nil
}

func (s *LevelDBState) Close() error {
	s.Lock()
	defer s.Unlock()

	if err := s.stateDb.Close(); err != nil {
		return fmt.Errorf("failed to close stateDB: %w", err)
	}
	return s.flock.Unlock()
}

func MakeCompositeKeyString(prefix, key string) string {
	return fmt.Sprintf("%s_%s", prefix, key)
}
