package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/hailam/chesslens/internal/session"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keySession     = "session"
	keyFirstLaunch = "first_launch"
)

// Preferences stores viewer settings that outlive a session.
type Preferences struct {
	Palette    string    `json:"palette"`
	Resolution int       `json:"resolution"`
	LastOpened time.Time `json:"last_opened"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Palette:    "four",
		Resolution: 800,
		LastOpened: time.Now(),
	}
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db  *badger.DB
	log *zap.Logger
}

// Open opens the database in dir, or in the default data directory when dir
// is empty.
func Open(dir string, log *zap.Logger) (*Storage, error) {
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dbDir, err)
	}
	log.Debug("storage opened", zap.String("dir", dbDir))
	return &Storage{db: db, log: log}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true until MarkFirstLaunchComplete is called.
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})
	return firstLaunch, err
}

// MarkFirstLaunchComplete records that the viewer has run before.
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves preferences, stamping LastOpened.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastOpened = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returning defaults if none are stored.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return DefaultPreferences(), err
	}
	return prefs, nil
}

// SaveSession stores the session so the next launch can resume it.
func (s *Storage) SaveSession(snap session.Snapshot) error {
	if err := s.put(keySession, snap); err != nil {
		return err
	}
	s.log.Debug("session saved", zap.Int("moves", len(snap.Moves)), zap.Int("redo", len(snap.Redo)))
	return nil
}

// LoadSession returns the stored session, reporting false if there is none.
func (s *Storage) LoadSession() (session.Snapshot, bool, error) {
	var snap session.Snapshot
	found, err := s.get(keySession, &snap)
	return snap, found, err
}

// ClearSession forgets the stored session.
func (s *Storage) ClearSession() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySession))
	})
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
