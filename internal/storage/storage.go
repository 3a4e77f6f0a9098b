package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/deepcore-chess/deepcore-backend/internal/record"
)

const (
	keyPreferences = "preferences"
	gameKeyPrefix  = "game:"
)

// ErrGameRecordNotFound is returned when no saved game exists for an ID.
var ErrGameRecordNotFound = errors.New("game record not found")

// Preferences are the user-tunable settings the clients read and write.
type Preferences struct {
	SoundEnabled bool           `json:"soundEnabled"`
	VsComputer   bool           `json:"vsComputer"`
	Engine       map[string]any `json:"engine"`
	LastPlayed   time.Time      `json:"lastPlayed"`
}

// DefaultPreferences returns the settings used before any are saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		SoundEnabled: true,
		VsComputer:   false,
		Engine:       map[string]any{},
	}
}

// Store wraps BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database under dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame persists a game record under its ID.
func (s *Store) SaveGame(rec record.GameRecord) error {
	data, err := record.EncodeJSON(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(gameKeyPrefix+rec.ID), data)
	})
}

// LoadGame returns the saved record for id.
func (s *Store) LoadGame(id string) (record.GameRecord, error) {
	var rec record.GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gameKeyPrefix + id))
		if err == badger.ErrKeyNotFound {
			return ErrGameRecordNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err = record.DecodeJSON(val)
			return err
		})
	})
	return rec, err
}

// ListGameIDs returns the IDs of every saved game.
func (s *Store) ListGameIDs() ([]string, error) {
	ids := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(gameKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return ids, err
}

// SavePreferences stores prefs, stamping the save time.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences returns the stored preferences, or defaults if none were
// ever saved.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}
