package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	BucketRuns = "runs"
)

var ErrNotFound = errors.New("run not found")

type Store struct {
	db       *bbolt.DB
	filePath string
}

// DefaultPath is $HOME/.reqbench/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".reqbench", "history.db"), nil
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}

	// Initialize Buckets
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:       db,
		filePath: path,
	}, nil
}

func (s *Store) Path() string { return s.filePath }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores item under a time-ordered key so List can walk newest first.
func (s *Store) Save(item HistoryItem) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketRuns))

		data, err := json.Marshal(item)
		if err != nil {
			return err
		}

		return b.Put(runKey(item), data)
	})
}

// List returns items newest first. Entries that fail to decode are skipped.
func (s *Store) List() ([]HistoryItem, error) {
	var items []HistoryItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketRuns))
		c := b.Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var item HistoryItem
			if err := json.Unmarshal(v, &item); err == nil {
				items = append(items, item)
			}
		}
		return nil
	})

	return items, err
}

// Get finds a run by its ID or by a unique ID prefix.
func (s *Store) Get(id string) (*HistoryItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}

	var found *HistoryItem
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
		if len(id) >= 4 && len(items[i].ID) > len(id) && items[i].ID[:len(id)] == id {
			if found != nil {
				return nil, fmt.Errorf("ambiguous run id prefix %q", id)
			}
			found = &items[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return found, nil
}

func runKey(item HistoryItem) []byte {
	return []byte(fmt.Sprintf("%020d-%s", item.Timestamp.UnixNano(), item.ID))
}
