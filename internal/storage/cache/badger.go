package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
)

// BadgerConfig holds configuration for the Badger-backed cache.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	SyncWrites bool
}

// DefaultBadgerConfig returns the on-disk defaults.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{SyncWrites: true}
}

// InMemoryBadgerConfig returns a configuration with no disk I/O.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger routes Badger's internal logging into the app logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error(fmt.Sprintf(format, args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerCache stores each habit under habit/<namespace>/<id>.
type BadgerCache struct {
	db *badger.DB
}

// OpenBadger opens the cache database described by cfg.
func OpenBadger(cfg BadgerConfig) (*BadgerCache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

func namespacePrefix(userID string) []byte {
	return []byte("habit/" + storage.Namespace(userID) + "/")
}

func habitKey(userID, habitID string) []byte {
	return append(namespacePrefix(userID), habitID...)
}

func (c *BadgerCache) List(_ context.Context, userID string) ([]models.Habit, error) {
	habits := []models.Habit{}
	prefix := namespacePrefix(userID)

	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var h models.Habit
				if err := json.Unmarshal(val, &h); err != nil {
					return fmt.Errorf("decode cached habit %s: %w", it.Item().Key(), err)
				}
				habits = append(habits, h)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	storage.SortNewestFirst(habits)
	return habits, nil
}

func (c *BadgerCache) Put(_ context.Context, userID string, habit models.Habit) error {
	data, err := json.Marshal(habit)
	if err != nil {
		return fmt.Errorf("encode habit %s: %w", habit.ID, err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(habitKey(userID, habit.ID), data)
	})
}

func (c *BadgerCache) Delete(_ context.Context, userID, habitID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(habitKey(userID, habitID))
	})
}

func (c *BadgerCache) Close() error {
	return c.db.Close()
}
