package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
)

// JSONCache keeps one <namespace>.json file per user under dir.
type JSONCache struct {
	dir string
	mu  sync.Mutex
}

func NewJSON(dir string) (*JSONCache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &JSONCache{dir: dir}, nil
}

func (c *JSONCache) path(userID string) string {
	return filepath.Join(c.dir, storage.Namespace(userID)+".json")
}

func (c *JSONCache) load(userID string) (map[string]models.Habit, error) {
	data, err := os.ReadFile(c.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.Habit{}, nil
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	habits := map[string]models.Habit{}
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("failed to parse cache: %w", err)
	}
	return habits, nil
}

func (c *JSONCache) save(userID string, habits map[string]models.Habit) error {
	data, err := json.MarshalIndent(habits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file behind
	tmp := c.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path(userID)); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func (c *JSONCache) List(_ context.Context, userID string) ([]models.Habit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID, err := c.load(userID)
	if err != nil {
		return nil, err
	}
	habits := make([]models.Habit, 0, len(byID))
	for _, h := range byID {
		habits = append(habits, h)
	}
	storage.SortNewestFirst(habits)
	return habits, nil
}

func (c *JSONCache) Put(_ context.Context, userID string, habit models.Habit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID, err := c.load(userID)
	if err != nil {
		return err
	}
	byID[habit.ID] = habit
	return c.save(userID, byID)
}

func (c *JSONCache) Delete(_ context.Context, userID, habitID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID, err := c.load(userID)
	if err != nil {
		return err
	}
	if _, ok := byID[habitID]; !ok {
		return nil
	}
	delete(byID, habitID)
	return c.save(userID, byID)
}

func (c *JSONCache) Close() error {
	return nil
}
