package habits

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory storage.Provider with failure injection.
type memStore struct {
	mu     sync.Mutex
	habits map[string]map[string]models.Habit

	failList   bool
	failGet    bool
	failSave   bool
	failSaveID string
	failDelete bool
	// conflicts makes the next N saves lose a race against another writer
	conflicts int
	saves     int
}

func newMemStore() *memStore {
	return &memStore{habits: map[string]map[string]models.Habit{}}
}

func (m *memStore) Init() error           { return nil }
func (m *memStore) Load() error           { return nil }
func (m *memStore) Close() error          { return nil }
func (m *memStore) GetConfigPath() string { return "memory" }

func (m *memStore) ListHabits(_ context.Context, userID string) ([]models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errStoreDown
	}
	habits := []models.Habit{}
	for _, h := range m.habits[userID] {
		habits = append(habits, h.Clone())
	}
	storage.SortNewestFirst(habits)
	return habits, nil
}

func (m *memStore) GetHabit(_ context.Context, userID, habitID string) (models.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return models.Habit{}, errStoreDown
	}
	h, ok := m.habits[userID][habitID]
	if !ok {
		return models.Habit{}, storage.ErrHabitNotFound
	}
	return h.Clone(), nil
}

func (m *memStore) SaveHabit(_ context.Context, userID string, habit *models.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave || (m.failSaveID != "" && m.failSaveID == habit.ID) {
		return errStoreDown
	}
	if m.habits[userID] == nil {
		m.habits[userID] = map[string]models.Habit{}
	}
	stored, exists := m.habits[userID][habit.ID]

	if m.conflicts > 0 && exists {
		m.conflicts--
		stored.Version++
		m.habits[userID][habit.ID] = stored
		return storage.ErrConflict
	}

	current := 0
	if exists {
		current = stored.Version
	}
	if current != habit.Version {
		return storage.ErrConflict
	}

	habit.Version++
	m.habits[userID][habit.ID] = habit.Clone()
	m.saves++
	return nil
}

func (m *memStore) DeleteHabit(_ context.Context, userID, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return errStoreDown
	}
	delete(m.habits[userID], habitID)
	return nil
}

// flakyCache wraps a real cache and can refuse writes.
type flakyCache struct {
	storage.Cache
	failPut bool
}

func (c *flakyCache) Put(ctx context.Context, userID string, h models.Habit) error {
	if c.failPut {
		return errors.New("cache full")
	}
	return c.Cache.Put(ctx, userID, h)
}
