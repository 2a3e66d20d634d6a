// Package habits owns the habit aggregate: creation, the check-in state
// machine, branch operations, progress-entry edits, and the daily chain
// reconciler. Every mutation is a load, apply, save cycle against the durable
// store, retried on version conflicts and mirrored into the local cache.
package habits

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitree/internal/constants"
	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
	"github.com/julianstephens/habitree/internal/streak"
	"github.com/julianstephens/habitree/internal/utils"
	"github.com/julianstephens/habitree/internal/validation"
)

// Service runs habit operations for any user. A nil store puts the service
// in offline mode, where the cache is the only source of truth.
type Service struct {
	store  storage.Provider
	cache  storage.Cache
	clock  utils.Clock
	loc    *time.Location
	policy streak.Policy
}

// Option configures a Service.
type Option func(*Service)

// WithClock pins the service's notion of "now".
func WithClock(clock utils.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLocation sets the timezone that decides calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithPolicy selects the streak rule used by Stats.
func WithPolicy(p streak.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func NewService(store storage.Provider, cache storage.Cache, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cache:  cache,
		clock:  utils.SystemClock,
		loc:    time.Local,
		policy: streak.PolicyChecks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock().In(s.loc)
}

// Today returns the current calendar date in the service's timezone.
func (s *Service) Today() string {
	return utils.Today(s.clock(), s.loc)
}

// Yesterday returns the previous calendar date in the service's timezone.
func (s *Service) Yesterday() string {
	return utils.Yesterday(s.clock(), s.loc)
}

// Online reports whether operations for userID go to the durable store.
func (s *Service) Online(userID string) bool {
	return s.store != nil && userID != ""
}

// GetHabits returns every habit for the user, newest first. A durable read
// failure falls back to the cache and is only logged.
func (s *Service) GetHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	if s.Online(userID) {
		habits, err := s.store.ListHabits(ctx, userID)
		if err == nil {
			for _, h := range habits {
				s.mirror(ctx, userID, h)
			}
			return habits, nil
		}
		logger.Warn("Durable habit read failed, using local cache", "user", userID, "error", err)
	}

	habits, err := s.cache.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence("list habits", err)
	}
	return habits, nil
}

// GetHabit returns a single habit or a NotFoundError.
func (s *Service) GetHabit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	return s.load(ctx, userID, habitID)
}

// CreateHabit builds a habit with a single active node for today and saves
// it. Online, a durable write failure is returned as a PersistenceError and
// nothing is cached.
func (s *Service) CreateHabit(ctx context.Context, userID string, in models.HabitInput) (models.Habit, error) {
	if err := validation.ValidateHabitInput(in); err != nil {
		return models.Habit{}, err
	}

	now := s.now()
	h := newHabit(in, now, s.Today())

	if s.Online(userID) {
		if err := s.store.SaveHabit(ctx, userID, &h); err != nil {
			return models.Habit{}, apperrors.Persistence("create habit", err)
		}
		s.mirror(ctx, userID, h)
		logger.Debug("Created habit", "id", h.ID, "user", userID)
		return h, nil
	}

	if err := s.cache.Put(ctx, userID, h); err != nil {
		return models.Habit{}, apperrors.Persistence("cache habit", err)
	}
	return h, nil
}

// UpdateHabit merges top-level fields into the stored habit. Tree nodes are
// never touched.
func (s *Service) UpdateHabit(ctx context.Context, userID, habitID string, u models.HabitUpdate) (models.Habit, error) {
	if err := validation.ValidateHabitUpdate(u); err != nil {
		return models.Habit{}, err
	}
	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		u.Apply(h)
		return validation.ValidateHabit(*h)
	})
}

// DeleteHabit removes the habit from the store and the cache. Deleting an
// absent habit still reports true.
func (s *Service) DeleteHabit(ctx context.Context, userID, habitID string) (bool, error) {
	if s.Online(userID) {
		if err := s.store.DeleteHabit(ctx, userID, habitID); err != nil {
			return false, apperrors.Persistence("delete habit", err)
		}
		if err := s.cache.Delete(ctx, userID, habitID); err != nil {
			logger.Warn("Cache delete failed", "id", habitID, "error", err)
		}
		return true, nil
	}

	if err := s.cache.Delete(ctx, userID, habitID); err != nil {
		return false, apperrors.Persistence("delete cached habit", err)
	}
	return true, nil
}

// Stats derives streak and completion figures using the configured policy.
func (s *Service) Stats(h models.Habit) streak.Summary {
	return streak.Stats(h, s.policy)
}

// TodayNode returns the live node for today, if the habit has one.
func (s *Service) TodayNode(h models.Habit) (models.TreeNode, bool) {
	return h.TodayNode(s.Today())
}

func (s *Service) load(ctx context.Context, userID, habitID string) (models.Habit, error) {
	if s.Online(userID) {
		h, err := s.store.GetHabit(ctx, userID, habitID)
		if err != nil {
			if apperrors.Is(err, storage.ErrHabitNotFound) {
				return models.Habit{}, apperrors.NotFound("habit", habitID)
			}
			return models.Habit{}, apperrors.Persistence("load habit", err)
		}
		return h, nil
	}

	habits, err := s.cache.List(ctx, userID)
	if err != nil {
		return models.Habit{}, apperrors.Persistence("load cached habit", err)
	}
	for _, h := range habits {
		if h.ID == habitID {
			return h, nil
		}
	}
	return models.Habit{}, apperrors.NotFound("habit", habitID)
}

// save writes h durably first and mirrors it afterwards. Offline, the cache
// write is the save and its error is returned.
func (s *Service) save(ctx context.Context, userID string, h *models.Habit) error {
	if s.Online(userID) {
		if err := s.store.SaveHabit(ctx, userID, h); err != nil {
			if apperrors.Is(err, storage.ErrConflict) {
				return err
			}
			return apperrors.Persistence("save habit", err)
		}
		s.mirror(ctx, userID, *h)
		return nil
	}

	h.Version++
	if err := s.cache.Put(ctx, userID, *h); err != nil {
		h.Version--
		return apperrors.Persistence("cache habit", err)
	}
	return nil
}

func (s *Service) mirror(ctx context.Context, userID string, h models.Habit) {
	if err := s.cache.Put(ctx, userID, h); err != nil {
		logger.Warn("Cache mirror failed", "id", h.ID, "error", err)
	}
}

// mutate loads the habit, applies fn, and saves. A version conflict reruns
// the whole cycle against a fresh copy, up to constants.MaxSaveAttempts.
func (s *Service) mutate(ctx context.Context, userID, habitID string, fn func(*models.Habit) error) (models.Habit, error) {
	log := logger.With("id", habitID, "user", userID)
	for attempt := 1; ; attempt++ {
		h, err := s.load(ctx, userID, habitID)
		if err != nil {
			return models.Habit{}, err
		}
		if err := fn(&h); err != nil {
			return models.Habit{}, err
		}
		h.UpdatedAt = s.now()

		err = s.save(ctx, userID, &h)
		if err == nil {
			return h, nil
		}
		if !apperrors.Is(err, storage.ErrConflict) {
			return models.Habit{}, err
		}
		if attempt >= constants.MaxSaveAttempts {
			return models.Habit{}, fmt.Errorf("habit %s changed concurrently %d times: %w", habitID, attempt, err)
		}
		log.Debug("Version conflict, retrying", "attempt", attempt)
	}
}
