package storage

import (
	"context"
	"errors"

	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/models"
)

var (
	// ErrHabitNotFound is returned by stores when no habit matches the id
	ErrHabitNotFound = errors.New("habit not found")
	// ErrConflict is returned by SaveHabit when the stored version differs
	// from the version carried by the habit being saved.
	ErrConflict = apperrors.ErrConflict
)

// Provider is the durable habit store. Habits are partitioned by user id.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// ListHabits returns every habit for the user, newest created first.
	ListHabits(ctx context.Context, userID string) ([]models.Habit, error)
	// GetHabit returns ErrHabitNotFound when the id is unknown.
	GetHabit(ctx context.Context, userID, habitID string) (models.Habit, error)
	// SaveHabit upserts the full habit document. habit.Version must equal
	// the stored version (0 for a new habit); on success it is incremented
	// in place. A mismatch returns ErrConflict and leaves the store as is.
	SaveHabit(ctx context.Context, userID string, habit *models.Habit) error
	// DeleteHabit removes the habit. Deleting an absent habit is not an error.
	DeleteHabit(ctx context.Context, userID, habitID string) error

	// Utils
	GetConfigPath() string
}

// Cache is the local mirror of the durable store. It has no version checks;
// the last Put wins. An empty userID addresses the anonymous slot.
type Cache interface {
	List(ctx context.Context, userID string) ([]models.Habit, error)
	Put(ctx context.Context, userID string, habit models.Habit) error
	Delete(ctx context.Context, userID, habitID string) error
	Close() error
}
