package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/migration"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
	"github.com/julianstephens/habitree/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitree init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Validate schema version using embedded migrations
	if err := s.validateSchemaVersion(); err != nil {
		return err
	}

	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.Up(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Check()
}

// SchemaVersion reports the applied and latest known schema versions.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	return runner.Versions()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version, document
		FROM habits WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var version int
		var doc string
		if err := rows.Scan(&version, &doc); err != nil {
			return nil, err
		}
		h, err := storage.DecodeHabit([]byte(doc), version)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) GetHabit(ctx context.Context, userID, habitID string) (models.Habit, error) {
	var version int
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT version, document
		FROM habits WHERE user_id = ? AND id = ?`, userID, habitID).Scan(&version, &doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, storage.ErrHabitNotFound
		}
		return models.Habit{}, fmt.Errorf("failed to get habit: %w", err)
	}
	return storage.DecodeHabit([]byte(doc), version)
}

func (s *Store) SaveHabit(ctx context.Context, userID string, habit *models.Habit) error {
	next := *habit
	next.Version = habit.Version + 1
	doc, err := storage.EncodeHabit(next)
	if err != nil {
		return err
	}

	var res sql.Result
	if habit.Version == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO habits (user_id, id, version, created_at, updated_at, document)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, id) DO NOTHING`,
			userID, habit.ID, next.Version,
			storage.FormatTimestamp(habit.CreatedAt), storage.FormatTimestamp(habit.UpdatedAt), string(doc))
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE habits SET version = version + 1, updated_at = ?, document = ?
			WHERE user_id = ? AND id = ? AND version = ?`,
			storage.FormatTimestamp(habit.UpdatedAt), string(doc), userID, habit.ID, habit.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	if n == 0 {
		return storage.ErrConflict
	}

	habit.Version = next.Version
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE user_id = ? AND id = ?", userID, habitID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sql.DB {
	return s.db
}
