package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitree/internal/backup"
	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/storage"
	"github.com/julianstephens/habitree/internal/storage/postgres"
	"github.com/julianstephens/habitree/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if ctx.Store == nil {
		return errors.New("storage.driver is 'none'; there is no durable store to initialize")
	}

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitree storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying habits from: %s\n", c.Source)
		if err := c.copyHabits(ctx, c.Source); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}

	return nil
}

// reset deletes an existing SQLite file. Postgres schemas are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for sqlite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if path, err := backup.NewManager(dbPath).Create(); err != nil {
			logger.Warn("Could not back up database before reset", "error", err)
		} else {
			ctx.Printf("Backed up existing database to: %s\n", path)
		}
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) copyHabits(ctx *cli.Context, source string) error {
	var src storage.Provider
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		src = postgres.New(source)
	} else {
		src = sqlite.NewStore(source)
	}

	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	list, err := src.ListHabits(ctx.Background(), ctx.User)
	if err != nil {
		return fmt.Errorf("failed to list habits from source: %w", err)
	}
	for _, h := range list {
		// The destination assigns its own version history.
		h.Version = 0
		if err := ctx.Store.SaveHabit(ctx.Background(), ctx.User, &h); err != nil {
			return fmt.Errorf("failed to copy habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("  Copied %d habits\n", len(list))
	return nil
}
