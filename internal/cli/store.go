package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitree/internal/config"
	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/habits"
	"github.com/julianstephens/habitree/internal/keyring"
	"github.com/julianstephens/habitree/internal/storage"
	"github.com/julianstephens/habitree/internal/storage/postgres"
	"github.com/julianstephens/habitree/internal/storage/sqlite"
	"github.com/julianstephens/habitree/internal/streak"
	"github.com/julianstephens/habitree/internal/utils"
)

// NewStore builds the durable store selected by cfg without opening it.
// The "none" driver returns a nil Provider, which runs the app offline.
func NewStore(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Storage.Driver {
	case constants.StorageNone:
		return nil, nil
	case constants.StoragePostgres:
		dsn, err := ResolveDSN(cfg.Storage.DSN, cfg.User)
		if err != nil {
			return nil, err
		}
		return postgres.New(dsn), nil
	default:
		return sqlite.NewStore(cfg.Storage.Path), nil
	}
}

// ResolveDSN validates a configured connection string, or reads user's
// entry from the OS keyring when none is configured.
func ResolveDSN(dsn, user string) (string, error) {
	if dsn != "" {
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("storage.dsn must not embed a password; store the full string with 'habitree keyring set' or use .pgpass")
			}
			return "", err
		}
		return dsn, nil
	}

	dsn, err := keyring.GetConnectionString(user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no postgres connection configured; set storage.dsn or run 'habitree keyring set'")
		}
		return "", err
	}
	return dsn, nil
}

// NewService wires the habit service from config.
func NewService(cfg *config.Config, store storage.Provider, cache storage.Cache, clock utils.Clock) (*habits.Service, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	policy, err := streak.ParsePolicy(cfg.Streak.Policy)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	return habits.NewService(store, cache,
		habits.WithClock(clock),
		habits.WithLocation(loc),
		habits.WithPolicy(policy),
	), nil
}
