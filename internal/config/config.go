package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/utils"
)

type Config struct {
	Debug    bool          `mapstructure:"debug"`
	LogLevel string        `mapstructure:"log_level"`
	Timezone string        `mapstructure:"timezone"`
	User     string        `mapstructure:"user"`
	Storage  StorageConfig `mapstructure:"storage"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Streak   StreakConfig  `mapstructure:"streak"`

	// ConfigDir is where config.yaml, logs, and default data files live.
	ConfigDir string `mapstructure:"-"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type CacheConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

type StreakConfig struct {
	Policy string `mapstructure:"policy"`
}

// Load reads config.yaml from configDir if present, then applies HABITREE_*
// environment overrides. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	dir, err := ExpandPath(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ConfigDir = dir

	if cfg.Storage.Path, err = ExpandPath(cfg.Storage.Path); err != nil {
		return nil, err
	}
	if cfg.Cache.Path, err = ExpandPath(cfg.Cache.Path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("timezone", "Local")
	v.SetDefault("user", "")
	v.SetDefault("storage.driver", constants.StorageSQLite)
	v.SetDefault("storage.path", filepath.Join(dir, constants.DBFileName))
	v.SetDefault("storage.dsn", "")
	v.SetDefault("cache.driver", constants.CacheJSON)
	v.SetDefault("cache.path", filepath.Join(dir, "cache"))
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("streak.policy", "checks")
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case constants.StorageSQLite, constants.StorageNone, constants.StoragePostgres:
		// An empty postgres DSN falls back to the keyring at startup.
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Cache.Driver {
	case constants.CacheJSON, constants.CacheBadger, constants.CacheRedis:
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}

	switch c.Streak.Policy {
	case "checks", "progress":
	default:
		return fmt.Errorf("unknown streak.policy %q", c.Streak.Policy)
	}

	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	return nil
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
