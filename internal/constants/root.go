package constants

import "time"

const (
	AppName            = "habitree"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitree"
	DBFileName         = "habitree.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// AnonymousNamespace is the cache namespace used when no user id is set
	AnonymousNamespace = "anonymous"

	// Habit defaults
	DefaultColor        = "#4F46E5"
	DefaultEmoji        = "🌱"
	DefaultTargetChecks = 1
	DefaultCheckType    = "default"
	ExtraCheckType      = "extra"

	// MaxSaveAttempts bounds the load/apply/save loop when a save hits a
	// version conflict.
	MaxSaveAttempts = 3

	// Storage drivers
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageNone     = "none"

	// Cache drivers
	CacheJSON   = "json"
	CacheBadger = "badger"
	CacheRedis  = "redis"

	// Redis
	RedisDialTimeout = 3 * time.Second
)
