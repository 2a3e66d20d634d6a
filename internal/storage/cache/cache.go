// Package cache holds the local mirrors of the durable habit store. Every
// implementation namespaces habits by user id and keeps whole documents; there
// are no version checks and the last Put wins.
package cache

import (
	"fmt"

	"github.com/julianstephens/habitree/internal/config"
	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/storage"
)

// New opens the cache selected by cfg.Driver.
func New(cfg config.CacheConfig) (storage.Cache, error) {
	switch cfg.Driver {
	case constants.CacheJSON, "":
		return NewJSON(cfg.Path)
	case constants.CacheBadger:
		c := DefaultBadgerConfig()
		c.Path = cfg.Path
		return OpenBadger(c)
	case constants.CacheRedis:
		return NewRedis(RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
