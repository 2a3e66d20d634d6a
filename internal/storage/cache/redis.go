package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache keeps one hash per namespace, keyed by habit id.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedis(cfg RedisConfig) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  constants.RedisDialTimeout,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.RedisDialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Debug("Redis cache connection established", "addr", cfg.Addr)
	return &RedisCache{rdb: rdb}, nil
}

func hashKey(userID string) string {
	return constants.AppName + ":habits:" + storage.Namespace(userID)
}

func (c *RedisCache) List(ctx context.Context, userID string) ([]models.Habit, error) {
	fields, err := c.rdb.HGetAll(ctx, hashKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read redis cache: %w", err)
	}

	habits := make([]models.Habit, 0, len(fields))
	for id, raw := range fields {
		var h models.Habit
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			return nil, fmt.Errorf("failed to decode cached habit %s: %w", id, err)
		}
		habits = append(habits, h)
	}
	storage.SortNewestFirst(habits)
	return habits, nil
}

func (c *RedisCache) Put(ctx context.Context, userID string, habit models.Habit) error {
	data, err := json.Marshal(habit)
	if err != nil {
		return fmt.Errorf("failed to encode habit %s: %w", habit.ID, err)
	}
	return c.rdb.HSet(ctx, hashKey(userID), habit.ID, data).Err()
}

func (c *RedisCache) Delete(ctx context.Context, userID, habitID string) error {
	return c.rdb.HDel(ctx, hashKey(userID), habitID).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
