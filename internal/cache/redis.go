// Package cache реализует кеш подсказок поверх redis. Записи хранятся
// в конверте с временем получения: свежесть решает вызывающая сторона,
// а устаревшие записи остаются резервом на случай недоступного бэкенда.
// Кеш никогда не авторитетен — приложение обязано корректно работать
// и вовсе без него, поэтому при недоступном redis возвращается
// отключённый экземпляр, безопасно глотающий все операции.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/remote-jobboard/internal/config"
)

// Cache оборачивает подключение к redis. Нулевой db означает отключённый кеш.
type Cache struct {
	db     *redis.Client
	retain time.Duration
}

// envelope — формат хранения записи в redis.
type envelope struct {
	Record    json.RawMessage `json:"record"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// InitServer подключается к redis. retain задаёт, сколько запись живёт
// после устаревания (резерв для отката при сбоях бэкенда).
func InitServer(ctx context.Context, cfg config.RedisConnection, retain time.Duration) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{db: db, retain: retain}, nil
}

// Disabled возвращает кеш-заглушку: Get всегда промахивается, записи игнорируются.
func Disabled() *Cache {
	return &Cache{}
}

// Get пытается получить запись по ключу. Возвращает признак попадания
// и момент, когда запись была получена из бэкенда.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, time.Time, error) {
	const op = "cache.Get"
	if c.db == nil {
		return false, time.Time{}, nil
	}
	val, err := c.db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	var env envelope
	if err := json.Unmarshal([]byte(val), &env); err != nil {
		return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(env.Record, result); err != nil {
		return false, time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return true, env.FetchedAt, nil
}

// Set сохраняет запись, фиксируя текущий момент как время получения.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	const op = "cache.Set"
	if c.db == nil {
		return nil
	}
	record, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	data, err := json.Marshal(envelope{Record: record, FetchedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return c.db.Set(ctx, key, data, c.retain).Err()
}

// Invalidate удаляет запись по ключу.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c.db == nil {
		return nil
	}
	return c.db.Del(ctx, key).Err()
}
