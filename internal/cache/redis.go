// Package cache реализует хранилище сессий и заявок поверх Redis.
// Ключи сессий (session:<uid>) и ключи заявок (charge:<uid>:<день>:<payload>)
// живут в раздельных пространствах имён и истекают по TTL.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/sixnumber/internal/config"
)

// Cache инкапсулирует клиент Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
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
	return &Cache{Db: db}, nil
}

// Get читает значение по ключу и декодирует его в result.
// Возвращает false без ошибки, если ключа нет.
func (c *Cache) Get(key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение с временем жизни, перезаписывая существующий ключ.
func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(context.Background(), key, jsonData, expiration).Err()
}

// SetNX сохраняет значение, только если ключа ещё нет.
// Возвращает false, если ключ уже существовал.
func (c *Cache) SetNX(key string, value any, expiration time.Duration) (bool, error) {
	const op = "cache.SetNX"
	jsonData, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	ok, err := c.Db.SetNX(context.Background(), key, jsonData, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// Invalidate удаляет значение по ключу. Отсутствие ключа не является ошибкой.
func (c *Cache) Invalidate(key string) error {
	return c.Db.Del(context.Background(), key).Err()
}

// Keys возвращает ключи, подходящие под шаблон.
func (c *Cache) Keys(pattern string) ([]string, error) {
	const op = "cache.Keys"
	keys, err := c.Db.Keys(context.Background(), pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return keys, nil
}

// MultiGet возвращает по одному значению на каждый запрошенный ключ,
// сохраняя порядок. Для ключа, истёкшего между перечислением и чтением,
// возвращается пустая строка, чтобы позиции значений совпадали с keys.
func (c *Cache) MultiGet(keys []string) ([]string, error) {
	const op = "cache.MultiGet"
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := c.Db.MGet(context.Background(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]string, len(keys))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			result[i] = s
		}
	}
	return result, nil
}
