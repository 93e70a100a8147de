package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"educycle-api/internal/config"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "educycle:limiter:"

// opTimeout bounds each storage call; fiber.Storage has no context parameter
const opTimeout = 2 * time.Second

// Storage implements fiber.Storage on top of Redis so that rate limiter
// counters are shared by every API instance.
type Storage struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies the connection
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// NewStorage wraps an existing client
func NewStorage(rdb *redis.Client) *Storage {
	return &Storage{rdb: rdb}
}

func key(k string) string {
	return keyPrefix + k
}

// Get returns nil, nil for a missing key
func (s *Storage) Get(k string) ([]byte, error) {
	if k == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val; zero exp means no expiry
func (s *Storage) Set(k string, val []byte, exp time.Duration) error {
	if k == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.rdb.Set(ctx, key(k), val, exp).Err()
}

func (s *Storage) Delete(k string) error {
	if k == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.rdb.Del(ctx, key(k)).Err()
}

// Reset removes every limiter key, leaving other data in the database alone
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.rdb.Close()
}
