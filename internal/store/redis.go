package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// opTimeout bounds every Redis call so a slow backend degrades to absent
// reads instead of hanging the caller.
const opTimeout = 3 * time.Second

// Redis is a Store backed by a Redis server, for deployments that want the
// three documents held off the local disk.
type Redis struct {
	client *redis.Client
	log    zerolog.Logger
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(addr, password string, db int, log zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Redis{client: client, log: log.With().Str("store", "redis").Logger()}, nil
}

func (r *Redis) Read(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("Read failed, treating as absent")
		}
		return nil, false
	}
	return data, true
}

func (r *Redis) Write(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *Redis) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

// Close releases the client connection
func (r *Redis) Close() error {
	return r.client.Close()
}
