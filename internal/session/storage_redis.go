package session

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisHashClient es el subconjunto de *redis.Client que usa RedisStorage.
type redisHashClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStorage guarda la sesión en un hash; un solo HSET escribe las tres claves.
type RedisStorage struct {
	client  redisHashClient
	key     string
	timeout time.Duration
}

func NewRedisStorage(client *redis.Client, profile string) *RedisStorage {
	if client == nil {
		return nil
	}
	return newRedisStorage(client, profile)
}

func newRedisStorage(client redisHashClient, profile string) *RedisStorage {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = "default"
	}
	return &RedisStorage{
		client:  client,
		key:     "coursecompare:session:" + profile,
		timeout: 500 * time.Millisecond,
	}
}

func (s *RedisStorage) Load(ctx context.Context) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Record{}, err
	}
	return Record{
		Token:        fields[KeyToken],
		RefreshToken: fields[KeyRefreshToken],
		User:         fields[KeyUser],
	}, nil
}

func (s *RedisStorage) Save(ctx context.Context, rec Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.HSet(ctx, s.key,
		KeyToken, rec.Token,
		KeyRefreshToken, rec.RefreshToken,
		KeyUser, rec.User,
	).Err()
}

func (s *RedisStorage) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Del(ctx, s.key).Err()
}
