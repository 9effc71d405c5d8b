package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	// SetNX записывает ключ, только если его ещё нет. true - ключ записан.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}

// IsCacheMiss сообщает, что ключа нет. Все реализации кеша возвращают redis.Nil.
func IsCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
