package repositories

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCacheRepository - кеш в памяти процесса для CLI и тестов.
// Промах отдаётся как redis.Nil, чтобы вызывающий код не различал реализации.
type MemoryCacheRepository struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{items: make(map[string]memoryEntry), now: time.Now}
}

var _ CacheRepositoryInterface = (*MemoryCacheRepository)(nil)

// lookup вызывается под mu.
func (r *MemoryCacheRepository) lookup(key string) (memoryEntry, bool) {
	e, ok := r.items[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt) {
		delete(r.items, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (r *MemoryCacheRepository) deadline(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return r.now().Add(expiration)
}

func (r *MemoryCacheRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.lookup(key)
	if !ok {
		return "", redis.Nil
	}
	return e.value, nil
}

func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = memoryEntry{value: fmt.Sprint(value), expiresAt: r.deadline(expiration)}
	return nil
}

func (r *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.items, k)
	}
	return nil
}

func (r *MemoryCacheRepository) Incr(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, _ := r.lookup(key)
	n := int64(0)
	if e.value != "" {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("значение ключа '%s' не число: %w", key, err)
		}
		n = parsed
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	r.items[key] = e
	return n, nil
}

func (r *MemoryCacheRepository) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.lookup(key)
	if !ok {
		return false, nil
	}
	e.expiresAt = r.deadline(expiration)
	r.items[key] = e
	return true, nil
}

func (r *MemoryCacheRepository) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookup(key); ok {
		return false, nil
	}
	r.items[key] = memoryEntry{value: fmt.Sprint(value), expiresAt: r.deadline(expiration)}
	return true, nil
}
