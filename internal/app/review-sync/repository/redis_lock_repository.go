package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Префикс ключей single-flight блокировок синхронизации
const syncLockKeyPrefix = "sync:lock:"

// syncLockRepository реализует SyncLockRepository поверх Redis
type syncLockRepository struct {
	client *redis.Client
	ttl    time.Duration // TTL блокировки - страховка от задачи, умершей без Release
}

// NewSyncLockRepository создает новый репозиторий блокировок синхронизации
func NewSyncLockRepository(client *redis.Client, ttl time.Duration) SyncLockRepository {
	return &syncLockRepository{
		client: client,
		ttl:    ttl,
	}
}

// syncLockKey возвращает ключ блокировки интеграции
func syncLockKey(integrationID string) string {
	return syncLockKeyPrefix + integrationID
}

// Acquire пытается захватить блокировку через SETNX.
// false без ошибки означает, что синхронизация этой интеграции уже идет.
func (r *syncLockRepository) Acquire(ctx context.Context, integrationID string) (bool, error) {
	acquired, err := r.client.SetNX(ctx, syncLockKey(integrationID), time.Now().UTC().Format(time.RFC3339), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}

	return acquired, nil
}

// Release снимает блокировку
func (r *syncLockRepository) Release(ctx context.Context, integrationID string) error {
	if err := r.client.Del(ctx, syncLockKey(integrationID)).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}

	return nil
}

// ActiveLocks возвращает integration id всех живых блокировок.
// Используется housekeeping тиком для наблюдаемости: просроченные блокировки
// Redis снимает сам по TTL.
func (r *syncLockRepository) ActiveLocks(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)

	// SCAN вместо KEYS, чтобы не блокировать Redis на больших пространствах ключей
	for {
		keys, next, err := r.client.Scan(ctx, cursor, syncLockKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync locks: %w", err)
		}

		for _, key := range keys {
			ids = append(ids, strings.TrimPrefix(key, syncLockKeyPrefix))
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return ids, nil
}
