package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// ErrCacheMiss возвращается при отсутствии ключа в кэше
var ErrCacheMiss = errors.New("cache miss")

// Префиксы ключей для разных типов данных
const (
	keyPrefixTask      = "task:"
	keyPrefixVillaTree = "villa:tree:"
	keyPrefixTeamList  = "team:list"
	keyPrefixLock      = "lock:"
)

// RedisRepository реализует репозиторий кэширования с использованием Redis
type RedisRepository struct {
	client *redis.Client
	logger logger.Logger
	ttl    time.Duration
}

// NewRedisRepository создает новый экземпляр RedisRepository
func NewRedisRepository(client *redis.Client, logger logger.Logger, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// CacheTask сохраняет задачу в кэш
func (r *RedisRepository) CacheTask(ctx context.Context, task *domain.Task) error {
	key := fmt.Sprintf("%s%s", keyPrefixTask, task.ID)
	return r.cacheValue(ctx, key, task)
}

// GetTask получает задачу из кэша
func (r *RedisRepository) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	key := fmt.Sprintf("%s%s", keyPrefixTask, id)
	var task domain.Task
	if err := r.getValue(ctx, key, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// InvalidateTask удаляет задачу из кэша
func (r *RedisRepository) InvalidateTask(ctx context.Context, id string) error {
	key := fmt.Sprintf("%s%s", keyPrefixTask, id)
	return r.deleteValue(ctx, key)
}

// CacheVillaTree сохраняет дерево виллы в кэш
func (r *RedisRepository) CacheVillaTree(ctx context.Context, villaID string, tree *domain.VillaResponse) error {
	key := fmt.Sprintf("%s%s", keyPrefixVillaTree, villaID)
	return r.cacheValue(ctx, key, tree)
}

// GetVillaTree получает дерево виллы из кэша
func (r *RedisRepository) GetVillaTree(ctx context.Context, villaID string) (*domain.VillaResponse, error) {
	key := fmt.Sprintf("%s%s", keyPrefixVillaTree, villaID)
	var tree domain.VillaResponse
	if err := r.getValue(ctx, key, &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// InvalidateVillaTree удаляет дерево виллы из кэша
func (r *RedisRepository) InvalidateVillaTree(ctx context.Context, villaID string) error {
	key := fmt.Sprintf("%s%s", keyPrefixVillaTree, villaID)
	return r.deleteValue(ctx, key)
}

// CacheTeamList сохраняет реестр бригад в кэш
func (r *RedisRepository) CacheTeamList(ctx context.Context, teams []*domain.Team) error {
	return r.cacheValue(ctx, keyPrefixTeamList, teams)
}

// GetTeamList получает реестр бригад из кэша
func (r *RedisRepository) GetTeamList(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := r.getValue(ctx, keyPrefixTeamList, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// InvalidateTeamList удаляет реестр бригад из кэша
func (r *RedisRepository) InvalidateTeamList(ctx context.Context) error {
	return r.deleteValue(ctx, keyPrefixTeamList)
}

// AcquireLock получает блокировку с таймаутом
func (r *RedisRepository) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("%s%s", keyPrefixLock, key)
	ok, err := r.client.SetNX(ctx, lockKey, 1, ttl).Result()
	if err != nil {
		r.logger.Error("Failed to acquire lock", err, map[string]interface{}{
			"key": key,
		})
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return ok, nil
}

// ReleaseLock освобождает блокировку
func (r *RedisRepository) ReleaseLock(ctx context.Context, key string) error {
	lockKey := fmt.Sprintf("%s%s", keyPrefixLock, key)
	return r.deleteValue(ctx, lockKey)
}

// Вспомогательные методы

// cacheValue сохраняет значение в кэш
func (r *RedisRepository) cacheValue(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal value", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to set value in Redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to set value in Redis: %w", err)
	}

	return nil
}

// getValue получает значение из кэша
func (r *RedisRepository) getValue(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		r.logger.Error("Failed to get value from Redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to get value from Redis: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.Error("Failed to unmarshal value", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// deleteValue удаляет значение из кэша
func (r *RedisRepository) deleteValue(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete value from Redis", err, map[string]interface{}{
			"key": key,
		})
		return fmt.Errorf("failed to delete value from Redis: %w", err)
	}
	return nil
}
