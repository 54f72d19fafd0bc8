package sentiment

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// 模型就绪标志在 Redis 中的键，API 进程的 /healthz 直接读它
const readinessKey = "model_loaded"

// RedisReadinessStore 基于 Redis 的就绪标志存储
type RedisReadinessStore struct {
	rdb *redis.Client
}

func NewRedisReadinessStore(rdb *redis.Client) *RedisReadinessStore {
	return &RedisReadinessStore{rdb: rdb}
}

// SetModelLoaded 发布就绪标志
func (s *RedisReadinessStore) SetModelLoaded(ctx context.Context) error {
	return s.rdb.Set(ctx, readinessKey, "true", 0).Err()
}

// ModelLoaded 读取就绪标志
func (s *RedisReadinessStore) ModelLoaded(ctx context.Context) (bool, error) {
	val, err := s.rdb.Get(ctx, readinessKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "true", nil
}
