package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter 租户级令牌桶限流器，桶状态存放在 Redis hash 中：
//
//	rate:{org_id} -> {tokens, last_refill}
//
// 读-改-写之间不加跨进程锁，高并发下同一租户最多可能多放行一个
// 令牌，对本场景可接受。Redis 不可用时拒绝放行（fail-closed）
type Limiter struct {
	rdb        *redis.Client
	capacity   float64
	refillRate float64 // 令牌/秒
	bucketTTL  time.Duration

	// 可注入的时钟，测试用
	now func() time.Time
}

// New 按配置创建限流器
func New(rdb *redis.Client, cfg *config.RateLimitConfig) *Limiter {
	return &Limiter{
		rdb:        rdb,
		capacity:   cfg.Capacity,
		refillRate: cfg.RefillRate,
		bucketTTL:  time.Duration(cfg.BucketTTL) * time.Second,
		now:        time.Now,
	}
}

// WithClock 替换时钟，仅测试使用
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow 检查并消费一个令牌。
// 返回 true 表示放行（已扣减一个令牌），false 表示拒绝。
// 桶不存在时按满容量惰性创建，闲置超过 TTL 后由 Redis 过期回收，
// 下次访问重新回到满容量
func (l *Limiter) Allow(ctx context.Context, orgID int64) (bool, error) {
	key := fmt.Sprintf("rate:%d", orgID)
	now := l.now()
	nowSec := float64(now.UnixNano()) / float64(time.Second)

	bucket, err := l.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Warn("Rate limit bucket read failed, denying request",
			zap.Int64("org_id", orgID), zap.Error(err))
		return false, err
	}

	tokens := l.capacity
	lastRefill := nowSec
	if len(bucket) > 0 {
		if v, err := strconv.ParseFloat(bucket["tokens"], 64); err == nil {
			tokens = v
		}
		if v, err := strconv.ParseFloat(bucket["last_refill"], 64); err == nil {
			lastRefill = v
		}
	}

	// 按流逝时间补充令牌，封顶容量
	elapsed := nowSec - lastRefill
	if elapsed < 0 {
		elapsed = 0
	}
	tokens = min(l.capacity, tokens+elapsed*l.refillRate)

	allowed := tokens >= 1.0
	if allowed {
		tokens -= 1.0
	}

	if err := l.rdb.HSet(ctx, key,
		"tokens", strconv.FormatFloat(tokens, 'f', -1, 64),
		"last_refill", strconv.FormatFloat(nowSec, 'f', -1, 64),
	).Err(); err != nil {
		logger.Warn("Rate limit bucket write failed, denying request",
			zap.Int64("org_id", orgID), zap.Error(err))
		return false, err
	}
	if err := l.rdb.Expire(ctx, key, l.bucketTTL).Err(); err != nil {
		logger.Warn("Rate limit bucket expire failed",
			zap.Int64("org_id", orgID), zap.Error(err))
	}

	return allowed, nil
}
