package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a token bucket per client kept in process memory
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      int
	burst    int
	ttl      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

// NewMemoryLimiter starts a goroutine that forgets idle visitors; stop it with Close
func NewMemoryLimiter(config RateLimiterConfig) *MemoryLimiter {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}
	if config.Burst == 0 {
		config.Burst = config.RequestsPerSecond * 2
	}

	m := &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rps:      config.RequestsPerSecond,
		burst:    config.Burst,
		ttl:      config.TTL,
		stop:     make(chan struct{}),
	}

	go m.cleanupVisitors(config.CleanupInterval)
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return m.getVisitor(key).Allow(), nil
}

func (m *MemoryLimiter) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryLimiter) getVisitor(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, exists := m.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(m.rps), m.burst)
		m.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (m *MemoryLimiter) cleanupVisitors(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			for key, v := range m.visitors {
				if time.Since(v.lastSeen) > m.ttl {
					delete(m.visitors, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// RedisLimiter is a fixed window counter shared by every instance using the
// same redis
type RedisLimiter struct {
	client    redis.Cmdable
	keyPrefix string
	rate      int
	window    time.Duration
}

// NewRedisLimiter allows rate requests per window for each key
func NewRedisLimiter(client redis.Cmdable, rate int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: "recipe-api:ratelimit:",
		rate:      rate,
		window:    window,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowID := time.Now().Truncate(r.window).Unix()
	redisKey := fmt.Sprintf("%s%s:%d", r.keyPrefix, key, windowID)

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window+time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request, %w", err)
	}

	return incr.Val() <= int64(r.rate), nil
}

// RateLimiterMiddleware limits requests per client IP. If the limiter itself
// fails the request is let through.
func RateLimiterMiddleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			zap.L().Warn("Rate limiter unavailable", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
