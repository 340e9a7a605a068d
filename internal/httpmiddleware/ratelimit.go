package httpmiddleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a client key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit returns a gin handler enforcing per-IP limits with the given
// backend.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(c.Request.Context(), ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

// SimpleTokenBucket is the in-memory limiter used by the single-process
// deployment.
type SimpleTokenBucket struct {
	capacity int
	rate     int
	mu       sync.Mutex
	state    map[string]*bucket
}

type bucket struct {
	tokens int
	last   time.Time
}

// NewSimpleTokenBucket creates a limiter with capacity tokens and rate per
// minute.
func NewSimpleTokenBucket(capacity, perMinute int) *SimpleTokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &SimpleTokenBucket{
		capacity: capacity,
		rate:     perMinute,
		state:    make(map[string]*bucket),
	}
}

// Allow implements Limiter.
func (l *SimpleTokenBucket) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.state[key]
	now := time.Now()
	if !ok {
		b = &bucket{tokens: l.capacity - 1, last: now}
		l.state[key] = b
		return true
	}
	elapsed := now.Sub(b.last).Minutes()
	refill := int(elapsed * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// RedisCounter is a fixed-window limiter for deployments running more than
// one portal instance behind the same address space. It fails open when
// redis is unreachable.
type RedisCounter struct {
	client    *redis.Client
	perMinute int
	prefix    string
}

// NewRedisCounter creates the redis-backed limiter.
func NewRedisCounter(client *redis.Client, perMinute int) *RedisCounter {
	return &RedisCounter{client: client, perMinute: perMinute, prefix: "srms:ratelimit:"}
}

// Allow implements Limiter.
func (l *RedisCounter) Allow(ctx context.Context, key string) bool {
	window := time.Now().Format("200601021504")
	redisKey := l.prefix + key + ":" + window
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, 2*time.Minute)
	}
	return count <= int64(l.perMinute)
}
