package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/shipdocs/pkg/configs"
	appctx "github.com/yeisme/shipdocs/pkg/context"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	maxLimiterEntries      = 10000
)

// keyedLimiters 按键维护独立的令牌桶.
type keyedLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (k *keyedLimiters) get(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if l, ok := k.limiters[key]; ok {
		return l
	}

	l := rate.NewLimiter(k.rps, k.burst)
	k.limiters[key] = l

	return l
}

// reset 在条目过多时整体清空.
func (k *keyedLimiters) reset() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.limiters) > maxLimiterEntries {
		k.limiters = map[string]*rate.Limiter{}
	}
}

// RateLimitMiddleware 返回一个基于配置的限流中间件，ctx 结束后停止后台清理.
// key 支持 global、ip、user（调用方身份，需位于认证中间件之后）与 header:<name>.
func RateLimitMiddleware(ctx context.Context, cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	keyMode := strings.ToLower(strings.TrimSpace(cfg.Key))
	if keyMode == "global" || keyMode == "" {
		limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

		return func(c *gin.Context) {
			if !limiter.Allow() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
				return
			}

			c.Next()
		}
	}

	limiters := &keyedLimiters{
		limiters: map[string]*rate.Limiter{},
		rps:      rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
	}

	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiters.reset()
			}
		}
	}()

	return func(c *gin.Context) {
		key := limitKey(c, keyMode)
		if !limiters.get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "rate limit exceeded, request too frequent, please try again later"})

			return
		}

		c.Next()
	}
}

// limitKey 计算限流键，取不到时回退到客户端 IP.
func limitKey(c *gin.Context, mode string) string {
	var key string

	switch {
	case strings.HasPrefix(mode, "header:"):
		key = c.GetHeader(strings.TrimPrefix(mode, "header:"))
	case mode == "user":
		key = appctx.CallerID(c.Request.Context())
	}

	if key == "" {
		key = clientIP(c)
	}

	if key == "" {
		key = "unknown"
	}

	return key
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = c.Request.RemoteAddr
		}
	}

	return ip
}
