package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/suteetoe/restb/pkg/config"
	"github.com/suteetoe/restb/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RedisRateLimiterStore is a sliding window limiter shared through Redis
type RedisRateLimiterStore struct {
	client  redis.Cmdable
	window  time.Duration
	limit   int
	prefix  string
	timeout time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewRedisRateLimiterStore(client redis.Cmdable, cfg config.RateLimitConfig, log *zap.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client:  client,
		window:  cfg.Window,
		limit:   cfg.Max,
		prefix:  "ratelimit:",
		timeout: time.Second,
		now:     time.Now,
		log:     log,
	}
}

// Allow records a hit for identifier and reports whether it is within the limit.
// Redis failures let the request through.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.prefix + identifier
	now := s.now()
	windowStart := now.Add(-s.window)

	var card *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart.UnixMilli(), 10))
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
		})
		card = pipe.ZCard(ctx, key)
		pipe.PExpire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		s.log.Warn("Rate limiter store unavailable", zap.String("key", key), zap.Error(err))
		return true, nil
	}

	return card.Val() <= int64(s.limit), nil
}

// ClientIdentifier keys the limiter on the first forwarded address, else the peer address
func ClientIdentifier(c echo.Context) (string, error) {
	if forwarded := c.Request().Header.Get(echo.HeaderXForwardedFor); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first, nil
		}
	}
	return c.RealIP(), nil
}

// RateLimit builds the limiter middleware over store
func RateLimit(store echomiddleware.RateLimiterStore) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: ClientIdentifier,
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			prometheus.RecordRateLimited()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
		},
	})
}

// NewMemoryRateLimiterStore approximates the window with a token bucket when Redis is unavailable
func NewMemoryRateLimiterStore(cfg config.RateLimitConfig) echomiddleware.RateLimiterStore {
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Max) / cfg.Window.Seconds()),
		Burst:     cfg.Max,
		ExpiresIn: cfg.Window,
	})
}
