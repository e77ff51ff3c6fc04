package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/ohs/ohs/internal/platform/auth"
)

// RateLimitConfig bounds how often one caller may hit the limited routes.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// limiterStore holds one limiter per caller key.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLimiterStore(cfg RateLimitConfig) *limiterStore {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &limiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		burst:    burst,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = l
	}
	return l
}

// RateLimit limits requests per authenticated user, or per client IP when
// the request carries no principal. PerMinute <= 0 disables the limit.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.PerMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := newLimiterStore(cfg)
	limit := strconv.Itoa(cfg.PerMinute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if p, ok := auth.PrincipalFromContext(c.Request().Context()); ok && p.UserID != "" {
				key = "user:" + p.UserID
			}

			c.Response().Header().Set("X-RateLimit-Limit", limit)
			r := store.get(key).Reserve()
			if delay := r.Delay(); delay > 0 {
				r.Cancel()
				retry := int(math.Ceil(delay.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
