package middleware

import (
	"net/http"
	"sync"
	"time"

	"botilleria/internal/apierror"

	"github.com/gin-gonic/gin"
)

// ipEntry tracks attempts per IP within a fixed window.
type ipEntry struct {
	count     int
	windowEnd time.Time
}

// limiter counts requests per client IP. Expired entries are swept on access,
// which is enough for the handful of clients a terminal serves.
type limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	ips    map[string]*ipEntry
	now    func() time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	return &limiter{limit: limit, window: window, ips: make(map[string]*ipEntry), now: time.Now}
}

// allow registers one attempt from ip and reports whether it is within the limit.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.ips {
		if now.After(e.windowEnd) {
			delete(l.ips, k)
		}
	}
	e, ok := l.ips[ip]
	if !ok {
		e = &ipEntry{windowEnd: now.Add(l.window)}
		l.ips[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

// RateLimiter rejects a client IP after limit requests within window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return rateLimit(newLimiter(limit, window), "Demasiadas solicitudes. Intente nuevamente en un momento.")
}

// LoginRateLimiter limits operator logins to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return rateLimit(newLimiter(20, time.Minute), "Demasiados intentos de ingreso. Intente en 1 minuto.")
}

func rateLimit(l *limiter, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}
