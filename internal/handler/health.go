package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthDeps lists what /health reports on. DB and Redis are optional and
// reported as "disabled" when nil.
type HealthDeps struct {
	DB    *gorm.DB
	Redis *redis.Client
	// Backend reports the circuit breaker state of the REST client.
	Backend interface{ CircuitState() string }
	// DLQ counts jobs that exhausted their attempts.
	DLQ func(ctx context.Context) (int64, error)
}

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
func Health(deps HealthDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			sqlDB, err := deps.DB.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = "error"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if deps.Backend != nil {
			body["backend"] = deps.Backend.CircuitState()
		}
		if deps.DLQ != nil {
			if n, err := deps.DLQ(ctx); err == nil {
				body["dlq"] = n
			}
		}
		c.JSON(status, body)
	}
}
