package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/database"
	"github.com/ramivilla/DonJose/internal/models"
)

// Pinger es cualquier backend que responde un ping. El Store lo cumple.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	store   Pinger
	driver  string
	redisDB *database.RedisDB
	dbStats func(ctx context.Context) models.DatabaseMetrics
	logger  *zap.Logger
}

// NewHealthChecker crea el checker. redisDB y dbStats pueden ser nil.
func NewHealthChecker(store Pinger, driver string, redisDB *database.RedisDB, dbStats func(ctx context.Context) models.DatabaseMetrics, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		store:   store,
		driver:  driver,
		redisDB: redisDB,
		dbStats: dbStats,
		logger:  logger,
	}
}

// HealthCheck devuelve 503 solo si el store no responde. Redis caído degrada pero no tumba el servicio.
func (h *HealthChecker) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	services := gin.H{}

	storeStatus := gin.H{"driver": h.driver, "status": "healthy"}
	if err := h.store.Ping(ctx); err != nil {
		storeStatus["status"] = "unhealthy"
		status = "unhealthy"
		h.logger.Error("Store health check failed", zap.String("driver", h.driver), zap.Error(err))
	}
	if h.dbStats != nil {
		storeStatus["stats"] = h.dbStats(ctx)
	}
	services["store"] = storeStatus

	if h.redisDB != nil {
		redis := h.redisDB.Metrics(ctx)
		services["redis"] = redis
		if !redis.Connected && status == "healthy" {
			status = "degraded"
			h.logger.Warn("Redis health check failed", zap.String("status", redis.Status))
		}
	} else {
		services["redis"] = gin.H{"status": "disabled"}
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	})
}
