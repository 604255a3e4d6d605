package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/services"
)

const wsIntervalo = 10 * time.Second

type MonitoringHandler struct {
	monitoringService services.MonitoringService
	upgrader          websocket.Upgrader
	logger            *zap.Logger
}

// NewMonitoringHandler crea el handler. allowOrigin decide qué orígenes pueden abrir el websocket.
func NewMonitoringHandler(monitoringService services.MonitoringService, allowOrigin func(origin string) bool, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
		logger: logger,
	}
}

// GetMetrics maneja la petición HTTP para obtener métricas
func (h *MonitoringHandler) GetMetrics(c *gin.Context) {
	metrics := h.monitoringService.GetMetrics(c.Request.Context())

	h.logger.Debug("Métricas obtenidas exitosamente",
		zap.Int("total_requests", metrics.Requests.TotalRequests),
		zap.Int("total_endpoints", metrics.Requests.Endpoints),
		zap.String("avg_response_time", metrics.Performance.AvgResponseTimeMs))

	c.JSON(http.StatusOK, metrics)
}

// WebSocketMetrics envía las métricas cada 10 segundos hasta que el cliente se desconecta
func (h *MonitoringHandler) WebSocketMetrics(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "websocket_metrics"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error actualizando a WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("🔌 Conexión WebSocket establecida")

	// el lector detecta el cierre del cliente
	cerrado := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(3 * wsIntervalo))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(3 * wsIntervalo))
	})
	go func() {
		defer close(cerrado)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsIntervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics := h.monitoringService.GetMetrics(c.Request.Context())
			if err := conn.WriteJSON(metrics); err != nil {
				logger.Warn("⚠️ Error enviando métricas por WebSocket", zap.Error(err))
				return
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
		case <-cerrado:
			logger.Info("🔌 Conexión WebSocket cerrada por el cliente")
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

// RecordRequestMiddleware registra cada request en el servicio de monitoreo
func (h *MonitoringHandler) RecordRequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if shouldSkipMonitoring(path) {
			return
		}

		h.monitoringService.RecordRequest(models.RequestData{
			Endpoint:   path,
			Method:     c.Request.Method,
			Duration:   time.Since(start),
			StatusCode: c.Writer.Status(),
			Timestamp:  start,
		})
	}
}

var excludedPaths = map[string]bool{
	"/api/monitoring/metrics":         true,
	"/api/monitoring/metrics/summary": true,
	"/api/monitoring/ws":              true,
	"/api/health":                     true,
	"/metrics":                        true,
	"/":                               true,
}

func shouldSkipMonitoring(path string) bool {
	return excludedPaths[path]
}

// GetMetricsSummary endpoint para métricas resumidas
func (h *MonitoringHandler) GetMetricsSummary(c *gin.Context) {
	metrics := h.monitoringService.GetMetrics(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"requests": gin.H{
			"total":         metrics.Requests.TotalRequests,
			"endpoints":     metrics.Requests.Endpoints,
			"errors":        metrics.Requests.ErrorsCount,
			"slow_requests": metrics.Requests.SlowRequestsCount,
		},
		"performance": gin.H{
			"avg_response_time": metrics.Performance.AvgResponseTimeMs,
			"max_response_time": metrics.Performance.MaxResponseTimeMs,
		},
		"cache": gin.H{
			"hit_rate":      metrics.Cache.HitRatePercentage,
			"total_keys":    metrics.Cache.TotalKeys,
			"invalidations": metrics.Cache.Invalidations,
		},
		"database": gin.H{
			"driver":           metrics.Database.Driver,
			"open_connections": metrics.Database.OpenConnections,
			"status":           metrics.Database.Status,
		},
		"system": gin.H{
			"heap_used":  metrics.System.HeapUsed,
			"host_cpu":   metrics.System.HostCPUPercent,
			"uptime":     metrics.System.UptimeHours,
			"goroutines": metrics.System.Goroutines,
		},
		"redis": gin.H{
			"connected": metrics.Redis.Connected,
			"keys":      metrics.Redis.Keys,
			"memory":    metrics.Redis.MemoryMB,
			"status":    metrics.Redis.Status,
		},
		"timestamp": metrics.Timestamp,
	})
}
