package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/cache"
	"github.com/ramivilla/DonJose/internal/config"
	"github.com/ramivilla/DonJose/internal/models"
)

const (
	slowRequestThreshold = time.Second
	maxHistorial         = 100
	maxTopEndpoints      = 10
)

type MonitoringService interface {
	GetMetrics(ctx context.Context) *models.MonitoringResponse
	RecordRequest(data models.RequestData)
	GetCacheStats() models.CacheMetrics
	GetDatabaseStats(ctx context.Context) models.DatabaseMetrics
	GetSystemStats() models.SystemMetrics
	GetRedisStats(ctx context.Context) models.RedisMetrics
}

// DatabaseStatsFunc y RedisStatsFunc desacoplan el monitoreo del driver elegido
type (
	DatabaseStatsFunc func(ctx context.Context) models.DatabaseMetrics
	RedisStatsFunc    func(ctx context.Context) models.RedisMetrics
)

type monitoringService struct {
	logger      *zap.Logger
	config      *config.Config
	reportCache *cache.ReportCache
	dbStats     DatabaseStatsFunc
	redisStats  RedisStatsFunc

	// Métricas de requests
	requestsMutex sync.RWMutex
	requests      map[string]*models.EndpointMetrics
	slowRequests  []models.SlowRequest
	errors        []models.RequestError
	totalRequests int64

	startTime time.Time
}

func NewMonitoringService(
	logger *zap.Logger,
	config *config.Config,
	reportCache *cache.ReportCache,
	dbStats DatabaseStatsFunc,
	redisStats RedisStatsFunc,
) MonitoringService {
	return &monitoringService{
		logger:      logger,
		config:      config,
		reportCache: reportCache,
		dbStats:     dbStats,
		redisStats:  redisStats,
		requests:    make(map[string]*models.EndpointMetrics),
		startTime:   time.Now(),
	}
}

func (s *monitoringService) RecordRequest(data models.RequestData) {
	s.requestsMutex.Lock()
	defer s.requestsMutex.Unlock()

	endpointKey := fmt.Sprintf("%s %s", data.Method, data.Endpoint)

	m, exists := s.requests[endpointKey]
	if !exists {
		m = &models.EndpointMetrics{}
		s.requests[endpointKey] = m
	}

	m.Count++
	durationMs := data.Duration.Milliseconds()
	m.TotalTime += durationMs
	m.AvgTime = float64(m.TotalTime) / float64(m.Count)
	if durationMs > m.MaxTime {
		m.MaxTime = durationMs
	}
	s.totalRequests++

	if data.Duration > slowRequestThreshold {
		s.slowRequests = append(s.slowRequests, models.SlowRequest{
			Endpoint:  endpointKey,
			Duration:  durationMs,
			Timestamp: data.Timestamp,
		})
		if len(s.slowRequests) > maxHistorial {
			s.slowRequests = s.slowRequests[1:]
		}
	}

	if data.StatusCode >= 400 {
		s.errors = append(s.errors, models.RequestError{
			Endpoint:   endpointKey,
			StatusCode: data.StatusCode,
			Timestamp:  data.Timestamp,
		})
		if len(s.errors) > maxHistorial {
			s.errors = s.errors[1:]
		}
	}
}

func (s *monitoringService) GetMetrics(ctx context.Context) *models.MonitoringResponse {
	s.requestsMutex.RLock()
	requestMetrics := s.calculateRequestMetrics()
	performanceMetrics := s.calculatePerformanceMetrics()
	s.requestsMutex.RUnlock()

	return &models.MonitoringResponse{
		Requests:    requestMetrics,
		Performance: performanceMetrics,
		Cache:       s.GetCacheStats(),
		Database:    s.GetDatabaseStats(ctx),
		System:      s.GetSystemStats(),
		Redis:       s.GetRedisStats(ctx),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *monitoringService) calculateRequestMetrics() models.RequestMetrics {
	keys := make([]string, 0, len(s.requests))
	byEndpoint := make(map[string]models.EndpointMetrics, len(s.requests))
	for key, m := range s.requests {
		keys = append(keys, key)
		byEndpoint[key] = *m
	}

	// Ordenar por count descendente
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := s.requests[keys[i]].Count, s.requests[keys[j]].Count
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})

	topEndpoints := make([]models.TopEndpoint, 0, maxTopEndpoints)
	for i, key := range keys {
		if i >= maxTopEndpoints {
			break
		}
		topEndpoints = append(topEndpoints, models.TopEndpoint{
			Endpoint:  key,
			Count:     s.requests[key].Count,
			AvgTimeMs: fmt.Sprintf("%.2fms", s.requests[key].AvgTime),
		})
	}

	return models.RequestMetrics{
		Endpoints:         len(s.requests),
		ByEndpoint:        byEndpoint,
		SlowRequests:      append([]models.SlowRequest(nil), s.slowRequests...),
		Errors:            append([]models.RequestError(nil), s.errors...),
		TotalRequests:     int(s.totalRequests),
		SlowRequestsCount: len(s.slowRequests),
		ErrorsCount:       len(s.errors),
		TopEndpoints:      topEndpoints,
	}
}

func (s *monitoringService) calculatePerformanceMetrics() models.PerformanceMetrics {
	var totalTime, maxTime int64
	var count int
	for _, m := range s.requests {
		totalTime += m.TotalTime
		count += m.Count
		if m.MaxTime > maxTime {
			maxTime = m.MaxTime
		}
	}

	var avgTime float64
	if count > 0 {
		avgTime = float64(totalTime) / float64(count)
	}

	return models.PerformanceMetrics{
		AvgResponseTimeMs: fmt.Sprintf("%.2fms", avgTime),
		MaxResponseTimeMs: fmt.Sprintf("%dms", maxTime),
	}
}

func (s *monitoringService) GetCacheStats() models.CacheMetrics {
	if s.reportCache == nil {
		return models.CacheMetrics{HitRatePercentage: "0.00%"}
	}
	stats := s.reportCache.GetStats()

	var hitRate float64
	if stats.TotalRequests > 0 {
		hitRate = float64(stats.Hits) / float64(stats.TotalRequests)
	}

	return models.CacheMetrics{
		Enabled:           s.reportCache.Enabled(),
		TotalKeys:         stats.TotalKeys,
		HitRatePercentage: fmt.Sprintf("%.2f%%", hitRate*100),
		TotalHits:         stats.Hits,
		TotalMisses:       stats.Misses,
		Invalidations:     stats.Invalidations,
	}
}

func (s *monitoringService) GetDatabaseStats(ctx context.Context) models.DatabaseMetrics {
	if s.dbStats == nil {
		return models.DatabaseMetrics{Driver: s.config.Store.Driver, Status: "connected"}
	}
	return s.dbStats(ctx)
}

func (s *monitoringService) GetSystemStats() models.SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	environment := "production"
	if s.config.Server.GinMode == "debug" {
		environment = "development"
	}

	stats := models.SystemMetrics{
		HeapUsed:    fmt.Sprintf("%.2f MB", float64(m.HeapAlloc)/1024/1024),
		HeapTotal:   fmt.Sprintf("%.2f MB", float64(m.HeapSys)/1024/1024),
		Goroutines:  runtime.NumGoroutine(),
		UptimeHours: fmt.Sprintf("%.2fh", time.Since(s.startTime).Hours()),
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS,
		Environment: environment,
	}

	// intervalo 0: compara contra la llamada anterior sin bloquear el request
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.HostCPUPercent = percents[0]
	} else if err != nil {
		s.logger.Debug("No se pudo leer CPU del host", zap.Error(err))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.HostMemoryPercent = vm.UsedPercent
		stats.HostMemoryUsed = fmt.Sprintf("%.2f GB", float64(vm.Used)/1024/1024/1024)
		stats.HostMemoryTotal = fmt.Sprintf("%.2f GB", float64(vm.Total)/1024/1024/1024)
	} else {
		s.logger.Debug("No se pudo leer memoria del host", zap.Error(err))
	}

	return stats
}

func (s *monitoringService) GetRedisStats(ctx context.Context) models.RedisMetrics {
	if s.redisStats == nil {
		return models.RedisMetrics{Status: "disabled"}
	}
	return s.redisStats(ctx)
}
