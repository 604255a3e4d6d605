package models

import "time"

// MonitoringResponse respuesta completa del endpoint de métricas
type MonitoringResponse struct {
	Requests    RequestMetrics     `json:"requests"`
	Performance PerformanceMetrics `json:"performance"`
	Cache       CacheMetrics       `json:"cache"`
	Database    DatabaseMetrics    `json:"database"`
	System      SystemMetrics      `json:"system"`
	Redis       RedisMetrics       `json:"redis"`
	Timestamp   string             `json:"timestamp"`
}

type RequestMetrics struct {
	Endpoints         int                        `json:"endpoints"`
	ByEndpoint        map[string]EndpointMetrics `json:"by_endpoint"`
	SlowRequests      []SlowRequest              `json:"slow_requests"`
	Errors            []RequestError             `json:"errors"`
	TotalRequests     int                        `json:"total_requests"`
	SlowRequestsCount int                        `json:"slow_requests_count"`
	ErrorsCount       int                        `json:"errors_count"`
	TopEndpoints      []TopEndpoint              `json:"top_endpoints"`
}

type EndpointMetrics struct {
	Count     int     `json:"count"`
	AvgTime   float64 `json:"avg_time_ms"`
	TotalTime int64   `json:"total_time_ms"`
	MaxTime   int64   `json:"max_time_ms"`
}

type SlowRequest struct {
	Endpoint  string    `json:"endpoint"`
	Duration  int64     `json:"duration_ms"`
	Timestamp time.Time `json:"timestamp"`
}

type RequestError struct {
	Endpoint   string    `json:"endpoint"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

type TopEndpoint struct {
	Endpoint  string `json:"endpoint"`
	Count     int    `json:"count"`
	AvgTimeMs string `json:"avg_time_ms"`
}

type PerformanceMetrics struct {
	AvgResponseTimeMs string `json:"avg_response_time_ms"`
	MaxResponseTimeMs string `json:"max_response_time_ms"`
}

// CacheMetrics estadísticas del caché de reportes
type CacheMetrics struct {
	Enabled           bool   `json:"enabled"`
	TotalKeys         int    `json:"total_keys"`
	HitRatePercentage string `json:"hit_rate_percentage"`
	TotalHits         int64  `json:"total_hits"`
	TotalMisses       int64  `json:"total_misses"`
	Invalidations     int64  `json:"invalidations"`
}

type DatabaseMetrics struct {
	Driver            string `json:"driver"`
	Status            string `json:"status"`
	OpenConnections   int    `json:"open_connections"`
	InUse             int    `json:"in_use"`
	Idle              int    `json:"idle"`
	MaxOpenConnection int    `json:"max_open_connections"`
}

// SystemMetrics métricas del proceso y del host
type SystemMetrics struct {
	HeapUsed          string  `json:"heap_used"`
	HeapTotal         string  `json:"heap_total"`
	Goroutines        int     `json:"goroutines"`
	HostCPUPercent    float64 `json:"host_cpu_percent"`
	HostMemoryPercent float64 `json:"host_memory_percent"`
	HostMemoryUsed    string  `json:"host_memory_used"`
	HostMemoryTotal   string  `json:"host_memory_total"`
	UptimeHours       string  `json:"uptime_hours"`
	GoVersion         string  `json:"go_version"`
	Platform          string  `json:"platform"`
	Environment       string  `json:"environment"`
}

type RedisMetrics struct {
	Connected bool   `json:"connected"`
	Keys      int    `json:"keys"`
	Status    string `json:"status"`
	MemoryMB  string `json:"memory_mb"`
}

// RequestData datos de un request individual
type RequestData struct {
	Endpoint   string
	Method     string
	Duration   time.Duration
	StatusCode int
	Timestamp  time.Time
}
