package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "donjose:reportes:"

// CacheStats estadísticas del caché
type CacheStats struct {
	Hits          int64
	Misses        int64
	TotalRequests int64
	TotalKeys     int
	Invalidations int64
}

type l1Entry struct {
	data      []byte
	expiresAt time.Time
}

// ReportCache guarda reportes derivados del ledger (dashboard, estadísticas, resumen de stock).
// L1 es memoria local, L2 es Redis y es opcional. Toda escritura al ledger llama InvalidateAll.
type ReportCache struct {
	// L1 Cache: memoria local
	l1Cache map[string]l1Entry
	l1Mutex sync.RWMutex

	// L2 Cache: Redis, nil si está deshabilitado
	redisClient *redis.Client

	maxL1Size int
	ttl       time.Duration
	now       func() time.Time

	logger *zap.Logger

	statsMutex    sync.RWMutex
	hits          int64
	misses        int64
	invalidations int64
}

func NewReportCache(redisClient *redis.Client, maxL1Size int, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if maxL1Size <= 0 {
		maxL1Size = 1
	}
	return &ReportCache{
		l1Cache:     make(map[string]l1Entry),
		redisClient: redisClient,
		maxL1Size:   maxL1Size,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// Enabled indica si hay un Redis detrás del L1
func (rc *ReportCache) Enabled() bool {
	return rc.redisClient != nil
}

func (rc *ReportCache) GetStats() CacheStats {
	rc.statsMutex.RLock()
	defer rc.statsMutex.RUnlock()

	rc.l1Mutex.RLock()
	totalKeys := len(rc.l1Cache)
	rc.l1Mutex.RUnlock()

	return CacheStats{
		Hits:          rc.hits,
		Misses:        rc.misses,
		TotalRequests: rc.hits + rc.misses,
		TotalKeys:     totalKeys,
		Invalidations: rc.invalidations,
	}
}

// Get decodifica en dest el reporte guardado bajo key. Devuelve false si no está.
func (rc *ReportCache) Get(ctx context.Context, key string, dest interface{}) bool {
	start := rc.now()

	if data, ok := rc.getFromL1(key); ok {
		if err := json.Unmarshal(data, dest); err == nil {
			rc.recordHit()
			rc.logger.Debug("L1 cache hit", zap.String("key", key), zap.Duration("latency", time.Since(start)))
			return true
		}
	}

	if data, err := rc.getFromL2(ctx, key); err == nil && data != nil {
		if err := json.Unmarshal(data, dest); err == nil {
			rc.setToL1(key, data)
			rc.recordHit()
			rc.logger.Debug("L2 cache hit", zap.String("key", key), zap.Duration("latency", time.Since(start)))
			return true
		}
	}

	rc.recordMiss()
	rc.logger.Debug("Cache miss", zap.String("key", key))
	return false
}

// Set guarda value en ambos niveles. Un fallo de Redis se loguea y no se propaga.
func (rc *ReportCache) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		rc.logger.Warn("⚠️ No se pudo serializar reporte para cache", zap.String("key", key), zap.Error(err))
		return
	}

	rc.setToL1(key, data)

	if rc.redisClient == nil {
		return
	}
	if err := rc.redisClient.Set(ctx, keyPrefix+key, data, rc.ttl).Err(); err != nil {
		rc.logger.Warn("⚠️ Error escribiendo cache L2", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateAll descarta todos los reportes. Se llama después de cada commit que toca el ledger.
func (rc *ReportCache) InvalidateAll(ctx context.Context) {
	rc.l1Mutex.Lock()
	rc.l1Cache = make(map[string]l1Entry)
	rc.l1Mutex.Unlock()

	rc.statsMutex.Lock()
	rc.invalidations++
	rc.statsMutex.Unlock()

	if rc.redisClient == nil {
		return
	}
	if err := rc.deleteL2(ctx); err != nil {
		rc.logger.Warn("⚠️ Error invalidando cache L2", zap.Error(err))
	}
}

func (rc *ReportCache) deleteL2(ctx context.Context) error {
	iter := rc.redisClient.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.redisClient.Del(ctx, keys...).Err()
}

func (rc *ReportCache) recordHit() {
	rc.statsMutex.Lock()
	rc.hits++
	rc.statsMutex.Unlock()
}

func (rc *ReportCache) recordMiss() {
	rc.statsMutex.Lock()
	rc.misses++
	rc.statsMutex.Unlock()
}

func (rc *ReportCache) getFromL1(key string) ([]byte, bool) {
	rc.l1Mutex.RLock()
	defer rc.l1Mutex.RUnlock()

	entry, ok := rc.l1Cache[key]
	if !ok || rc.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

func (rc *ReportCache) setToL1(key string, data []byte) {
	rc.l1Mutex.Lock()
	defer rc.l1Mutex.Unlock()

	if _, exists := rc.l1Cache[key]; !exists && len(rc.l1Cache) >= rc.maxL1Size {
		rc.evictOldest()
	}
	rc.l1Cache[key] = l1Entry{data: data, expiresAt: rc.now().Add(rc.ttl)}
}

// evictOldest descarta la entrada que vence primero
func (rc *ReportCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range rc.l1Cache {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	delete(rc.l1Cache, oldestKey)
}

func (rc *ReportCache) getFromL2(ctx context.Context, key string) ([]byte, error) {
	if rc.redisClient == nil {
		return nil, nil
	}
	data, err := rc.redisClient.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}
