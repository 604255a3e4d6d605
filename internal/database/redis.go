package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/config"
	"github.com/ramivilla/DonJose/internal/models"
)

type RedisDB struct {
	Client *redis.Client
}

// NewRedisDB conecta al Redis que respalda el cache L2 de reportes
func NewRedisDB(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisDB, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Si se proporciona una contraseña separada, usarla
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	opt.DB = cfg.DB

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("🔴 Conexión a Redis establecida",
		zap.String("addr", opt.Addr),
		zap.Int("db", cfg.DB),
	)

	return &RedisDB{Client: client}, nil
}

func (r *RedisDB) Close() error {
	return r.Client.Close()
}

func (r *RedisDB) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Metrics consulta DBSIZE e INFO memory. Un Redis caído no es un error: se informa offline.
func (r *RedisDB) Metrics(ctx context.Context) models.RedisMetrics {
	if r == nil || r.Client == nil {
		return models.RedisMetrics{Status: "disabled"}
	}
	if err := r.Ping(ctx); err != nil {
		return models.RedisMetrics{Status: "offline"}
	}

	metrics := models.RedisMetrics{Connected: true, Status: "online"}
	if keys, err := r.Client.DBSize(ctx).Result(); err == nil {
		metrics.Keys = int(keys)
	}
	if info, err := r.Client.Info(ctx, "memory").Result(); err == nil {
		metrics.MemoryMB = usedMemoryMB(info)
	}
	return metrics
}

func usedMemoryMB(info string) string {
	for _, line := range strings.Split(info, "\n") {
		if !strings.HasPrefix(line, "used_memory:") {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, "used_memory:"))
		if bytes, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
		}
	}
	return ""
}
