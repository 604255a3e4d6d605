package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type reporte struct {
	Total int `json:"total"`
}

func TestReportCacheL1Only(t *testing.T) {
	ctx := context.Background()
	rc := NewReportCache(nil, 4, time.Minute, zap.NewNop())

	var got reporte
	assert.False(t, rc.Get(ctx, "dashboard", &got))

	rc.Set(ctx, "dashboard", reporte{Total: 42})
	assert.True(t, rc.Get(ctx, "dashboard", &got))
	assert.Equal(t, 42, got.Total)

	stats := rc.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.TotalKeys)
	assert.False(t, rc.Enabled())
}

func TestReportCacheInvalidateAll(t *testing.T) {
	ctx := context.Background()
	rc := NewReportCache(nil, 4, time.Minute, zap.NewNop())
	rc.Set(ctx, "a", reporte{Total: 1})
	rc.Set(ctx, "b", reporte{Total: 2})

	rc.InvalidateAll(ctx)

	var got reporte
	assert.False(t, rc.Get(ctx, "a", &got))
	assert.False(t, rc.Get(ctx, "b", &got))
	assert.Equal(t, int64(1), rc.GetStats().Invalidations)
	assert.Equal(t, 0, rc.GetStats().TotalKeys)
}

func TestReportCacheExpiresAndEvicts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rc := NewReportCache(nil, 2, time.Minute, zap.NewNop())
	rc.now = func() time.Time { return now }

	rc.Set(ctx, "viejo", reporte{Total: 1})
	now = now.Add(10 * time.Second)
	rc.Set(ctx, "medio", reporte{Total: 2})
	rc.Set(ctx, "nuevo", reporte{Total: 3})

	var got reporte
	assert.False(t, rc.Get(ctx, "viejo", &got), "la entrada más vieja se descarta al llenar el L1")
	assert.True(t, rc.Get(ctx, "nuevo", &got))

	now = now.Add(2 * time.Minute)
	assert.False(t, rc.Get(ctx, "nuevo", &got))
}
