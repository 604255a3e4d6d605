package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/cache"
	"github.com/ramivilla/DonJose/internal/metrics"
	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// Motor agrupa lo que comparten los servicios que escriben el ledger:
// el store, el accessor de stock, el cache de reportes y el reloj.
type Motor struct {
	store    repository.Store
	accessor *StockAccessor
	catalogo models.Catalogo
	cache    *cache.ReportCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewMotor crea el motor. reportCache puede ser nil.
func NewMotor(store repository.Store, catalogo models.Catalogo, reportCache *cache.ReportCache, logger *zap.Logger) *Motor {
	return &Motor{
		store:    store,
		accessor: NewStockAccessor(store, catalogo),
		catalogo: catalogo,
		cache:    reportCache,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj. Lo usan los tests para fijar "hoy".
func (m *Motor) WithClock(now func() time.Time) *Motor {
	m.now = now
	return m
}

func (m *Motor) Accessor() *StockAccessor {
	return m.accessor
}

func (m *Motor) hoy() models.Fecha {
	return models.FechaDe(m.now())
}

// ejecutar corre fn en una sola transacción. Si confirma, invalida los reportes cacheados.
// Los rechazos de negocio se cuentan por motivo y se loguean como warning; el resto como error.
func (m *Motor) ejecutar(ctx context.Context, operacion string, fn func(tx repository.Store, acc *StockAccessor) error) error {
	logger := m.logger.With(zap.String("operation", operacion))

	err := m.store.WithTx(ctx, func(tx repository.Store) error {
		return fn(tx, m.accessor.en(tx))
	})
	if err != nil {
		if motivo := Motivo(err); motivo != "" {
			metrics.RechazosTotal.WithLabelValues(operacion, motivo).Inc()
			logger.Warn("⚠️ Operación rechazada", zap.String("motivo", motivo), zap.Error(err))
		} else {
			logger.Error("❌ Error en operación", zap.Error(err))
		}
		return err
	}

	metrics.OperacionesTotal.WithLabelValues(operacion).Inc()
	m.invalidarReportes(ctx)
	logger.Debug("✅ Operación confirmada")
	return nil
}

func (m *Motor) invalidarReportes(ctx context.Context) {
	if m.cache != nil {
		m.cache.InvalidateAll(ctx)
	}
}

// validarFechaFutura rechaza fechas anteriores a hoy. Hoy está permitido.
func (m *Motor) validarFechaFutura(fecha models.Fecha) error {
	hoy := m.hoy()
	if fecha.Antes(hoy) {
		return &DateError{Fecha: fecha, Hoy: hoy}
	}
	return nil
}

func parseFecha(campo, valor string) (models.Fecha, error) {
	f, err := models.ParseFecha(valor)
	if err != nil {
		return models.Fecha{}, invalido(campo, err.Error())
	}
	return f, nil
}

func parseFechaOpcional(campo, valor string) (*models.Fecha, error) {
	f, err := models.ParseFechaOpcional(valor)
	if err != nil {
		return nil, invalido(campo, err.Error())
	}
	return f, nil
}
