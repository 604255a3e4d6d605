package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/cache"
	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

var (
	hoyTest = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	catalogoTest = models.Catalogo{
		Duenos:      []string{"Perla", "Salgado", "Ramon"},
		TiposAnimal: []string{"Toro", "Vacas", "Vacas viejas", "Terneros", "Terneras", "Vaquillonas", "Novillo"},
	}

	asignacionTest = models.AsignacionCereal{
		models.CerealBlanco: 223600,
		models.CerealNegro:  51600,
	}
)

type entorno struct {
	store    *repository.MemoryStore
	cache    *cache.ReportCache
	motor    *Motor
	stock    StockService
	eventos  EventoService
	comercio ComercioService
	cereales CerealService
	lotes    LoteService
	reportes ReporteService
	sistema  SistemaService
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	logger := zap.NewNop()
	store := repository.NewMemoryStore()
	rc := cache.NewReportCache(nil, 32, time.Minute, logger)
	motor := NewMotor(store, catalogoTest, rc, logger).WithClock(func() time.Time { return hoyTest })

	e := &entorno{
		store:    store,
		cache:    rc,
		motor:    motor,
		stock:    NewStockService(motor, rc, logger),
		eventos:  NewEventoService(motor, logger),
		comercio: NewComercioService(motor, logger),
		cereales: NewCerealService(motor, asignacionTest, logger),
		lotes:    NewLoteService(motor, logger),
		reportes: NewReporteService(motor, rc, "Perla", logger),
		sistema:  NewSistemaService(motor, asignacionTest, logger),
	}
	require.NoError(t, e.sistema.Bootstrap(context.Background()))
	return e
}

// cantidad lee el stock actual de (tipo, dueño)
func (e *entorno) cantidad(t *testing.T, tipo, dueno string) int {
	t.Helper()
	n, err := e.motor.Accessor().GetQuantity(context.Background(), tipo, dueno)
	require.NoError(t, err)
	return n
}

func (e *entorno) fijar(t *testing.T, tipo, dueno string, n int) {
	t.Helper()
	_, err := e.stock.Ajustar(context.Background(), &models.StockRequest{Tipo: tipo, Dueno: dueno, Cantidad: &n})
	require.NoError(t, err)
}

func fecha(dias int) string {
	return models.FechaDe(hoyTest.AddDate(0, 0, dias)).String()
}

func intPtr(n int) *int {
	return &n
}
