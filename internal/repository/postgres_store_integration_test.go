//go:build integration

// Tests contra un Postgres real levantado con testcontainers.
// Correr con: go test -tags integration ./internal/repository/... -v
package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/config"
	"github.com/ramivilla/DonJose/internal/database"
	"github.com/ramivilla/DonJose/internal/models"
)

func nuevoPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("donjose_test"),
		tcPostgres.WithUsername("donjose"),
		tcPostgres.WithPassword("donjose"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zap.NewNop()
	pg, err := database.NewPostgresDB(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	require.NoError(t, database.NewMigrator(pg.DB, logger).RunMigrations(ctx))
	// una segunda corrida no debe hacer nada
	require.NoError(t, database.NewMigrator(pg.DB, logger).RunMigrations(ctx))

	store, err := NewPostgresStore(pg.DB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	store := nuevoPostgresStore(t)
	ctx := context.Background()

	t.Run("stock y rollback", func(t *testing.T) {
		key := models.StockKey{Tipo: "Vacas", Dueno: "Perla"}
		require.NoError(t, store.EnsureStock(ctx, []models.StockKey{key}))
		require.NoError(t, store.SetStock(ctx, key.Tipo, key.Dueno, 7))

		boom := errors.New("boom")
		err := store.WithTx(ctx, func(tx Store) error {
			if err := tx.SetStock(ctx, key.Tipo, key.Dueno, 100); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		s, err := store.GetStock(ctx, key.Tipo, key.Dueno)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 7, s.Cantidad)

		ausente, err := store.GetStock(ctx, "Toro", "Nadie")
		require.NoError(t, err)
		assert.Nil(t, ausente)
	})

	t.Run("lock serializa decrementos", func(t *testing.T) {
		key := models.StockKey{Tipo: "Terneros", Dueno: "Salgado"}
		require.NoError(t, store.SetStock(ctx, key.Tipo, key.Dueno, 5))

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			exito int
		)
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.WithTx(ctx, func(tx Store) error {
					actuales, err := tx.LockStock(ctx, []models.StockKey{key})
					if err != nil {
						return err
					}
					if actuales[key] < 1 {
						return errors.New("sin stock")
					}
					return tx.SetStock(ctx, key.Tipo, key.Dueno, actuales[key]-1)
				})
				if err == nil {
					mu.Lock()
					exito++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 5, exito)
		s, err := store.GetStock(ctx, key.Tipo, key.Dueno)
		require.NoError(t, err)
		assert.Equal(t, 0, s.Cantidad)
	})

	t.Run("asignaciones se fusionan", func(t *testing.T) {
		require.NoError(t, store.EnsureLotes(ctx, models.LotesIniciales))
		lotes, err := store.ListLotes(ctx)
		require.NoError(t, err)
		require.Len(t, lotes, len(models.LotesIniciales))

		hoy := models.FechaDe(time.Now())
		a := &models.LoteAsignacion{LoteID: lotes[0].ID, TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 2, FechaAsignacion: hoy}
		require.NoError(t, store.MergeAsignacion(ctx, a))
		b := &models.LoteAsignacion{LoteID: lotes[0].ID, TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 3, FechaAsignacion: hoy}
		require.NoError(t, store.MergeAsignacion(ctx, b))

		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, 5, b.Cantidad)

		total, err := store.SumAsignado(ctx, "Vacas", "Perla")
		require.NoError(t, err)
		assert.Equal(t, 5, total)
	})

	t.Run("cereal y nacimientos", func(t *testing.T) {
		sc := &models.StockCereal{Anio: 2026, Tipo: models.CerealBlanco, KgDisponibles: 223600}
		require.NoError(t, store.CreateStockCereal(ctx, sc))
		// repetir no pisa la fila
		require.NoError(t, store.CreateStockCereal(ctx, &models.StockCereal{Anio: 2026, Tipo: models.CerealBlanco, KgDisponibles: 1}))
		require.NoError(t, store.SetKgVendidos(ctx, 2026, models.CerealBlanco, 1000))

		got, err := store.GetStockCereal(ctx, 2026, models.CerealBlanco)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 223600, got.KgDisponibles)
		assert.Equal(t, 222600, got.KgRestantes())

		n := &models.Nacimiento{Fecha: models.FechaDe(time.Now()), Dueno: "Ramon", Machos: 1, Hembras: 2}
		require.NoError(t, store.CreateNacimiento(ctx, n))
		assert.NotZero(t, n.ID)

		require.ErrorIs(t, store.DeleteNacimiento(ctx, n.ID+1000), ErrNotFound)
	})

	t.Run("truncate ledger", func(t *testing.T) {
		require.NoError(t, store.TruncateLedger(ctx))

		nacimientos, err := store.ListNacimientos(ctx)
		require.NoError(t, err)
		assert.Empty(t, nacimientos)

		anios, err := store.ListAniosCereal(ctx)
		require.NoError(t, err)
		assert.Empty(t, anios)

		// el stock no se toca
		s, err := store.GetStock(ctx, "Vacas", "Perla")
		require.NoError(t, err)
		assert.Equal(t, 7, s.Cantidad)
	})
}
