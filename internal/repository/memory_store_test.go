package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func TestMemoryStoreWithTxRollback(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetStock(ctx, "Vacas", "Perla", 10))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx Store) error {
		require.NoError(t, tx.SetStock(ctx, "Vacas", "Perla", 3))
		require.NoError(t, tx.CreateNacimiento(ctx, &models.Nacimiento{
			Fecha: models.NuevaFecha(2026, 1, 2), Dueno: "Perla", Machos: 1,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stock, err := store.GetStock(ctx, "Vacas", "Perla")
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Cantidad)

	nacimientos, err := store.ListNacimientos(ctx)
	require.NoError(t, err)
	assert.Empty(t, nacimientos)
}

func TestMemoryStoreWithTxCommit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.WithTx(ctx, func(tx Store) error {
		if err := tx.SetStock(ctx, "Terneros", "Ramon", 4); err != nil {
			return err
		}
		// una transacción anidada reutiliza la misma
		return tx.WithTx(ctx, func(inner Store) error {
			return inner.SetStock(ctx, "Terneras", "Ramon", 2)
		})
	})
	require.NoError(t, err)

	rows, err := store.ListStock(ctx, models.StockFilter{Dueno: "Ramon"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Terneras", rows[0].Tipo)
	assert.Equal(t, 2, rows[0].Cantidad)
	assert.Equal(t, "Terneros", rows[1].Tipo)
	assert.Equal(t, 4, rows[1].Cantidad)
}

func TestMemoryStoreLockStockMaterializesRows(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	keys := []models.StockKey{{Tipo: "Vacas", Dueno: "Salgado"}, {Tipo: "Vacas", Dueno: "Salgado"}}
	cantidades, err := store.LockStock(ctx, keys)
	require.NoError(t, err)
	assert.Equal(t, map[models.StockKey]int{{Tipo: "Vacas", Dueno: "Salgado"}: 0}, cantidades)

	stock, err := store.GetStock(ctx, "Vacas", "Salgado")
	require.NoError(t, err)
	require.NotNil(t, stock)
	assert.Equal(t, 0, stock.Cantidad)
}

func TestMemoryStoreDeleteMissingReturnsErrNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assert.ErrorIs(t, store.DeleteNacimiento(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteMuerte(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteVenta(ctx, models.CategoriaTerneros, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteCompra(ctx, models.CategoriaVacasToros, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteVentaCereal(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, store.DeleteAsignacion(ctx, 99), ErrNotFound)

	err := store.DeleteVenta(ctx, "ovejas", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	fechas := []models.Fecha{
		models.NuevaFecha(2026, 3, 1),
		models.NuevaFecha(2026, 5, 1),
		models.NuevaFecha(2026, 5, 1),
	}
	for _, f := range fechas {
		require.NoError(t, store.CreateVenta(ctx, &models.Venta{
			Categoria: models.CategoriaTerneros, Tipo: "Terneros", FechaVenta: f, Dueno: "Perla", Cantidad: 1,
		}))
	}

	ventas, err := store.ListVentas(ctx, models.CategoriaTerneros)
	require.NoError(t, err)
	require.Len(t, ventas, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{ventas[0].ID, ventas[1].ID, ventas[2].ID})
}

func TestMemoryStoreMergeAsignacion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureLotes(ctx, []string{"Lote 8", "Monte"}))
	require.NoError(t, store.EnsureLotes(ctx, []string{"Lote 8"}))

	lotes, err := store.ListLotes(ctx)
	require.NoError(t, err)
	require.Len(t, lotes, 2)
	loteID := lotes[0].ID

	first := &models.LoteAsignacion{LoteID: loteID, TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 5}
	require.NoError(t, store.MergeAsignacion(ctx, first))
	second := &models.LoteAsignacion{LoteID: loteID, TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 3}
	require.NoError(t, store.MergeAsignacion(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 8, second.Cantidad)

	total, err := store.SumAsignado(ctx, "Vacas", "Perla")
	require.NoError(t, err)
	assert.Equal(t, 8, total)

	err = store.MergeAsignacion(ctx, &models.LoteAsignacion{LoteID: 999, TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreStockCereal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateStockCereal(ctx, &models.StockCereal{Anio: 2026, Tipo: models.CerealBlanco, KgDisponibles: 100}))
	// la segunda creación no pisa la fila existente
	require.NoError(t, store.CreateStockCereal(ctx, &models.StockCereal{Anio: 2026, Tipo: models.CerealBlanco, KgDisponibles: 5}))
	require.NoError(t, store.SetKgVendidos(ctx, 2026, models.CerealBlanco, 40))

	sc, err := store.GetStockCereal(ctx, 2026, models.CerealBlanco)
	require.NoError(t, err)
	assert.Equal(t, 100, sc.KgDisponibles)
	assert.Equal(t, 60, sc.KgRestantes())

	assert.Error(t, store.SetKgVendidos(ctx, 2026, models.CerealBlanco, 101))
	assert.ErrorIs(t, store.SetKgVendidos(ctx, 2025, models.CerealBlanco, 1), ErrNotFound)

	anios, err := store.ListAniosCereal(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2026}, anios)
}

func TestMemoryStoreTruncateLedgerKeepsStockAndLotes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetStock(ctx, "Vacas", "Perla", 7))
	require.NoError(t, store.EnsureLotes(ctx, []string{"Monte"}))
	require.NoError(t, store.CreateMuerte(ctx, &models.Muerte{TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 1}))

	require.NoError(t, store.TruncateLedger(ctx))

	muertes, err := store.ListMuertes(ctx)
	require.NoError(t, err)
	assert.Empty(t, muertes)

	lotes, err := store.ListLotes(ctx)
	require.NoError(t, err)
	assert.Len(t, lotes, 1)

	stock, err := store.GetStock(ctx, "Vacas", "Perla")
	require.NoError(t, err)
	assert.Equal(t, 7, stock.Cantidad)

	// las secuencias se reinician
	m := &models.Muerte{TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 1}
	require.NoError(t, store.CreateMuerte(ctx, m))
	assert.Equal(t, 1, m.ID)
}
