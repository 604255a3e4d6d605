package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func TestVentaStockInsuficiente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Terneros", "Perla", 2)

	_, err := e.comercio.RegistrarVenta(ctx, models.CategoriaTerneros, &models.VentaRequest{
		Tipo: "Terneros", FechaVenta: fecha(0), Dueno: "Perla", Cantidad: 5,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 2, e.cantidad(t, "Terneros", "Perla"))
	ventas, err := e.comercio.ListarVentas(ctx, models.CategoriaTerneros)
	require.NoError(t, err)
	assert.Empty(t, ventas)
}

func TestEliminarCompraDespuesDeVender(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	compra, err := e.comercio.RegistrarCompra(ctx, models.CategoriaTerneros, &models.CompraRequest{
		FechaCompra: fecha(-10), Dueno: "Ramon", Cantidad: 5,
		PrecioTotal: decimal.NewFromInt(500000),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TipoTerneros, compra.Tipo)
	assert.Equal(t, 5, e.cantidad(t, "Terneros", "Ramon"))

	venta, err := e.comercio.RegistrarVenta(ctx, models.CategoriaTerneros, &models.VentaRequest{
		FechaVenta: fecha(-1), Dueno: "Ramon", Cantidad: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, e.cantidad(t, "Terneros", "Ramon"))

	err = e.comercio.EliminarCompra(ctx, models.CategoriaTerneros, compra.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, e.cantidad(t, "Terneros", "Ramon"))

	require.NoError(t, e.comercio.EliminarVenta(ctx, models.CategoriaTerneros, venta.ID))
	assert.Equal(t, 5, e.cantidad(t, "Terneros", "Ramon"))

	require.NoError(t, e.comercio.EliminarCompra(ctx, models.CategoriaTerneros, compra.ID))
	assert.Equal(t, 0, e.cantidad(t, "Terneros", "Ramon"))
}

func TestVentaVacasTorosUsaTipoRegistrado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Toro", "Salgado", 3)

	_, err := e.comercio.RegistrarVenta(ctx, models.CategoriaVacasToros, &models.VentaRequest{
		FechaVenta: fecha(0), Dueno: "Salgado", Cantidad: 1,
	})
	require.ErrorIs(t, err, ErrInvalidInput, "vacas/toros sin tipo")

	kilos := decimal.NewFromInt(480)
	v, err := e.comercio.RegistrarVenta(ctx, models.CategoriaVacasToros, &models.VentaRequest{
		Tipo: "Toro", FechaVenta: fecha(0), Dueno: "Salgado", Cantidad: 2,
		KilosPorAnimal: &kilos, KilosTotales: decimal.NewFromInt(960),
		FechaCobro: fecha(30),
	})
	require.NoError(t, err)
	assert.True(t, v.KilosPorAnimal.Valid)
	assert.Equal(t, 1, e.cantidad(t, "Toro", "Salgado"))

	require.NoError(t, e.comercio.EliminarVenta(ctx, models.CategoriaVacasToros, v.ID))
	assert.Equal(t, 3, e.cantidad(t, "Toro", "Salgado"))
}

func TestCompraVacasToros(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	c, err := e.comercio.RegistrarCompra(ctx, models.CategoriaVacasToros, &models.CompraRequest{
		Tipo: "Vaquillonas", FechaCompra: fecha(0), Dueno: "Perla", Proveedor: "Don Pedro", Cantidad: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, e.cantidad(t, "Vaquillonas", "Perla"))

	compras, err := e.comercio.ListarCompras(ctx, models.CategoriaVacasToros)
	require.NoError(t, err)
	require.Len(t, compras, 1)
	assert.Equal(t, c.ID, compras[0].ID)
	assert.Equal(t, "Don Pedro", compras[0].Proveedor)

	// las compras de terneros no se mezclan con las de vacas/toros
	terneros, err := e.comercio.ListarCompras(ctx, models.CategoriaTerneros)
	require.NoError(t, err)
	assert.Empty(t, terneros)
}

func TestComercioCategoriaDesconocida(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.comercio.ListarVentas(ctx, "caballos")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, e.comercio.EliminarCompra(ctx, "caballos", 1), ErrInvalidInput)
	assert.ErrorIs(t, e.comercio.EliminarVenta(ctx, models.CategoriaTerneros, 42), ErrNotFound)
}

func TestComercioNoValidaFechaPasada(t *testing.T) {
	e := nuevoEntorno(t)

	_, err := e.comercio.RegistrarCompra(context.Background(), models.CategoriaTerneros, &models.CompraRequest{
		FechaCompra: fecha(-400), Dueno: "Perla", Cantidad: 1,
	})
	require.NoError(t, err)
}
