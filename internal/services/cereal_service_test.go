package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func ventaCereal(tipo string, kg int) *models.VentaCerealRequest {
	return &models.VentaCerealRequest{
		Fecha:       fecha(0),
		Tipo:        tipo,
		KgVendidos:  kg,
		PrecioPorKg: decimal.RequireFromString("0.35"),
	}
}

func stockColor(t *testing.T, e *entorno, anio int, color string) models.StockCerealView {
	t.Helper()
	views, err := e.cereales.StockAnual(context.Background(), anio)
	require.NoError(t, err)
	for _, v := range views {
		if v.Tipo == color {
			return v
		}
	}
	t.Fatalf("color %s ausente en %d", color, anio)
	return models.StockCerealView{}
}

func TestVentaCerealLimiteAnual(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealBlanco, 200000))
	require.NoError(t, err)
	assert.Equal(t, 200000, stockColor(t, e, 2026, models.CerealBlanco).KgVendidos)

	_, err = e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealBlanco, 30000))
	require.ErrorIs(t, err, ErrInsufficientGrainStock)
	var insuf *InsufficientGrainStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, 23600, insuf.Restante)

	_, err = e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealBlanco, 23600))
	require.NoError(t, err)
	view := stockColor(t, e, 2026, models.CerealBlanco)
	assert.Equal(t, 223600, view.KgVendidos)
	assert.Equal(t, 0, view.KgRestantes)

	_, err = e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealBlanco, 1))
	require.ErrorIs(t, err, ErrInsufficientGrainStock)

	// el negro no se vio afectado
	assert.Equal(t, 0, stockColor(t, e, 2026, models.CerealNegro).KgVendidos)
}

func TestVentaCerealSinStockDelAnio(t *testing.T) {
	e := nuevoEntorno(t)
	req := ventaCereal(models.CerealNegro, 10)
	req.Fecha = "2019-05-01"

	_, err := e.cereales.RegistrarVenta(context.Background(), req)
	require.ErrorIs(t, err, ErrNoStockForYear)
}

func TestVentaCerealValidaciones(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.cereales.RegistrarVenta(ctx, ventaCereal("Rojo", 10))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealBlanco, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	sinPrecio := ventaCereal(models.CerealBlanco, 10)
	sinPrecio.PrecioPorKg = decimal.Zero
	_, err = e.cereales.RegistrarVenta(ctx, sinPrecio)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEliminarVentaCereal(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	v, err := e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealNegro, 1600))
	require.NoError(t, err)
	assert.Equal(t, 2026, v.Anio)
	assert.Equal(t, 50000, stockColor(t, e, 2026, models.CerealNegro).KgRestantes)

	require.NoError(t, e.cereales.EliminarVenta(ctx, v.ID))
	assert.Equal(t, 0, stockColor(t, e, 2026, models.CerealNegro).KgVendidos)

	ventas, err := e.cereales.ListarVentas(ctx, 2026)
	require.NoError(t, err)
	assert.Empty(t, ventas)

	assert.ErrorIs(t, e.cereales.EliminarVenta(ctx, v.ID), ErrNotFound)
}

func TestStockAnualCreaElAnio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	views, err := e.cereales.StockAnual(ctx, 2027)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 223600, stockColor(t, e, 2027, models.CerealBlanco).KgDisponibles)

	anios, err := e.cereales.ListarAnios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2027, 2026}, anios)

	_, err = e.cereales.StockAnual(ctx, 12)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
