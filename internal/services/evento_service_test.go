package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func TestNacimientoIdaYVuelta(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Terneros", "Perla", 1)

	n, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{
		Fecha: fecha(1), Dueno: "Perla", Machos: 3, Hembras: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Equal(t, 4, e.cantidad(t, "Terneros", "Perla"))
	assert.Equal(t, 2, e.cantidad(t, "Terneras", "Perla"))

	require.NoError(t, e.eventos.EliminarNacimiento(ctx, n.ID))
	assert.Equal(t, 1, e.cantidad(t, "Terneros", "Perla"))
	assert.Equal(t, 0, e.cantidad(t, "Terneras", "Perla"))

	nacimientos, err := e.eventos.ListarNacimientos(ctx)
	require.NoError(t, err)
	assert.Empty(t, nacimientos)
}

func TestNacimientoFechaPasada(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	_, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{
		Fecha: fecha(-1), Dueno: "Perla", Machos: 1,
	})
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 0, e.cantidad(t, "Terneros", "Perla"))

	// hoy está permitido
	_, err = e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{
		Fecha: fecha(0), Dueno: "Perla", Machos: 1,
	})
	require.NoError(t, err)
}

func TestNacimientoDatosInvalidos(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.NacimientoRequest
	}{
		{"fecha mal formada", models.NacimientoRequest{Fecha: "10/03/2026", Dueno: "Perla", Machos: 1}},
		{"machos negativos", models.NacimientoRequest{Fecha: fecha(0), Dueno: "Perla", Machos: -1}},
		{"dueño desconocido", models.NacimientoRequest{Fecha: fecha(0), Dueno: "Nadie", Machos: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.eventos.RegistrarNacimiento(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestEliminarNacimientoConTernerosVendidos(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	n, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{
		Fecha: fecha(0), Dueno: "Salgado", Machos: 2, Hembras: 2,
	})
	require.NoError(t, err)

	_, err = e.comercio.RegistrarVenta(ctx, models.CategoriaTerneros, &models.VentaRequest{
		FechaVenta: fecha(0), Dueno: "Salgado", Cantidad: 2,
	})
	require.NoError(t, err)

	err = e.eventos.EliminarNacimiento(ctx, n.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// ninguna de las dos filas se tocó
	assert.Equal(t, 0, e.cantidad(t, "Terneros", "Salgado"))
	assert.Equal(t, 2, e.cantidad(t, "Terneras", "Salgado"))
	nacimientos, err := e.eventos.ListarNacimientos(ctx)
	require.NoError(t, err)
	assert.Len(t, nacimientos, 1)
}

func TestEliminarEventoInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	assert.ErrorIs(t, e.eventos.EliminarNacimiento(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, e.eventos.EliminarMuerte(ctx, 99), ErrNotFound)
}

func TestMuerte(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Vacas", "Ramon", 3)

	_, err := e.eventos.RegistrarMuerte(ctx, &models.MuerteRequest{
		TipoAnimal: "Vacas", Dueno: "Ramon", Cantidad: 4, Fecha: fecha(0),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, e.cantidad(t, "Vacas", "Ramon"))

	m, err := e.eventos.RegistrarMuerte(ctx, &models.MuerteRequest{
		TipoAnimal: "Vacas", Dueno: "Ramon", Cantidad: 2, Causa: "Rayo", Fecha: fecha(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hembra", m.Sexo)
	assert.Equal(t, 1, e.cantidad(t, "Vacas", "Ramon"))

	require.NoError(t, e.eventos.EliminarMuerte(ctx, m.ID))
	assert.Equal(t, 3, e.cantidad(t, "Vacas", "Ramon"))
}

func TestMuerteFechaPasada(t *testing.T) {
	e := nuevoEntorno(t)
	e.fijar(t, "Vacas", "Ramon", 3)

	_, err := e.eventos.RegistrarMuerte(context.Background(), &models.MuerteRequest{
		TipoAnimal: "Vacas", Dueno: "Ramon", Cantidad: 1, Fecha: fecha(-30),
	})
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 3, e.cantidad(t, "Vacas", "Ramon"))
}
