package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func TestBootstrapEsIdempotente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Vacas", "Perla", 9)

	require.NoError(t, e.sistema.Bootstrap(ctx))

	rows, err := e.stock.Listar(ctx, models.StockFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, len(catalogoTest.Claves()))
	assert.Equal(t, 9, e.cantidad(t, "Vacas", "Perla"))

	lotes, err := e.lotes.ListarLotes(ctx)
	require.NoError(t, err)
	assert.Len(t, lotes, len(models.LotesIniciales))
}

func TestResetTotal(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Terneros", "Perla", 3)

	_, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{Fecha: fecha(0), Dueno: "Perla", Machos: 1})
	require.NoError(t, err)
	_, err = e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealBlanco, 500))
	require.NoError(t, err)
	_, err = e.lotes.Asignar(ctx, asignar(1, "Terneros", "Perla", 4))
	require.NoError(t, err)
	require.NoError(t, e.lotes.ActualizarNotas(ctx, 1, "mantener"))

	require.NoError(t, e.sistema.ResetTotal(ctx))

	assert.Equal(t, 0, e.cantidad(t, "Terneros", "Perla"))
	nacimientos, err := e.eventos.ListarNacimientos(ctx)
	require.NoError(t, err)
	assert.Empty(t, nacimientos)
	asignaciones, err := e.lotes.ListarTodasAsignaciones(ctx)
	require.NoError(t, err)
	assert.Empty(t, asignaciones)

	view := stockColor(t, e, 2026, models.CerealBlanco)
	assert.Equal(t, 0, view.KgVendidos)
	assert.Equal(t, 223600, view.KgDisponibles)

	lotes, err := e.lotes.ListarLotes(ctx)
	require.NoError(t, err)
	assert.Len(t, lotes, len(models.LotesIniciales))

	// los ids arrancan de nuevo
	n, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{Fecha: fecha(0), Dueno: "Perla", Hembras: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n.ID)
}

func TestInicializarAnio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	require.NoError(t, e.sistema.InicializarAnio(ctx, 2030))
	// una segunda vez no pisa lo vendido
	req := ventaCereal(models.CerealNegro, 100)
	req.Fecha = "2030-01-15"
	_, err := e.cereales.RegistrarVenta(ctx, req)
	require.NoError(t, err)
	require.NoError(t, e.sistema.InicializarAnio(ctx, 2030))
	assert.Equal(t, 100, stockColor(t, e, 2030, models.CerealNegro).KgVendidos)

	assert.ErrorIs(t, e.sistema.InicializarAnio(ctx, 0), ErrInvalidInput)
}

// Registrar y borrar enseguida cualquier evento deja cada fila tocada como estaba.
func TestReversionIdempotente(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Terneros", "Ramon", 6)
	e.fijar(t, "Terneras", "Ramon", 4)
	e.fijar(t, "Vacas", "Ramon", 12)
	e.fijar(t, "Toro", "Ramon", 2)

	antes, err := e.stock.Listar(ctx, models.StockFilter{})
	require.NoError(t, err)
	cerealAntes, err := e.cereales.StockAnual(ctx, 2026)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		n, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{Fecha: fecha(i), Dueno: "Ramon", Machos: i + 1, Hembras: i})
		require.NoError(t, err)
		require.NoError(t, e.eventos.EliminarNacimiento(ctx, n.ID))

		m, err := e.eventos.RegistrarMuerte(ctx, &models.MuerteRequest{TipoAnimal: "Vacas", Dueno: "Ramon", Cantidad: i + 1, Fecha: fecha(0)})
		require.NoError(t, err)
		require.NoError(t, e.eventos.EliminarMuerte(ctx, m.ID))

		v, err := e.comercio.RegistrarVenta(ctx, models.CategoriaVacasToros, &models.VentaRequest{
			Tipo: "Toro", FechaVenta: fecha(0), Dueno: "Ramon", Cantidad: 1, PrecioTotal: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		require.NoError(t, e.comercio.EliminarVenta(ctx, models.CategoriaVacasToros, v.ID))

		c, err := e.comercio.RegistrarCompra(ctx, models.CategoriaTerneros, &models.CompraRequest{
			FechaCompra: fecha(0), Dueno: "Ramon", Cantidad: 3 * (i + 1),
		})
		require.NoError(t, err)
		require.NoError(t, e.comercio.EliminarCompra(ctx, models.CategoriaTerneros, c.ID))

		vc, err := e.cereales.RegistrarVenta(ctx, ventaCereal(models.CerealNegro, 1000*(i+1)))
		require.NoError(t, err)
		require.NoError(t, e.cereales.EliminarVenta(ctx, vc.ID))
	}

	despues, err := e.stock.Listar(ctx, models.StockFilter{})
	require.NoError(t, err)
	require.Len(t, despues, len(antes))
	for i := range antes {
		assert.Equal(t, antes[i].Clave(), despues[i].Clave())
		assert.Equal(t, antes[i].Cantidad, despues[i].Cantidad, "%s/%s", antes[i].Tipo, antes[i].Dueno)
	}

	cerealDespues, err := e.cereales.StockAnual(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, cerealAntes, cerealDespues)
}
