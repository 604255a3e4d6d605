package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramivilla/DonJose/internal/models"
)

func TestDashboard(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Vacas", "Perla", 10)
	e.fijar(t, "Toro", "Ramon", 2)
	e.fijar(t, "Terneros", "Salgado", 3)

	_, err := e.comercio.RegistrarVenta(ctx, models.CategoriaTerneros, &models.VentaRequest{
		FechaVenta: fecha(0), Dueno: "Salgado", Cantidad: 1,
		PrecioTotal: decimal.NewFromInt(100), FechaCobro: fecha(20),
	})
	require.NoError(t, err)
	// cobro vencido: no aparece
	_, err = e.comercio.RegistrarVenta(ctx, models.CategoriaTerneros, &models.VentaRequest{
		FechaVenta: fecha(0), Dueno: "Salgado", Cantidad: 1, FechaCobro: fecha(-1),
	})
	require.NoError(t, err)

	cereal := ventaCereal(models.CerealBlanco, 1000)
	cereal.ValorFinal = decimal.NewFromInt(350)
	cereal.FechaCobro = fecha(5)
	_, err = e.cereales.RegistrarVenta(ctx, cereal)
	require.NoError(t, err)

	_, err = e.comercio.RegistrarCompra(ctx, models.CategoriaVacasToros, &models.CompraRequest{
		Tipo: "Vacas", FechaCompra: fecha(0), Dueno: "Ramon", Proveedor: "Feria", Cantidad: 1,
		PrecioTotal: decimal.NewFromInt(900), FechaPago: fecha(0),
	})
	require.NoError(t, err)

	d, err := e.reportes.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, d.TotalAnimales)
	assert.Equal(t, []models.TotalDueno{
		{Dueno: "Perla", Total: 10},
		{Dueno: "Ramon", Total: 3},
		{Dueno: "Salgado", Total: 1},
	}, d.StockPorDueno)

	require.Len(t, d.FuturosCobros, 2)
	assert.Equal(t, "cereales", d.FuturosCobros[0].Tipo)
	assert.Equal(t, "Perla", d.FuturosCobros[0].Dueno)
	assert.True(t, decimal.NewFromInt(350).Equal(d.FuturosCobros[0].PrecioTotal))
	assert.Equal(t, models.CategoriaTerneros, d.FuturosCobros[1].Tipo)

	require.Len(t, d.FuturosPagos, 1)
	assert.Equal(t, "Feria", d.FuturosPagos[0].Notas)
}

func TestDashboardSeInvalidaAlEscribir(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	antes, err := e.reportes.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, antes.TotalAnimales)

	// segunda lectura sale del cache
	_, err = e.reportes.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.cache.GetStats().Hits)

	e.fijar(t, "Vacas", "Perla", 4)
	despues, err := e.reportes.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, despues.TotalAnimales)
}

func TestEstadisticasNacimientos(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Vacas", "Perla", 30)
	e.fijar(t, "Vacas", "Ramon", 10)

	for _, req := range []models.NacimientoRequest{
		{Fecha: fecha(0), Dueno: "Perla", Machos: 5, Hembras: 4},
		{Fecha: fecha(2), Dueno: "Ramon", Machos: 1, Hembras: 0},
		{Fecha: "2027-02-01", Dueno: "Perla", Machos: 2, Hembras: 2},
	} {
		req := req
		_, err := e.eventos.RegistrarNacimiento(ctx, &req)
		require.NoError(t, err)
	}

	stats, err := e.reportes.EstadisticasNacimientos(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, 2027, stats[0].Anio)
	assert.Equal(t, "10.0", stats[0].PorcentajeParicion)

	assert.Equal(t, models.EstadisticaNacimientos{
		Anio: 2026, Machos: 6, Hembras: 4, Total: 10, VacasTotales: 40, PorcentajeParicion: "25.0",
	}, stats[1])
}

func TestEstadisticasMuertes(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	e.fijar(t, "Vacas", "Perla", 5)

	_, err := e.eventos.RegistrarNacimiento(ctx, &models.NacimientoRequest{
		Fecha: fecha(0), Dueno: "Perla", Machos: 4, Hembras: 4,
	})
	require.NoError(t, err)
	_, err = e.eventos.RegistrarMuerte(ctx, &models.MuerteRequest{
		TipoAnimal: "Terneros", Dueno: "Perla", Cantidad: 1, EsRecienNacido: true, Fecha: fecha(0),
	})
	require.NoError(t, err)
	_, err = e.eventos.RegistrarMuerte(ctx, &models.MuerteRequest{
		TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 2, Fecha: fecha(1),
	})
	require.NoError(t, err)
	_, err = e.eventos.RegistrarMuerte(ctx, &models.MuerteRequest{
		TipoAnimal: "Vacas", Dueno: "Perla", Cantidad: 1, Fecha: "2027-06-01",
	})
	require.NoError(t, err)

	stats, err := e.reportes.EstadisticasMuertes(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, models.EstadisticaMuertes{
		Anio: 2027, TotalMuertes: 1, PorcentajeMuerteTerneros: "0.0",
	}, stats[0])
	assert.Equal(t, models.EstadisticaMuertes{
		Anio: 2026, TotalMuertes: 3, TernerosRecienNacidos: 1, TotalNacimientos: 8, PorcentajeMuerteTerneros: "12.5",
	}, stats[1])
}
