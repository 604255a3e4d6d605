package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/cache"
	"github.com/ramivilla/DonJose/internal/models"
)

const tipoCobroCereal = "cereales"

// ReporteService arma las vistas derivadas del ledger. Solo lee.
type ReporteService interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	EstadisticasNacimientos(ctx context.Context) ([]models.EstadisticaNacimientos, error)
	EstadisticasMuertes(ctx context.Context) ([]models.EstadisticaMuertes, error)
}

type reporteService struct {
	motor      *Motor
	cache      *cache.ReportCache
	duenoCobro string
	logger     *zap.Logger
}

// NewReporteService crea el servicio. duenoCobro es a quien se atribuyen los cobros de cereal.
func NewReporteService(motor *Motor, reportCache *cache.ReportCache, duenoCobro string, logger *zap.Logger) ReporteService {
	return &reporteService{
		motor:      motor,
		cache:      reportCache,
		duenoCobro: duenoCobro,
		logger:     logger,
	}
}

func (s *reporteService) desdeCache(ctx context.Context, key string, dest interface{}) bool {
	return s.cache != nil && s.cache.Get(ctx, key, dest)
}

func (s *reporteService) guardar(ctx context.Context, key string, value interface{}) {
	if s.cache != nil {
		s.cache.Set(ctx, key, value)
	}
}

func (s *reporteService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	hoy := s.motor.hoy()
	// los cobros y pagos futuros dependen del día
	cacheKey := "dashboard:" + hoy.String()

	var d models.Dashboard
	if s.desdeCache(ctx, cacheKey, &d) {
		return &d, nil
	}

	store := s.motor.store
	stocks, err := store.ListStock(ctx, models.StockFilter{})
	if err != nil {
		return nil, fmt.Errorf("error obteniendo stock: %w", err)
	}
	d.StockPorDueno = []models.TotalDueno{}
	porDueno := make(map[string]int)
	for _, st := range stocks {
		d.TotalAnimales += st.Cantidad
		if _, ok := porDueno[st.Dueno]; !ok {
			d.StockPorDueno = append(d.StockPorDueno, models.TotalDueno{Dueno: st.Dueno})
		}
		porDueno[st.Dueno] += st.Cantidad
	}
	for i := range d.StockPorDueno {
		d.StockPorDueno[i].Total = porDueno[d.StockPorDueno[i].Dueno]
	}
	sort.Slice(d.StockPorDueno, func(i, j int) bool {
		return d.StockPorDueno[i].Dueno < d.StockPorDueno[j].Dueno
	})

	d.FuturosCobros = []models.CobroFuturo{}
	d.FuturosPagos = []models.PagoFuturo{}
	pendiente := func(f *models.Fecha) bool {
		return f != nil && !f.Antes(hoy)
	}

	for _, categoria := range []string{models.CategoriaTerneros, models.CategoriaVacasToros} {
		ventas, err := store.ListVentas(ctx, categoria)
		if err != nil {
			return nil, fmt.Errorf("error obteniendo ventas de %s: %w", categoria, err)
		}
		for _, v := range ventas {
			if !pendiente(v.FechaCobro) {
				continue
			}
			d.FuturosCobros = append(d.FuturosCobros, models.CobroFuturo{
				Tipo:        categoria,
				FechaCobro:  *v.FechaCobro,
				Dueno:       v.Dueno,
				PrecioTotal: v.PrecioTotal,
				Notas:       v.Notas,
			})
		}

		compras, err := store.ListCompras(ctx, categoria)
		if err != nil {
			return nil, fmt.Errorf("error obteniendo compras de %s: %w", categoria, err)
		}
		for _, c := range compras {
			if !pendiente(c.FechaPago) {
				continue
			}
			notas := c.Notas
			if categoria == models.CategoriaVacasToros {
				notas = c.Proveedor
			}
			d.FuturosPagos = append(d.FuturosPagos, models.PagoFuturo{
				Tipo:        categoria,
				FechaPago:   *c.FechaPago,
				Dueno:       c.Dueno,
				PrecioTotal: c.PrecioTotal,
				Notas:       notas,
			})
		}
	}

	ventasCereal, err := store.ListAllVentasCereal(ctx)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo ventas de cereal: %w", err)
	}
	for _, v := range ventasCereal {
		if !pendiente(v.FechaCobro) {
			continue
		}
		d.FuturosCobros = append(d.FuturosCobros, models.CobroFuturo{
			Tipo:        tipoCobroCereal,
			FechaCobro:  *v.FechaCobro,
			Dueno:       s.duenoCobro,
			PrecioTotal: v.ValorFinal,
			Notas:       v.Notas,
		})
	}

	sort.SliceStable(d.FuturosCobros, func(i, j int) bool {
		return d.FuturosCobros[i].FechaCobro.Antes(d.FuturosCobros[j].FechaCobro)
	})
	sort.SliceStable(d.FuturosPagos, func(i, j int) bool {
		return d.FuturosPagos[i].FechaPago.Antes(d.FuturosPagos[j].FechaPago)
	})

	s.guardar(ctx, cacheKey, d)
	s.logger.Debug("📊 Dashboard calculado",
		zap.Int("total_animales", d.TotalAnimales),
		zap.Int("cobros", len(d.FuturosCobros)),
		zap.Int("pagos", len(d.FuturosPagos)))
	return &d, nil
}

// porcentaje formatea con un decimal, como lo muestra la app
func porcentaje(parte, total int) string {
	return fmt.Sprintf("%.1f", float64(parte)/float64(total)*100)
}

// aniosDesc devuelve las claves del mapa de mayor a menor
func aniosDesc(m map[int]bool) []int {
	anios := make([]int, 0, len(m))
	for a := range m {
		anios = append(anios, a)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(anios)))
	return anios
}

// EstadisticasNacimientos agrupa por año. El porcentaje de parición usa las vacas en stock hoy.
func (s *reporteService) EstadisticasNacimientos(ctx context.Context) ([]models.EstadisticaNacimientos, error) {
	const cacheKey = "estadisticas:nacimientos"

	var stats []models.EstadisticaNacimientos
	if s.desdeCache(ctx, cacheKey, &stats) {
		return stats, nil
	}

	nacimientos, err := s.motor.store.ListNacimientos(ctx)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo nacimientos: %w", err)
	}
	vacas, err := s.motor.store.ListStock(ctx, models.StockFilter{Tipo: models.TipoVacas})
	if err != nil {
		return nil, fmt.Errorf("error obteniendo stock de vacas: %w", err)
	}
	vacasTotales := 0
	for _, v := range vacas {
		vacasTotales += v.Cantidad
	}
	if vacasTotales == 0 {
		vacasTotales = 1
	}

	anios := make(map[int]bool)
	porAnio := make(map[int]*models.EstadisticaNacimientos)
	for _, n := range nacimientos {
		anio := n.Fecha.Year()
		e, ok := porAnio[anio]
		if !ok {
			e = &models.EstadisticaNacimientos{Anio: anio, VacasTotales: vacasTotales}
			porAnio[anio] = e
			anios[anio] = true
		}
		e.Machos += n.Machos
		e.Hembras += n.Hembras
		e.Total += n.Machos + n.Hembras
	}

	stats = make([]models.EstadisticaNacimientos, 0, len(porAnio))
	for _, anio := range aniosDesc(anios) {
		e := porAnio[anio]
		e.PorcentajeParicion = porcentaje(e.Total, vacasTotales)
		stats = append(stats, *e)
	}

	s.guardar(ctx, cacheKey, stats)
	return stats, nil
}

// EstadisticasMuertes agrupa por año las muertes y las cruza con los nacimientos del mismo año
func (s *reporteService) EstadisticasMuertes(ctx context.Context) ([]models.EstadisticaMuertes, error) {
	const cacheKey = "estadisticas:muertes"

	var stats []models.EstadisticaMuertes
	if s.desdeCache(ctx, cacheKey, &stats) {
		return stats, nil
	}

	muertes, err := s.motor.store.ListMuertes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo muertes: %w", err)
	}
	nacimientos, err := s.motor.store.ListNacimientos(ctx)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo nacimientos: %w", err)
	}

	nacidosPorAnio := make(map[int]int)
	for _, n := range nacimientos {
		nacidosPorAnio[n.Fecha.Year()] += n.Machos + n.Hembras
	}

	anios := make(map[int]bool)
	porAnio := make(map[int]*models.EstadisticaMuertes)
	for _, m := range muertes {
		anio := m.Fecha.Year()
		e, ok := porAnio[anio]
		if !ok {
			e = &models.EstadisticaMuertes{Anio: anio, TotalNacimientos: nacidosPorAnio[anio]}
			porAnio[anio] = e
			anios[anio] = true
		}
		e.TotalMuertes += m.Cantidad
		if m.EsRecienNacido {
			e.TernerosRecienNacidos += m.Cantidad
		}
	}

	stats = make([]models.EstadisticaMuertes, 0, len(porAnio))
	for _, anio := range aniosDesc(anios) {
		e := porAnio[anio]
		e.PorcentajeMuerteTerneros = "0.0"
		if e.TotalNacimientos > 0 {
			e.PorcentajeMuerteTerneros = porcentaje(e.TernerosRecienNacidos, e.TotalNacimientos)
		}
		stats = append(stats, *e)
	}

	s.guardar(ctx, cacheKey, stats)
	return stats, nil
}
