package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CerealBlanco = "Blanco"
	CerealNegro  = "Negro"
)

// ColoresCereal en el orden en que se listan
var ColoresCereal = []string{CerealBlanco, CerealNegro}

func ColorCerealValido(tipo string) bool {
	return tipo == CerealBlanco || tipo == CerealNegro
}

// AsignacionCereal son los kilos disponibles por color para cada año nuevo
type AsignacionCereal map[string]int

// StockCereal representa la tabla stock_cereales
type StockCereal struct {
	ID                 int       `json:"id" db:"id"`
	Anio               int       `json:"anio" db:"anio"`
	Tipo               string    `json:"tipo" db:"tipo"`
	KgDisponibles      int       `json:"kg_disponibles" db:"kg_disponibles"`
	KgVendidos         int       `json:"kg_vendidos" db:"kg_vendidos"`
	FechaActualizacion time.Time `json:"fecha_actualizacion" db:"fecha_actualizacion"`
}

func (s StockCereal) KgRestantes() int {
	return s.KgDisponibles - s.KgVendidos
}

// StockCerealView agrega los kilos restantes para la respuesta HTTP
type StockCerealView struct {
	Tipo          string `json:"tipo"`
	KgDisponibles int    `json:"kg_disponibles"`
	KgVendidos    int    `json:"kg_vendidos"`
	KgRestantes   int    `json:"kg_restantes"`
}

func NuevaStockCerealView(s StockCereal) StockCerealView {
	return StockCerealView{
		Tipo:          s.Tipo,
		KgDisponibles: s.KgDisponibles,
		KgVendidos:    s.KgVendidos,
		KgRestantes:   s.KgRestantes(),
	}
}

// VentaCereal representa la tabla ventas_cereales.
// Los montos se guardan tal cual llegan, el motor solo valida los kilos.
type VentaCereal struct {
	ID           int             `json:"id" db:"id"`
	Fecha        Fecha           `json:"fecha" db:"fecha"`
	Anio         int             `json:"anio" db:"anio"`
	Tipo         string          `json:"tipo" db:"tipo"`
	KgVendidos   int             `json:"kg_vendidos" db:"kg_vendidos"`
	PrecioPorKg  decimal.Decimal `json:"precio_por_kg" db:"precio_por_kg"`
	TotalVendido decimal.Decimal `json:"total_vendido" db:"total_vendido"`
	Retencion    decimal.Decimal `json:"retencion" db:"retencion"`
	ValorFinal   decimal.Decimal `json:"valor_final" db:"valor_final"`
	FechaCobro   *Fecha          `json:"fecha_cobro" db:"fecha_cobro"`
	Notas        string          `json:"notas" db:"notas"`
}
