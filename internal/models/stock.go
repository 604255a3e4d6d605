package models

import (
	"sort"
	"time"
)

// Stock representa la tabla stock: una fila por (tipo, dueño)
type Stock struct {
	ID                 int       `json:"id" db:"id"`
	Tipo               string    `json:"tipo" db:"tipo"`
	Dueno              string    `json:"dueno" db:"dueno"`
	Cantidad           int       `json:"cantidad" db:"cantidad"`
	FechaActualizacion time.Time `json:"fecha_actualizacion" db:"fecha_actualizacion"`
}

// Clave devuelve la clave (tipo, dueño) de la fila
func (s Stock) Clave() StockKey {
	return StockKey{Tipo: s.Tipo, Dueno: s.Dueno}
}

// StockKey identifica una fila de stock
type StockKey struct {
	Tipo  string
	Dueno string
}

// Less ordena primero por tipo y luego por dueño. Es el orden en que se toman los locks.
func (k StockKey) Less(o StockKey) bool {
	if k.Tipo != o.Tipo {
		return k.Tipo < o.Tipo
	}
	return k.Dueno < o.Dueno
}

// SortKeys ordena y deduplica las claves
func SortKeys(keys []StockKey) []StockKey {
	seen := make(map[StockKey]struct{}, len(keys))
	out := make([]StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// StockDelta es una variación de cantidad sobre una fila de stock
type StockDelta struct {
	StockKey
	Delta int
}

// Negar invierte el signo de cada delta
func Negar(deltas []StockDelta) []StockDelta {
	out := make([]StockDelta, len(deltas))
	for i, d := range deltas {
		out[i] = StockDelta{StockKey: d.StockKey, Delta: -d.Delta}
	}
	return out
}

// StockFilter filtros opcionales para consultar stock
type StockFilter struct {
	Dueno string `form:"dueno"`
	Tipo  string `form:"tipo"`
}

// StockResumen agrega el stock por dueño y por tipo
type StockResumen struct {
	Total    int            `json:"total"`
	PorDueno map[string]int `json:"por_dueno"`
	PorTipo  map[string]int `json:"por_tipo"`
}

// NuevoStockResumen agrupa las filas recibidas
func NuevoStockResumen(rows []*Stock) StockResumen {
	r := StockResumen{
		PorDueno: make(map[string]int),
		PorTipo:  make(map[string]int),
	}
	for _, s := range rows {
		r.Total += s.Cantidad
		r.PorDueno[s.Dueno] += s.Cantidad
		r.PorTipo[s.Tipo] += s.Cantidad
	}
	return r
}
