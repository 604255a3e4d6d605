package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lote es una parcela del mapa del campo
type Lote struct {
	ID                 int                 `json:"id" db:"id"`
	Nombre             string              `json:"nombre" db:"nombre"`
	Superficie         decimal.NullDecimal `json:"superficie" db:"superficie"`
	Notas              string              `json:"notas" db:"notas"`
	FechaActualizacion time.Time           `json:"fecha_actualizacion" db:"fecha_actualizacion"`
}

// LoteAsignacion registra cuántos animales de (tipo, dueño) hay en un lote.
// Es única por (lote, tipo, dueño).
type LoteAsignacion struct {
	ID              int    `json:"id" db:"id"`
	LoteID          int    `json:"lote_id" db:"lote_id"`
	TipoAnimal      string `json:"tipo_animal" db:"tipo_animal"`
	Dueno           string `json:"dueno" db:"dueno"`
	Cantidad        int    `json:"cantidad" db:"cantidad"`
	FechaAsignacion Fecha  `json:"fecha_asignacion" db:"fecha_asignacion"`
}

func (a LoteAsignacion) Clave() StockKey {
	return StockKey{Tipo: a.TipoAnimal, Dueno: a.Dueno}
}

// LotesIniciales son las parcelas del mapa que se cargan en la primera migración
var LotesIniciales = []string{
	"Lote 7A", "Lote 7B", "Lote 8", "Lote 9", "Lote 10", "11 A", "11 B", "Lote 12",
	"Monte", "Entrada", "Lote 1B", "Lote 1C", "Lote 1A", "Lote 2", "Lote 4", "Lote 3",
	"Laguna 3", "Laguna 7B", "Laguna 7", "Lote 5",
}
