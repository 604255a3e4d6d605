package models

import (
	"github.com/shopspring/decimal"
)

// Categorías de compra/venta de ganado. Cada una vive en su propia tabla.
const (
	CategoriaTerneros   = "terneros"
	CategoriaVacasToros = "vacas_toros"
)

func CategoriaValida(categoria string) bool {
	return categoria == CategoriaTerneros || categoria == CategoriaVacasToros
}

// Nacimiento representa la tabla nacimientos
type Nacimiento struct {
	ID      int    `json:"id" db:"id"`
	Fecha   Fecha  `json:"fecha" db:"fecha"`
	Dueno   string `json:"dueno" db:"dueno"`
	Machos  int    `json:"machos" db:"machos"`
	Hembras int    `json:"hembras" db:"hembras"`
	Notas   string `json:"notas" db:"notas"`
}

// Muerte representa la tabla muertes
type Muerte struct {
	ID             int    `json:"id" db:"id"`
	TipoAnimal     string `json:"tipo_animal" db:"tipo_animal"`
	Sexo           string `json:"sexo" db:"sexo"`
	Dueno          string `json:"dueno" db:"dueno"`
	Cantidad       int    `json:"cantidad" db:"cantidad"`
	Causa          string `json:"causa" db:"causa"`
	EsRecienNacido bool   `json:"es_recien_nacido" db:"es_recien_nacido"`
	Fecha          Fecha  `json:"fecha" db:"fecha"`
}

// Venta representa ventas_terneros o ventas_vacas_toros según Categoria
type Venta struct {
	ID             int                 `json:"id" db:"id"`
	Categoria      string              `json:"categoria" db:"-"`
	Tipo           string              `json:"tipo" db:"tipo"`
	FechaVenta     Fecha               `json:"fecha_venta" db:"fecha_venta"`
	Dueno          string              `json:"dueno" db:"dueno"`
	Cantidad       int                 `json:"cantidad" db:"cantidad"`
	KilosPorAnimal decimal.NullDecimal `json:"kilos_por_animal" db:"kilos_por_animal"`
	KilosTotales   decimal.Decimal     `json:"kilos_totales" db:"kilos_totales"`
	PrecioPorKg    decimal.Decimal     `json:"precio_por_kg" db:"precio_por_kg"`
	PrecioTotal    decimal.Decimal     `json:"precio_total" db:"precio_total"`
	FechaCobro     *Fecha              `json:"fecha_cobro" db:"fecha_cobro"`
	Notas          string              `json:"notas" db:"notas"`
}

// Compra representa compras_terneros o compras_vacas_toros según Categoria.
// Las compras de terneros siempre impactan el stock de Terneros.
type Compra struct {
	ID             int                 `json:"id" db:"id"`
	Categoria      string              `json:"categoria" db:"-"`
	Tipo           string              `json:"tipo" db:"tipo"`
	FechaCompra    Fecha               `json:"fecha_compra" db:"fecha_compra"`
	Dueno          string              `json:"dueno" db:"dueno"`
	Proveedor      string              `json:"proveedor,omitempty" db:"proveedor"`
	Cantidad       int                 `json:"cantidad" db:"cantidad"`
	KilosPorAnimal decimal.NullDecimal `json:"kilos_por_animal" db:"kilos_por_animal"`
	KilosTotales   decimal.Decimal     `json:"kilos_totales" db:"kilos_totales"`
	PrecioPorKg    decimal.Decimal     `json:"precio_por_kg" db:"precio_por_kg"`
	PrecioTotal    decimal.Decimal     `json:"precio_total" db:"precio_total"`
	FechaPago      *Fecha              `json:"fecha_pago" db:"fecha_pago"`
	Notas          string              `json:"notas" db:"notas"`
}
