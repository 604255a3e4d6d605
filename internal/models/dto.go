package models

import "github.com/shopspring/decimal"

// ===== REQUEST DTOs =====

// StockRequest sirve tanto para sumar un delta como para fijar un valor absoluto
type StockRequest struct {
	Tipo     string `json:"tipo" validate:"required"`
	Dueno    string `json:"dueno" validate:"required"`
	Cantidad *int   `json:"cantidad" validate:"required"`
}

type NacimientoRequest struct {
	Fecha   string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Dueno   string `json:"dueno" validate:"required"`
	Machos  int    `json:"machos" validate:"gte=0"`
	Hembras int    `json:"hembras" validate:"gte=0"`
	Notas   string `json:"notas"`
}

type MuerteRequest struct {
	TipoAnimal     string `json:"tipo_animal" validate:"required"`
	Dueno          string `json:"dueno" validate:"required"`
	Cantidad       int    `json:"cantidad" validate:"required,gt=0"`
	Causa          string `json:"causa"`
	EsRecienNacido bool   `json:"es_recien_nacido"`
	Fecha          string `json:"fecha" validate:"required,datetime=2006-01-02"`
}

// VentaRequest DTO para ventas de terneros y de vacas/toros.
// Tipo vacío en una venta de terneros significa Terneros.
type VentaRequest struct {
	Tipo           string           `json:"tipo"`
	FechaVenta     string           `json:"fecha_venta" validate:"required,datetime=2006-01-02"`
	Dueno          string           `json:"dueno" validate:"required"`
	Cantidad       int              `json:"cantidad" validate:"required,gt=0"`
	KilosPorAnimal *decimal.Decimal `json:"kilos_por_animal"`
	KilosTotales   decimal.Decimal  `json:"kilos_totales" validate:"gte=0"`
	PrecioPorKg    decimal.Decimal  `json:"precio_por_kg" validate:"gte=0"`
	PrecioTotal    decimal.Decimal  `json:"precio_total" validate:"gte=0"`
	FechaCobro     string           `json:"fecha_cobro" validate:"omitempty,datetime=2006-01-02"`
	Notas          string           `json:"notas"`
}

type CompraRequest struct {
	Tipo           string           `json:"tipo"`
	FechaCompra    string           `json:"fecha_compra" validate:"required,datetime=2006-01-02"`
	Dueno          string           `json:"dueno" validate:"required"`
	Proveedor      string           `json:"proveedor"`
	Cantidad       int              `json:"cantidad" validate:"required,gt=0"`
	KilosPorAnimal *decimal.Decimal `json:"kilos_por_animal"`
	KilosTotales   decimal.Decimal  `json:"kilos_totales" validate:"gte=0"`
	PrecioPorKg    decimal.Decimal  `json:"precio_por_kg" validate:"gte=0"`
	PrecioTotal    decimal.Decimal  `json:"precio_total" validate:"gte=0"`
	FechaPago      string           `json:"fecha_pago" validate:"omitempty,datetime=2006-01-02"`
	Notas          string           `json:"notas"`
}

// VentaCerealRequest: color, kilos y precio se validan en el servicio
type VentaCerealRequest struct {
	Fecha        string          `json:"fecha" validate:"required,datetime=2006-01-02"`
	Tipo         string          `json:"tipo" validate:"required"`
	KgVendidos   int             `json:"kg_vendidos"`
	PrecioPorKg  decimal.Decimal `json:"precio_por_kg"`
	TotalVendido decimal.Decimal `json:"total_vendido"`
	Retencion    decimal.Decimal `json:"retencion"`
	ValorFinal   decimal.Decimal `json:"valor_final"`
	FechaCobro   string          `json:"fecha_cobro" validate:"omitempty,datetime=2006-01-02"`
	Notas        string          `json:"notas"`
}

type AsignacionRequest struct {
	LoteID     int    `json:"lote_id" validate:"required,gt=0"`
	TipoAnimal string `json:"tipo_animal" validate:"required"`
	Dueno      string `json:"dueno" validate:"required"`
	Cantidad   int    `json:"cantidad" validate:"required,gt=0"`
}

type MoverLoteRequest struct {
	LoteOrigenID  int `json:"lote_origen_id" validate:"required,gt=0"`
	LoteDestinoID int `json:"lote_destino_id" validate:"required,gt=0"`
}

type LoteNotasRequest struct {
	Notas string `json:"notas"`
}
