package models

import "github.com/shopspring/decimal"

// Dashboard es la vista principal de la app
type Dashboard struct {
	TotalAnimales int           `json:"totalAnimales"`
	StockPorDueno []TotalDueno  `json:"stockPorDueno"`
	FuturosCobros []CobroFuturo `json:"futurosCobros"`
	FuturosPagos  []PagoFuturo  `json:"futurosPagos"`
}

type TotalDueno struct {
	Dueno string `json:"dueno"`
	Total int    `json:"total"`
}

// CobroFuturo es una venta con fecha de cobro de hoy en adelante
type CobroFuturo struct {
	Tipo        string          `json:"tipo"`
	FechaCobro  Fecha           `json:"fecha_cobro"`
	Dueno       string          `json:"dueno"`
	PrecioTotal decimal.Decimal `json:"precio_total"`
	Notas       string          `json:"notas"`
}

// PagoFuturo es una compra con fecha de pago de hoy en adelante
type PagoFuturo struct {
	Tipo        string          `json:"tipo"`
	FechaPago   Fecha           `json:"fecha_pago"`
	Dueno       string          `json:"dueno"`
	PrecioTotal decimal.Decimal `json:"precio_total"`
	Notas       string          `json:"notas"`
}

type EstadisticaNacimientos struct {
	Anio               int    `json:"anio"`
	Machos             int    `json:"machos"`
	Hembras            int    `json:"hembras"`
	Total              int    `json:"total"`
	VacasTotales       int    `json:"vacas_totales"`
	PorcentajeParicion string `json:"porcentaje_paricion"`
}

type EstadisticaMuertes struct {
	Anio                     int    `json:"anio"`
	TotalMuertes             int    `json:"total_muertes"`
	TernerosRecienNacidos    int    `json:"terneros_recien_nacidos"`
	TotalNacimientos         int    `json:"total_nacimientos"`
	PorcentajeMuerteTerneros string `json:"porcentaje_muerte_terneros"`
}
