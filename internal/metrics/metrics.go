package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donjose_http_requests_total",
			Help: "Total de requests HTTP por método, ruta y status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donjose_http_request_duration_seconds",
			Help:    "Duración de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// OperacionesTotal cuenta las operaciones del ledger confirmadas, por tipo de operación
	OperacionesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donjose_operaciones_total",
			Help: "Operaciones del ledger confirmadas",
		},
		[]string{"operacion"},
	)

	// RechazosTotal cuenta los rechazos de reglas de negocio (stock insuficiente, fecha inválida, etc.)
	RechazosTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donjose_rechazos_total",
			Help: "Operaciones rechazadas por reglas de negocio",
		},
		[]string{"operacion", "motivo"},
	)

	StockActual = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "donjose_stock_cabezas",
			Help: "Stock actual por tipo y dueño",
		},
		[]string{"tipo", "dueno"},
	)
)
