package repository

import (
	"context"
	"errors"

	"github.com/ramivilla/DonJose/internal/models"
)

// ErrNotFound lo devuelven los Delete y Update cuando no afectan ninguna fila
var ErrNotFound = errors.New("registro no encontrado")

// StockRepository acceso a la tabla stock. Solo el StockAccessor del paquete services escribe en ella.
type StockRepository interface {
	ListStock(ctx context.Context, filter models.StockFilter) ([]*models.Stock, error)
	// GetStock devuelve nil, nil si la fila no existe
	GetStock(ctx context.Context, tipo, dueno string) (*models.Stock, error)
	// LockStock bloquea las filas pedidas en orden (tipo, dueño) y devuelve sus cantidades.
	// Las filas ausentes valen 0.
	LockStock(ctx context.Context, keys []models.StockKey) (map[models.StockKey]int, error)
	// SetStock crea o actualiza la fila con la cantidad dada
	SetStock(ctx context.Context, tipo, dueno string, cantidad int) error
	EnsureStock(ctx context.Context, keys []models.StockKey) error
	ResetStock(ctx context.Context) error
}

type NacimientoRepository interface {
	CreateNacimiento(ctx context.Context, n *models.Nacimiento) error
	// GetNacimiento bloquea la fila dentro de una transacción. nil, nil si no existe.
	GetNacimiento(ctx context.Context, id int) (*models.Nacimiento, error)
	DeleteNacimiento(ctx context.Context, id int) error
	ListNacimientos(ctx context.Context) ([]*models.Nacimiento, error)
}

type MuerteRepository interface {
	CreateMuerte(ctx context.Context, m *models.Muerte) error
	GetMuerte(ctx context.Context, id int) (*models.Muerte, error)
	DeleteMuerte(ctx context.Context, id int) error
	ListMuertes(ctx context.Context) ([]*models.Muerte, error)
}

// VentaRepository cubre las dos tablas de ventas. La categoría elige la tabla.
type VentaRepository interface {
	CreateVenta(ctx context.Context, v *models.Venta) error
	GetVenta(ctx context.Context, categoria string, id int) (*models.Venta, error)
	DeleteVenta(ctx context.Context, categoria string, id int) error
	ListVentas(ctx context.Context, categoria string) ([]*models.Venta, error)
}

type CompraRepository interface {
	CreateCompra(ctx context.Context, c *models.Compra) error
	GetCompra(ctx context.Context, categoria string, id int) (*models.Compra, error)
	DeleteCompra(ctx context.Context, categoria string, id int) error
	ListCompras(ctx context.Context, categoria string) ([]*models.Compra, error)
}

type CerealRepository interface {
	// GetStockCereal bloquea la fila dentro de una transacción. nil, nil si no existe.
	GetStockCereal(ctx context.Context, anio int, tipo string) (*models.StockCereal, error)
	ListStockCereal(ctx context.Context, anio int) ([]*models.StockCereal, error)
	// CreateStockCereal no hace nada si la fila (año, tipo) ya existe
	CreateStockCereal(ctx context.Context, s *models.StockCereal) error
	SetKgVendidos(ctx context.Context, anio int, tipo string, kg int) error
	ListAniosCereal(ctx context.Context) ([]int, error)

	CreateVentaCereal(ctx context.Context, v *models.VentaCereal) error
	GetVentaCereal(ctx context.Context, id int) (*models.VentaCereal, error)
	DeleteVentaCereal(ctx context.Context, id int) error
	ListVentasCereal(ctx context.Context, anio int) ([]*models.VentaCereal, error)
	ListAllVentasCereal(ctx context.Context) ([]*models.VentaCereal, error)
}

type LoteRepository interface {
	ListLotes(ctx context.Context) ([]*models.Lote, error)
	GetLote(ctx context.Context, id int) (*models.Lote, error)
	UpdateLoteNotas(ctx context.Context, id int, notas string) error
	EnsureLotes(ctx context.Context, nombres []string) error

	ListAsignaciones(ctx context.Context, loteID int) ([]*models.LoteAsignacion, error)
	ListAllAsignaciones(ctx context.Context) ([]*models.LoteAsignacion, error)
	GetAsignacion(ctx context.Context, id int) (*models.LoteAsignacion, error)
	// MergeAsignacion suma a.Cantidad a la fila (lote, tipo, dueño) o la crea si no existe.
	// Al volver, a.ID y a.Cantidad reflejan la fila resultante.
	MergeAsignacion(ctx context.Context, a *models.LoteAsignacion) error
	DeleteAsignacion(ctx context.Context, id int) error
	DeleteAsignacionesByLote(ctx context.Context, loteID int) error
	SumAsignado(ctx context.Context, tipo, dueno string) (int, error)
}

// Store agrupa todos los repositorios del ledger
type Store interface {
	StockRepository
	NacimientoRepository
	MuerteRepository
	VentaRepository
	CompraRepository
	CerealRepository
	LoteRepository

	// TruncateLedger vacía eventos, cereales y asignaciones y reinicia las secuencias
	TruncateLedger(ctx context.Context) error

	// WithTx ejecuta fn dentro de una transacción. Si fn devuelve error no queda nada aplicado.
	// Llamado sobre un Store que ya está en una transacción, reutiliza la misma.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}
