package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// ComercioService registra ventas y compras de hacienda.
// categoria es models.CategoriaTerneros o models.CategoriaVacasToros.
type ComercioService interface {
	RegistrarVenta(ctx context.Context, categoria string, req *models.VentaRequest) (*models.Venta, error)
	EliminarVenta(ctx context.Context, categoria string, id int) error
	ListarVentas(ctx context.Context, categoria string) ([]*models.Venta, error)

	RegistrarCompra(ctx context.Context, categoria string, req *models.CompraRequest) (*models.Compra, error)
	EliminarCompra(ctx context.Context, categoria string, id int) error
	ListarCompras(ctx context.Context, categoria string) ([]*models.Compra, error)
}

type comercioService struct {
	motor  *Motor
	logger *zap.Logger
}

func NewComercioService(motor *Motor, logger *zap.Logger) ComercioService {
	return &comercioService{motor: motor, logger: logger}
}

func validarCategoria(categoria string) error {
	if !models.CategoriaValida(categoria) {
		return invalido("categoria", fmt.Sprintf("categoría desconocida %q", categoria))
	}
	return nil
}

func kilosPorAnimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func (s *comercioService) RegistrarVenta(ctx context.Context, categoria string, req *models.VentaRequest) (*models.Venta, error) {
	if err := validarCategoria(categoria); err != nil {
		return nil, err
	}
	if req.Cantidad <= 0 {
		return nil, invalido("cantidad", "debe ser mayor a 0")
	}
	fechaVenta, err := parseFecha("fecha_venta", req.FechaVenta)
	if err != nil {
		return nil, err
	}
	fechaCobro, err := parseFechaOpcional("fecha_cobro", req.FechaCobro)
	if err != nil {
		return nil, err
	}

	tipo := req.Tipo
	if tipo == "" {
		if categoria != models.CategoriaTerneros {
			return nil, invalido("tipo", "es obligatorio para ventas de vacas/toros")
		}
		tipo = models.TipoTerneros
	}

	v := &models.Venta{
		Categoria:      categoria,
		Tipo:           tipo,
		FechaVenta:     fechaVenta,
		Dueno:          req.Dueno,
		Cantidad:       req.Cantidad,
		KilosPorAnimal: kilosPorAnimal(req.KilosPorAnimal),
		KilosTotales:   req.KilosTotales,
		PrecioPorKg:    req.PrecioPorKg,
		PrecioTotal:    req.PrecioTotal,
		FechaCobro:     fechaCobro,
		Notas:          req.Notas,
	}

	err = s.motor.ejecutar(ctx, "registrar_venta_"+categoria, func(tx repository.Store, acc *StockAccessor) error {
		return efectoVenta{v: v}.aplicar(ctx, acc, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("💰 Venta registrada",
		zap.String("categoria", categoria),
		zap.Int("id", v.ID),
		zap.String("tipo", v.Tipo),
		zap.String("dueno", v.Dueno),
		zap.Int("cantidad", v.Cantidad))
	return v, nil
}

// EliminarVenta devuelve los animales al stock del tipo registrado en la venta
func (s *comercioService) EliminarVenta(ctx context.Context, categoria string, id int) error {
	if err := validarCategoria(categoria); err != nil {
		return err
	}
	return s.motor.ejecutar(ctx, "eliminar_venta_"+categoria, func(tx repository.Store, acc *StockAccessor) error {
		v, err := tx.GetVenta(ctx, categoria, id)
		if err != nil {
			return fmt.Errorf("error obteniendo venta: %w", err)
		}
		if v == nil {
			return noEncontrado("venta", id)
		}
		return efectoVenta{v: v}.revertir(ctx, acc, tx)
	})
}

func (s *comercioService) ListarVentas(ctx context.Context, categoria string) ([]*models.Venta, error) {
	if err := validarCategoria(categoria); err != nil {
		return nil, err
	}
	return s.motor.store.ListVentas(ctx, categoria)
}

func (s *comercioService) RegistrarCompra(ctx context.Context, categoria string, req *models.CompraRequest) (*models.Compra, error) {
	if err := validarCategoria(categoria); err != nil {
		return nil, err
	}
	if req.Cantidad <= 0 {
		return nil, invalido("cantidad", "debe ser mayor a 0")
	}
	fechaCompra, err := parseFecha("fecha_compra", req.FechaCompra)
	if err != nil {
		return nil, err
	}
	fechaPago, err := parseFechaOpcional("fecha_pago", req.FechaPago)
	if err != nil {
		return nil, err
	}

	// las compras de terneros siempre son Terneros
	tipo := req.Tipo
	if categoria == models.CategoriaTerneros {
		tipo = models.TipoTerneros
	} else if tipo == "" {
		return nil, invalido("tipo", "es obligatorio para compras de vacas/toros")
	}

	c := &models.Compra{
		Categoria:      categoria,
		Tipo:           tipo,
		FechaCompra:    fechaCompra,
		Dueno:          req.Dueno,
		Proveedor:      req.Proveedor,
		Cantidad:       req.Cantidad,
		KilosPorAnimal: kilosPorAnimal(req.KilosPorAnimal),
		KilosTotales:   req.KilosTotales,
		PrecioPorKg:    req.PrecioPorKg,
		PrecioTotal:    req.PrecioTotal,
		FechaPago:      fechaPago,
		Notas:          req.Notas,
	}

	err = s.motor.ejecutar(ctx, "registrar_compra_"+categoria, func(tx repository.Store, acc *StockAccessor) error {
		return efectoCompra{c: c}.aplicar(ctx, acc, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("🛒 Compra registrada",
		zap.String("categoria", categoria),
		zap.Int("id", c.ID),
		zap.String("tipo", c.Tipo),
		zap.String("dueno", c.Dueno),
		zap.Int("cantidad", c.Cantidad))
	return c, nil
}

// EliminarCompra se rechaza si los animales comprados ya salieron del stock
func (s *comercioService) EliminarCompra(ctx context.Context, categoria string, id int) error {
	if err := validarCategoria(categoria); err != nil {
		return err
	}
	return s.motor.ejecutar(ctx, "eliminar_compra_"+categoria, func(tx repository.Store, acc *StockAccessor) error {
		c, err := tx.GetCompra(ctx, categoria, id)
		if err != nil {
			return fmt.Errorf("error obteniendo compra: %w", err)
		}
		if c == nil {
			return noEncontrado("compra", id)
		}
		return efectoCompra{c: c}.revertir(ctx, acc, tx)
	})
}

func (s *comercioService) ListarCompras(ctx context.Context, categoria string) ([]*models.Compra, error) {
	if err := validarCategoria(categoria); err != nil {
		return nil, err
	}
	return s.motor.store.ListCompras(ctx, categoria)
}
