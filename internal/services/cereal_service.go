package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// CerealService maneja el stock anual de cereal por color y sus ventas
type CerealService interface {
	// StockAnual devuelve las filas del año, creándolas con la asignación configurada si faltan
	StockAnual(ctx context.Context, anio int) ([]models.StockCerealView, error)
	RegistrarVenta(ctx context.Context, req *models.VentaCerealRequest) (*models.VentaCereal, error)
	EliminarVenta(ctx context.Context, id int) error
	ListarVentas(ctx context.Context, anio int) ([]*models.VentaCereal, error)
	ListarAnios(ctx context.Context) ([]int, error)
}

type cerealService struct {
	motor      *Motor
	asignacion models.AsignacionCereal
	logger     *zap.Logger
}

func NewCerealService(motor *Motor, asignacion models.AsignacionCereal, logger *zap.Logger) CerealService {
	return &cerealService{motor: motor, asignacion: asignacion, logger: logger}
}

func validarAnio(anio int) error {
	if anio < 1900 || anio > 9999 {
		return invalido("anio", fmt.Sprintf("año fuera de rango: %d", anio))
	}
	return nil
}

// crearStockAnual inserta los colores que falten para el año. No pisa filas existentes.
func crearStockAnual(ctx context.Context, tx repository.Store, anio int, asignacion models.AsignacionCereal) error {
	for _, color := range models.ColoresCereal {
		sc := &models.StockCereal{Anio: anio, Tipo: color, KgDisponibles: asignacion[color]}
		if err := tx.CreateStockCereal(ctx, sc); err != nil {
			return fmt.Errorf("error creando stock de cereal: %w", err)
		}
	}
	return nil
}

func (s *cerealService) StockAnual(ctx context.Context, anio int) ([]models.StockCerealView, error) {
	if err := validarAnio(anio); err != nil {
		return nil, err
	}

	var filas []*models.StockCereal
	err := s.motor.store.WithTx(ctx, func(tx repository.Store) error {
		existentes, err := tx.ListStockCereal(ctx, anio)
		if err != nil {
			return fmt.Errorf("error obteniendo stock de cereal: %w", err)
		}
		if len(existentes) < len(models.ColoresCereal) {
			s.logger.Info("🌾 Inicializando stock de cereal", zap.Int("anio", anio))
			if err := crearStockAnual(ctx, tx, anio, s.asignacion); err != nil {
				return err
			}
			if existentes, err = tx.ListStockCereal(ctx, anio); err != nil {
				return fmt.Errorf("error obteniendo stock de cereal: %w", err)
			}
		}
		filas = existentes
		return nil
	})
	if err != nil {
		return nil, err
	}

	views := make([]models.StockCerealView, 0, len(filas))
	for _, sc := range filas {
		views = append(views, models.NuevaStockCerealView(*sc))
	}
	return views, nil
}

func (s *cerealService) RegistrarVenta(ctx context.Context, req *models.VentaCerealRequest) (*models.VentaCereal, error) {
	if !models.ColorCerealValido(req.Tipo) {
		return nil, invalido("tipo", fmt.Sprintf("color de cereal desconocido %q", req.Tipo))
	}
	if req.KgVendidos <= 0 {
		return nil, invalido("kg_vendidos", "debe ser mayor a 0")
	}
	if !req.PrecioPorKg.IsPositive() {
		return nil, invalido("precio_por_kg", "debe ser mayor a 0")
	}
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	fechaCobro, err := parseFechaOpcional("fecha_cobro", req.FechaCobro)
	if err != nil {
		return nil, err
	}

	// los importes se guardan tal cual llegan
	v := &models.VentaCereal{
		Fecha:        fecha,
		Anio:         fecha.Year(),
		Tipo:         req.Tipo,
		KgVendidos:   req.KgVendidos,
		PrecioPorKg:  req.PrecioPorKg,
		TotalVendido: req.TotalVendido,
		Retencion:    req.Retencion,
		ValorFinal:   req.ValorFinal,
		FechaCobro:   fechaCobro,
		Notas:        req.Notas,
	}

	err = s.motor.ejecutar(ctx, "registrar_venta_cereal", func(tx repository.Store, acc *StockAccessor) error {
		return efectoVentaCereal{v: v}.aplicar(ctx, acc, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("🌾 Venta de cereal registrada",
		zap.Int("id", v.ID),
		zap.Int("anio", v.Anio),
		zap.String("tipo", v.Tipo),
		zap.Int("kg", v.KgVendidos))
	return v, nil
}

func (s *cerealService) EliminarVenta(ctx context.Context, id int) error {
	return s.motor.ejecutar(ctx, "eliminar_venta_cereal", func(tx repository.Store, acc *StockAccessor) error {
		v, err := tx.GetVentaCereal(ctx, id)
		if err != nil {
			return fmt.Errorf("error obteniendo venta de cereal: %w", err)
		}
		if v == nil {
			return noEncontrado("venta de cereal", id)
		}
		return efectoVentaCereal{v: v}.revertir(ctx, acc, tx)
	})
}

func (s *cerealService) ListarVentas(ctx context.Context, anio int) ([]*models.VentaCereal, error) {
	if err := validarAnio(anio); err != nil {
		return nil, err
	}
	return s.motor.store.ListVentasCereal(ctx, anio)
}

func (s *cerealService) ListarAnios(ctx context.Context) ([]int, error) {
	return s.motor.store.ListAniosCereal(ctx)
}
