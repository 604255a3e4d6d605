package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// EventoService registra nacimientos y muertes
type EventoService interface {
	RegistrarNacimiento(ctx context.Context, req *models.NacimientoRequest) (*models.Nacimiento, error)
	EliminarNacimiento(ctx context.Context, id int) error
	ListarNacimientos(ctx context.Context) ([]*models.Nacimiento, error)

	RegistrarMuerte(ctx context.Context, req *models.MuerteRequest) (*models.Muerte, error)
	EliminarMuerte(ctx context.Context, id int) error
	ListarMuertes(ctx context.Context) ([]*models.Muerte, error)
}

type eventoService struct {
	motor  *Motor
	logger *zap.Logger
}

func NewEventoService(motor *Motor, logger *zap.Logger) EventoService {
	return &eventoService{motor: motor, logger: logger}
}

func (s *eventoService) RegistrarNacimiento(ctx context.Context, req *models.NacimientoRequest) (*models.Nacimiento, error) {
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	if req.Machos < 0 || req.Hembras < 0 {
		return nil, invalido("machos/hembras", "no pueden ser negativos")
	}
	if err := s.motor.validarFechaFutura(fecha); err != nil {
		return nil, err
	}

	n := &models.Nacimiento{
		Fecha:   fecha,
		Dueno:   req.Dueno,
		Machos:  req.Machos,
		Hembras: req.Hembras,
		Notas:   req.Notas,
	}

	err = s.motor.ejecutar(ctx, "registrar_nacimiento", func(tx repository.Store, acc *StockAccessor) error {
		return efectoNacimiento{n: n}.aplicar(ctx, acc, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("🐄 Nacimiento registrado",
		zap.Int("id", n.ID),
		zap.String("dueno", n.Dueno),
		zap.Int("machos", n.Machos),
		zap.Int("hembras", n.Hembras))
	return n, nil
}

// EliminarNacimiento se rechaza si los terneros ya no están en stock
func (s *eventoService) EliminarNacimiento(ctx context.Context, id int) error {
	return s.motor.ejecutar(ctx, "eliminar_nacimiento", func(tx repository.Store, acc *StockAccessor) error {
		n, err := tx.GetNacimiento(ctx, id)
		if err != nil {
			return fmt.Errorf("error obteniendo nacimiento: %w", err)
		}
		if n == nil {
			return noEncontrado("nacimiento", id)
		}
		return efectoNacimiento{n: n}.revertir(ctx, acc, tx)
	})
}

func (s *eventoService) ListarNacimientos(ctx context.Context) ([]*models.Nacimiento, error) {
	return s.motor.store.ListNacimientos(ctx)
}

func (s *eventoService) RegistrarMuerte(ctx context.Context, req *models.MuerteRequest) (*models.Muerte, error) {
	fecha, err := parseFecha("fecha", req.Fecha)
	if err != nil {
		return nil, err
	}
	if req.Cantidad <= 0 {
		return nil, invalido("cantidad", "debe ser mayor a 0")
	}
	if err := s.motor.validarFechaFutura(fecha); err != nil {
		return nil, err
	}

	m := &models.Muerte{
		TipoAnimal:     req.TipoAnimal,
		Sexo:           sexoDe(req.TipoAnimal),
		Dueno:          req.Dueno,
		Cantidad:       req.Cantidad,
		Causa:          req.Causa,
		EsRecienNacido: req.EsRecienNacido,
		Fecha:          fecha,
	}

	err = s.motor.ejecutar(ctx, "registrar_muerte", func(tx repository.Store, acc *StockAccessor) error {
		return efectoMuerte{m: m}.aplicar(ctx, acc, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("🪦 Muerte registrada",
		zap.Int("id", m.ID),
		zap.String("tipo", m.TipoAnimal),
		zap.String("dueno", m.Dueno),
		zap.Int("cantidad", m.Cantidad))
	return m, nil
}

func (s *eventoService) EliminarMuerte(ctx context.Context, id int) error {
	return s.motor.ejecutar(ctx, "eliminar_muerte", func(tx repository.Store, acc *StockAccessor) error {
		m, err := tx.GetMuerte(ctx, id)
		if err != nil {
			return fmt.Errorf("error obteniendo muerte: %w", err)
		}
		if m == nil {
			return noEncontrado("muerte", id)
		}
		return efectoMuerte{m: m}.revertir(ctx, acc, tx)
	})
}

func (s *eventoService) ListarMuertes(ctx context.Context) ([]*models.Muerte, error) {
	return s.motor.store.ListMuertes(ctx)
}

// sexoDe deriva el sexo informativo de la muerte a partir del tipo
func sexoDe(tipo string) string {
	switch tipo {
	case models.TipoTerneros, "Toro", "Novillo":
		return "Macho"
	case models.TipoTerneras, models.TipoVacas, "Vacas viejas", "Vaquillonas":
		return "Hembra"
	default:
		return ""
	}
}
