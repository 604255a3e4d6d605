package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// LoteService administra la ubicación de la hacienda en los lotes del campo
type LoteService interface {
	ListarLotes(ctx context.Context) ([]*models.Lote, error)
	ActualizarNotas(ctx context.Context, id int, notas string) error

	ListarAsignaciones(ctx context.Context, loteID int) ([]*models.LoteAsignacion, error)
	ListarTodasAsignaciones(ctx context.Context) ([]*models.LoteAsignacion, error)
	// Asignar suma a la fila (lote, tipo, dueño) si existe. Rechaza asignar más animales de los que hay en stock.
	Asignar(ctx context.Context, req *models.AsignacionRequest) (*models.LoteAsignacion, error)
	Desasignar(ctx context.Context, id int) error
	// MoverTodo pasa todas las asignaciones del lote origen al destino y devuelve cuántas filas movió
	MoverTodo(ctx context.Context, origenID, destinoID int) (int, error)
}

type loteService struct {
	motor  *Motor
	logger *zap.Logger
}

func NewLoteService(motor *Motor, logger *zap.Logger) LoteService {
	return &loteService{motor: motor, logger: logger}
}

func (s *loteService) ListarLotes(ctx context.Context) ([]*models.Lote, error) {
	return s.motor.store.ListLotes(ctx)
}

func (s *loteService) ActualizarNotas(ctx context.Context, id int, notas string) error {
	err := s.motor.store.UpdateLoteNotas(ctx, id, notas)
	if errors.Is(err, repository.ErrNotFound) {
		return noEncontrado("lote", id)
	}
	if err != nil {
		return fmt.Errorf("error actualizando notas del lote: %w", err)
	}
	return nil
}

func (s *loteService) ListarAsignaciones(ctx context.Context, loteID int) ([]*models.LoteAsignacion, error) {
	return s.motor.store.ListAsignaciones(ctx, loteID)
}

func (s *loteService) ListarTodasAsignaciones(ctx context.Context) ([]*models.LoteAsignacion, error) {
	return s.motor.store.ListAllAsignaciones(ctx)
}

func existeLote(ctx context.Context, tx repository.Store, id int) error {
	lote, err := tx.GetLote(ctx, id)
	if err != nil {
		return fmt.Errorf("error obteniendo lote: %w", err)
	}
	if lote == nil {
		return noEncontrado("lote", id)
	}
	return nil
}

func (s *loteService) Asignar(ctx context.Context, req *models.AsignacionRequest) (*models.LoteAsignacion, error) {
	if req.Cantidad <= 0 {
		return nil, invalido("cantidad", "debe ser mayor a 0")
	}

	a := &models.LoteAsignacion{
		LoteID:          req.LoteID,
		TipoAnimal:      req.TipoAnimal,
		Dueno:           req.Dueno,
		Cantidad:        req.Cantidad,
		FechaAsignacion: s.motor.hoy(),
	}

	err := s.motor.ejecutar(ctx, "asignar_lote", func(tx repository.Store, acc *StockAccessor) error {
		if err := acc.validarClave(a.TipoAnimal, a.Dueno); err != nil {
			return err
		}
		if err := existeLote(ctx, tx, a.LoteID); err != nil {
			return err
		}

		// el bloqueo de la fila de stock serializa las asignaciones concurrentes de la misma clave
		key := a.Clave()
		stock, err := tx.LockStock(ctx, []models.StockKey{key})
		if err != nil {
			return fmt.Errorf("error bloqueando stock: %w", err)
		}
		asignado, err := tx.SumAsignado(ctx, a.TipoAnimal, a.Dueno)
		if err != nil {
			return fmt.Errorf("error sumando asignaciones: %w", err)
		}
		if asignado+a.Cantidad > stock[key] {
			libres := stock[key] - asignado
			if libres < 0 {
				libres = 0
			}
			return &InsufficientStockError{
				Tipo:       a.TipoAnimal,
				Dueno:      a.Dueno,
				Disponible: libres,
				Solicitado: a.Cantidad,
			}
		}

		return tx.MergeAsignacion(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("📍 Animales asignados a lote",
		zap.Int("lote_id", a.LoteID),
		zap.String("tipo", a.TipoAnimal),
		zap.String("dueno", a.Dueno),
		zap.Int("cantidad_total", a.Cantidad))
	return a, nil
}

func (s *loteService) Desasignar(ctx context.Context, id int) error {
	return s.motor.ejecutar(ctx, "desasignar_lote", func(tx repository.Store, _ *StockAccessor) error {
		a, err := tx.GetAsignacion(ctx, id)
		if err != nil {
			return fmt.Errorf("error obteniendo asignación: %w", err)
		}
		if a == nil {
			return noEncontrado("asignación", id)
		}
		return tx.DeleteAsignacion(ctx, id)
	})
}

func (s *loteService) MoverTodo(ctx context.Context, origenID, destinoID int) (int, error) {
	if origenID == destinoID {
		return 0, invalido("lote_destino_id", "el lote destino debe ser distinto del origen")
	}

	movidas := 0
	err := s.motor.ejecutar(ctx, "mover_lote", func(tx repository.Store, _ *StockAccessor) error {
		if err := existeLote(ctx, tx, origenID); err != nil {
			return err
		}
		if err := existeLote(ctx, tx, destinoID); err != nil {
			return err
		}

		asignaciones, err := tx.ListAsignaciones(ctx, origenID)
		if err != nil {
			return fmt.Errorf("error obteniendo asignaciones: %w", err)
		}
		hoy := s.motor.hoy()
		for _, a := range asignaciones {
			destino := &models.LoteAsignacion{
				LoteID:          destinoID,
				TipoAnimal:      a.TipoAnimal,
				Dueno:           a.Dueno,
				Cantidad:        a.Cantidad,
				FechaAsignacion: hoy,
			}
			if err := tx.MergeAsignacion(ctx, destino); err != nil {
				return err
			}
		}
		if err := tx.DeleteAsignacionesByLote(ctx, origenID); err != nil {
			return err
		}
		movidas = len(asignaciones)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("🚚 Hacienda movida entre lotes",
		zap.Int("origen", origenID),
		zap.Int("destino", destinoID),
		zap.Int("filas", movidas))
	return movidas, nil
}
