package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// SistemaService agrupa las operaciones que tocan todo el ledger
type SistemaService interface {
	// Bootstrap crea las filas de stock del catálogo, los lotes del mapa y el stock de cereal del año en curso
	Bootstrap(ctx context.Context) error
	// ResetTotal deja stock en 0, vacía eventos, cereales y asignaciones y reinicia el cereal del año en curso
	ResetTotal(ctx context.Context) error
	// InicializarAnio crea el stock de cereal del año si falta
	InicializarAnio(ctx context.Context, anio int) error
}

type sistemaService struct {
	motor      *Motor
	asignacion models.AsignacionCereal
	logger     *zap.Logger
}

func NewSistemaService(motor *Motor, asignacion models.AsignacionCereal, logger *zap.Logger) SistemaService {
	return &sistemaService{motor: motor, asignacion: asignacion, logger: logger}
}

func (s *sistemaService) Bootstrap(ctx context.Context) error {
	anio := s.motor.now().Year()
	err := s.motor.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.EnsureStock(ctx, s.motor.catalogo.Claves()); err != nil {
			return fmt.Errorf("error creando filas de stock: %w", err)
		}
		if err := tx.EnsureLotes(ctx, models.LotesIniciales); err != nil {
			return fmt.Errorf("error creando lotes: %w", err)
		}
		return crearStockAnual(ctx, tx, anio, s.asignacion)
	})
	if err != nil {
		return err
	}

	s.logger.Info("🚀 Ledger inicializado",
		zap.Int("claves_stock", len(s.motor.catalogo.Claves())),
		zap.Int("lotes", len(models.LotesIniciales)),
		zap.Int("anio_cereal", anio))
	return nil
}

func (s *sistemaService) ResetTotal(ctx context.Context) error {
	anio := s.motor.now().Year()
	err := s.motor.ejecutar(ctx, "reset_total", func(tx repository.Store, acc *StockAccessor) error {
		if err := acc.ResetAll(ctx); err != nil {
			return err
		}
		if err := tx.TruncateLedger(ctx); err != nil {
			return err
		}
		return crearStockAnual(ctx, tx, anio, s.asignacion)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("🧨 Reset total del sistema ejecutado", zap.Int("anio_cereal", anio))
	return nil
}

func (s *sistemaService) InicializarAnio(ctx context.Context, anio int) error {
	if err := validarAnio(anio); err != nil {
		return err
	}
	err := s.motor.store.WithTx(ctx, func(tx repository.Store) error {
		return crearStockAnual(ctx, tx, anio, s.asignacion)
	})
	if err != nil {
		return err
	}
	s.logger.Info("🌾 Stock de cereal del año listo", zap.Int("anio", anio))
	return nil
}
