package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/cache"
	"github.com/ramivilla/DonJose/internal/metrics"
	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
)

// StockService define las operaciones directas sobre el stock de hacienda
type StockService interface {
	// Consultas
	Listar(ctx context.Context, filter models.StockFilter) ([]*models.Stock, error)
	Resumen(ctx context.Context) (*models.StockResumen, error)

	// Agregar suma un delta (positivo o negativo) y devuelve la fila resultante
	Agregar(ctx context.Context, req *models.StockRequest) (*models.Stock, error)
	// Ajustar fija el valor absoluto, sin control de límite inferior
	Ajustar(ctx context.Context, req *models.StockRequest) (*models.Stock, error)
}

type stockService struct {
	motor  *Motor
	cache  *cache.ReportCache
	logger *zap.Logger
}

func NewStockService(motor *Motor, reportCache *cache.ReportCache, logger *zap.Logger) StockService {
	return &stockService{
		motor:  motor,
		cache:  reportCache,
		logger: logger,
	}
}

func (s *stockService) Listar(ctx context.Context, filter models.StockFilter) ([]*models.Stock, error) {
	stocks, err := s.motor.store.ListStock(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo stock: %w", err)
	}
	for _, st := range stocks {
		metrics.StockActual.WithLabelValues(st.Tipo, st.Dueno).Set(float64(st.Cantidad))
	}
	return stocks, nil
}

func (s *stockService) Resumen(ctx context.Context) (*models.StockResumen, error) {
	const cacheKey = "stock:resumen"

	var resumen models.StockResumen
	if s.cache != nil && s.cache.Get(ctx, cacheKey, &resumen) {
		return &resumen, nil
	}

	stocks, err := s.Listar(ctx, models.StockFilter{})
	if err != nil {
		return nil, err
	}
	resumen = models.NuevoStockResumen(stocks)

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, resumen)
	}
	return &resumen, nil
}

func (s *stockService) Agregar(ctx context.Context, req *models.StockRequest) (*models.Stock, error) {
	if req.Cantidad == nil {
		return nil, invalido("cantidad", "es obligatoria")
	}
	logger := s.logger.With(
		zap.String("operation", "agregar_stock"),
		zap.String("tipo", req.Tipo),
		zap.String("dueno", req.Dueno),
		zap.Int("delta", *req.Cantidad),
	)

	var nueva int
	err := s.motor.ejecutar(ctx, "agregar_stock", func(tx repository.Store, acc *StockAccessor) error {
		var err error
		nueva, err = acc.Adjust(ctx, req.Tipo, req.Dueno, *req.Cantidad)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("✅ Stock actualizado", zap.Int("cantidad_nueva", nueva))
	return s.fila(ctx, req.Tipo, req.Dueno)
}

func (s *stockService) Ajustar(ctx context.Context, req *models.StockRequest) (*models.Stock, error) {
	if req.Cantidad == nil {
		return nil, invalido("cantidad", "es obligatoria")
	}

	err := s.motor.ejecutar(ctx, "ajustar_stock", func(tx repository.Store, acc *StockAccessor) error {
		return acc.SetAbsolute(ctx, req.Tipo, req.Dueno, *req.Cantidad)
	})
	if err != nil {
		return nil, err
	}

	if *req.Cantidad < 0 {
		s.logger.Warn("⚠️ Stock ajustado a un valor negativo",
			zap.String("tipo", req.Tipo),
			zap.String("dueno", req.Dueno),
			zap.Int("cantidad", *req.Cantidad))
	} else {
		s.logger.Info("✅ Stock ajustado",
			zap.String("tipo", req.Tipo),
			zap.String("dueno", req.Dueno),
			zap.Int("cantidad", *req.Cantidad))
	}
	return s.fila(ctx, req.Tipo, req.Dueno)
}

func (s *stockService) fila(ctx context.Context, tipo, dueno string) (*models.Stock, error) {
	stock, err := s.motor.store.GetStock(ctx, tipo, dueno)
	if err != nil {
		return nil, fmt.Errorf("error obteniendo stock: %w", err)
	}
	if stock == nil {
		return &models.Stock{Tipo: tipo, Dueno: dueno}, nil
	}
	return stock, nil
}
