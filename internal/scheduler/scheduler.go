package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InicializadorAnio crea el stock de cereal de un año. Lo implementa services.SistemaService.
type InicializadorAnio interface {
	InicializarAnio(ctx context.Context, anio int) error
}

// Scheduler corre las tareas periódicas del ledger
type Scheduler struct {
	cron    *cron.Cron
	sistema InicializadorAnio
	spec    string
	now     func() time.Time
	logger  *zap.Logger
}

// NewScheduler crea el scheduler. spec es una expresión cron de 5 campos (min, hora, día, mes, día de semana).
func NewScheduler(spec string, sistema InicializadorAnio, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		sistema: sistema,
		spec:    spec,
		now:     time.Now,
		logger:  logger,
	}
}

// Start registra la inicialización anual del cereal y arranca el cron
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.inicializarAnio); err != nil {
		return fmt.Errorf("expresión cron inválida %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("⏰ Scheduler iniciado", zap.String("cereal_cron", s.spec))
	return nil
}

// Stop espera a que termine la tarea en curso o a que venza ctx
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("⏰ Deteniendo scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("⚠️ Scheduler detenido con una tarea en curso")
	}
}

func (s *Scheduler) inicializarAnio() {
	anio := s.now().Year()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.sistema.InicializarAnio(ctx, anio); err != nil {
		s.logger.Error("❌ Error inicializando stock de cereal del año", zap.Int("anio", anio), zap.Error(err))
		return
	}
	s.logger.Info("🌾 Stock de cereal del año inicializado por cron", zap.Int("anio", anio))
}
