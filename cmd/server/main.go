package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/cache"
	"github.com/ramivilla/DonJose/internal/config"
	"github.com/ramivilla/DonJose/internal/database"
	"github.com/ramivilla/DonJose/internal/handlers"
	"github.com/ramivilla/DonJose/internal/middleware"
	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/repository"
	"github.com/ramivilla/DonJose/internal/routes"
	"github.com/ramivilla/DonJose/internal/scheduler"
	"github.com/ramivilla/DonJose/internal/services"
	"github.com/ramivilla/DonJose/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	// ===== STORE =====
	var (
		store   repository.Store
		dbStats services.DatabaseStatsFunc
	)
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := database.NewPostgresDB(ctx, cfg.Database, baseLogger.Named("db.postgres"))
		if err != nil {
			baseLogger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer func() {
			if err := pg.Close(); err != nil {
				baseLogger.Error("failed to close postgres", zap.Error(err))
			}
		}()

		if err := database.NewMigrator(pg.DB, baseLogger.Named("db.migrator")).RunMigrations(ctx); err != nil {
			baseLogger.Fatal("failed to run migrations", zap.Error(err))
		}

		pgStore, err := repository.NewPostgresStore(pg.DB)
		if err != nil {
			baseLogger.Fatal("failed to prepare statements", zap.Error(err))
		}
		defer pgStore.Close()

		store = pgStore
		dbStats = pg.Metrics
	default:
		baseLogger.Warn("⚠️ Usando store en memoria: los datos se pierden al reiniciar")
		store = repository.NewMemoryStore()
		dbStats = func(context.Context) models.DatabaseMetrics {
			return models.DatabaseMetrics{Driver: config.StoreDriverMemory, Status: "connected"}
		}
	}

	// ===== REDIS (opcional) =====
	var (
		redisDB     *database.RedisDB
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisDB, err = database.NewRedisDB(ctx, cfg.Redis, baseLogger.Named("db.redis"))
		if err != nil {
			baseLogger.Warn("⚠️ Redis no disponible, cache solo en memoria", zap.Error(err))
			redisDB = nil
		} else {
			redisClient = redisDB.Client
			defer func() { _ = redisDB.Close() }()
		}
	}

	// ===== SERVICES =====
	reportCache := cache.NewReportCache(redisClient, cfg.Cache.MaxL1Size, cfg.Cache.TTL, baseLogger.Named("cache"))
	catalogo := models.Catalogo{Duenos: cfg.Catalogo.Duenos, TiposAnimal: cfg.Catalogo.TiposAnimal}
	asignacion := models.AsignacionCereal{
		models.CerealBlanco: cfg.Cereales.KgBlanco,
		models.CerealNegro:  cfg.Cereales.KgNegro,
	}

	motor := services.NewMotor(store, catalogo, reportCache, baseLogger.Named("svc.motor"))
	stockSvc := services.NewStockService(motor, reportCache, baseLogger.Named("svc.stock"))
	eventoSvc := services.NewEventoService(motor, baseLogger.Named("svc.eventos"))
	comercioSvc := services.NewComercioService(motor, baseLogger.Named("svc.comercio"))
	cerealSvc := services.NewCerealService(motor, asignacion, baseLogger.Named("svc.cereales"))
	loteSvc := services.NewLoteService(motor, baseLogger.Named("svc.lotes"))
	reporteSvc := services.NewReporteService(motor, reportCache, cfg.Cereales.DuenoCobro, baseLogger.Named("svc.reportes"))
	sistemaSvc := services.NewSistemaService(motor, asignacion, baseLogger.Named("svc.sistema"))

	var redisStats services.RedisStatsFunc
	if redisDB != nil {
		redisStats = redisDB.Metrics
	}
	monitoringSvc := services.NewMonitoringService(baseLogger.Named("svc.monitoring"), cfg, reportCache, dbStats, redisStats)

	bootCtx, cancelBoot := context.WithTimeout(ctx, 30*time.Second)
	if err := sistemaSvc.Bootstrap(bootCtx); err != nil {
		baseLogger.Fatal("failed to bootstrap ledger", zap.Error(err))
	}
	cancelBoot()

	// ===== SCHEDULER =====
	sched := scheduler.NewScheduler(cfg.Cereales.CronSpec, sistemaSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	// ===== HTTP =====
	handlerLogger := baseLogger.Named("handlers")
	monitoringHandler := handlers.NewMonitoringHandler(monitoringSvc, middleware.OrigenPermitido(cfg.Server.CorsOrigins), handlerLogger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(baseLogger.Named("http")))
	router.Use(middleware.MetricsMiddleware())
	router.Use(monitoringHandler.RecordRequestMiddleware())

	routes.SetupRoutes(router, routes.Handlers{
		Stock:      handlers.NewStockHandler(stockSvc, handlerLogger),
		Eventos:    handlers.NewEventoHandler(eventoSvc, reporteSvc, handlerLogger),
		Comercio:   handlers.NewComercioHandler(comercioSvc, handlerLogger),
		Cereales:   handlers.NewCerealHandler(cerealSvc, handlerLogger),
		Lotes:      handlers.NewLoteHandler(loteSvc, handlerLogger),
		Sistema:    handlers.NewSistemaHandler(sistemaSvc, reporteSvc, handlerLogger),
		Monitoring: monitoringHandler,
		Health:     middleware.NewHealthChecker(store, cfg.Store.Driver, redisDB, dbStats, baseLogger.Named("health")),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.NewCORS(cfg.Server)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		middleware.ServerInfo(middleware.BannerInfo{
			Port:    cfg.Server.Port,
			Driver:  cfg.Store.Driver,
			Redis:   redisClient != nil,
			Duenos:  cfg.Catalogo.Duenos,
			CronCer: cfg.Cereales.CronSpec,
		}, baseLogger)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	sched.Stop(shutdownCtx)
}
