package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"botilleria/internal/config"
	"botilleria/internal/infra"
	"botilleria/internal/repository"
	"botilleria/internal/router"
	"botilleria/internal/service"
	"botilleria/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// operadorTTL bounds how long a login survives without a logout.
const operadorTTL = 16 * time.Hour

var _ service.API = (*infra.APIClient)(nil)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Both stores are optional: without Redis the operator and the job queues
	// live in memory, without Postgres closings are not archived locally.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		if rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		if db, err = infra.NewDatabase(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Infrastructure ───────────────────────────────────────────────────────
	api := infra.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout(), infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	dispatcher := worker.NewDispatcher(rdb)
	hub := worker.NewHub()

	// ── Repositories ─────────────────────────────────────────────────────────
	operadorRepo := repository.NewOperadorMemRepository()
	var productos repository.ProductoCache
	if rdb != nil {
		operadorRepo = repository.NewOperadorRedisRepository(rdb, operadorTTL)
		productos = repository.NewProductoRedisCache(rdb, repository.ProductoCacheTTL)
	}
	var cierres repository.CierreRepository
	var reportes service.ReportePublisher
	if db != nil {
		cierres = repository.NewCierreRepository(db)
		reportes = dispatcher
	}

	// ── Services ─────────────────────────────────────────────────────────────
	operadorSvc := service.NewOperadorService(api, operadorRepo, cfg.TerminalID)
	cajaSvc := service.NewCajaService(api, cierres, reportes)
	ventaSvc := service.NewVentaService(api, productos)

	// ── Background work ──────────────────────────────────────────────────────
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	if cierres != nil {
		mailer := infra.NewMailer(cfg)
		reporteW := worker.NewReporteWorker(cierres, dispatcher, worker.ReporteConfig{
			Negocio:      cfg.BusinessName,
			StoragePath:  cfg.PDFStoragePath,
			Destinatario: cfg.ReporteEmail,
			MailEnabled:  cfg.MailEnabled(),
		})
		emailW := worker.NewEmailWorker(mailer, cierres)
		worker.StartWorkerPool(ctx, dispatcher, cfg.WorkerPoolSize, worker.Handlers{
			worker.JobReporte: reporteW.Process,
			worker.JobEmail:   emailW.Process,
		})
		worker.StartRetryCron(ctx, worker.RetryCronConfig{Cierres: cierres, Dispatcher: dispatcher})
	}
	worker.StartPoller(ctx, worker.PollerConfig{
		Caja:       cajaSvc,
		Operadores: operadorSvc,
		Hub:        hub,
		Interval:   cfg.PollInterval(),
	})
	worker.StartHeartbeat(ctx, worker.HeartbeatConfig{
		API:        api,
		Operadores: operadorSvc,
		Interval:   cfg.HeartbeatInterval(),
	})

	r := router.New(cfg, router.Deps{
		DB:         db,
		Redis:      rdb,
		Backend:    api,
		Dispatcher: dispatcher,
		Hub:        hub,
		Operadores: operadorSvc,
		Caja:       cajaSvc,
		Ventas:     ventaSvc,
	})

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: /v1/caja/stream holds its response open
		IdleTimeout: 60 * time.Second,
		// cancelling ctx ends the open SSE streams on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("terminal", cfg.TerminalID).Str("backend", cfg.APIBaseURL).Msgf("botilleria caja listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
