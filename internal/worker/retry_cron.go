package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues closing reports that
// were never delivered: jobs lost with an in-process queue, SMTP outages that
// exhausted their attempts, or a crash between archiving and enqueueing.

import (
	"context"
	"time"

	"botilleria/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	// retryGrace leaves freshly closed sessions to the job enqueued at close time.
	retryGrace = 10 * time.Minute
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Cierres    repository.CierreRepository
	Dispatcher *Dispatcher
}

// StartRetryCron launches a background goroutine that ticks every 5m and
// re-enqueues pending reports. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg, time.Now())
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig, now time.Time) int {
	pendientes, err := cfg.Cierres.ListarPendientes(ctx, now.Add(-retryGrace), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending reports")
		return 0
	}
	encolados := 0
	for _, c := range pendientes {
		if _, err := cfg.Dispatcher.EncolarReporte(ctx, c.SesionID); err != nil {
			log.Warn().Err(err).Int64("sesion_id", c.SesionID).Msg("retry_cron: could not requeue report")
			continue
		}
		encolados++
	}
	if encolados > 0 {
		log.Info().Int("count", encolados).Msg("retry_cron: pending reports requeued")
	}
	return encolados
}
