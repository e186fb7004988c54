package worker

import (
	"context"
	"time"

	"botilleria/internal/apierror"

	"github.com/rs/zerolog/log"
)

// Presence is the backend call announcing that a terminal is in use.
type Presence interface {
	Online(ctx context.Context, token, terminal string) error
}

type HeartbeatConfig struct {
	API        Presence
	Operadores OperadorActual
	Interval   time.Duration
}

// StartHeartbeat reports the logged-in operator as online every Interval.
func StartHeartbeat(ctx context.Context, cfg HeartbeatConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("heartbeat: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("heartbeat: shutting down")
				return
			case <-ticker.C:
				latido(ctx, cfg)
			}
		}
	}()
}

func latido(ctx context.Context, cfg HeartbeatConfig) bool {
	op, err := cfg.Operadores.Actual(ctx)
	if err != nil {
		return false
	}
	if err := cfg.API.Online(ctx, op.Token, op.Terminal); err != nil {
		log.Warn().Err(err).Str("kind", string(apierror.KindOf(err))).Str("terminal", op.Terminal).Msg("heartbeat: failed")
		return false
	}
	return true
}
