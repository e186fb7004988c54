package worker

// poller.go
// Refreshes the open session every few seconds so every screen of the
// terminal converges to what the backend holds, and fans the result out to
// the SSE subscribers through a Hub.

import (
	"context"
	"sync"
	"time"

	"botilleria/internal/apierror"
	"botilleria/internal/dto"
	"botilleria/internal/model"
	"botilleria/internal/service"

	"github.com/rs/zerolog/log"
)

// Hub keeps the last published caja state and broadcasts new ones.
// A nil Resumen means no session is open.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan *dto.ResumenCaja]struct{}
	ultimo *dto.ResumenCaja
	listo  bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan *dto.ResumenCaja]struct{})}
}

// Subscribe returns a channel receiving every state published from now on
// and a function that releases it. Slow subscribers only see the latest state.
func (h *Hub) Subscribe() (<-chan *dto.ResumenCaja, func()) {
	ch := make(chan *dto.ResumenCaja, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(r *dto.ResumenCaja) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ultimo, h.listo = r, true
	for ch := range h.subs {
		select {
		case ch <- r:
		default:
			// Drop the stale state the subscriber has not read yet.
			select {
			case <-ch:
			default:
			}
			ch <- r
		}
	}
}

// Ultimo returns the last published state; ok is false before the first poll.
func (h *Hub) Ultimo() (r *dto.ResumenCaja, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ultimo, h.listo
}

// OperadorActual resolves the operator the poller acts for.
type OperadorActual interface {
	Actual(ctx context.Context) (*model.Operador, error)
}

type PollerConfig struct {
	Caja       service.CajaService
	Operadores OperadorActual
	Hub        *Hub
	Interval   time.Duration
}

// StartPoller polls immediately and then every Interval until ctx is done.
func StartPoller(ctx context.Context, cfg PollerConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("poller: started")
		pollOnce(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("poller: shutting down")
				return
			case <-ticker.C:
				pollOnce(ctx, cfg)
			}
		}
	}()
}

// pollOnce publishes the current state. Failures keep the last state: a
// missed refresh is corrected by the next one.
func pollOnce(ctx context.Context, cfg PollerConfig) {
	op, err := cfg.Operadores.Actual(ctx)
	if err != nil {
		if apierror.KindOf(err) != apierror.KindNoAutorizado {
			log.Warn().Err(err).Msg("poller: could not resolve operator")
		}
		return
	}
	res, err := cfg.Caja.Estado(ctx, *op)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(apierror.KindOf(err))).Msg("poller: refresh failed")
		return
	}
	cfg.Hub.Publish(res)
}
