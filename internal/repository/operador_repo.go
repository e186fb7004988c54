package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"botilleria/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrSinOperador is returned when no operator is logged in at the terminal.
var ErrSinOperador = errors.New("no hay operador en esta terminal")

// OperadorRepository keeps the operator hydrated at login for each terminal.
//
//go:generate mockgen -destination=mocks/mock_operador_repo.go -package=mock_repository -source=operador_repo.go OperadorRepository
type OperadorRepository interface {
	Guardar(ctx context.Context, o model.Operador) error
	Obtener(ctx context.Context, terminal string) (*model.Operador, error)
	Borrar(ctx context.Context, terminal string) error
}

// ── Redis ─────────────────────────────────────────────────────────────────────

type operadorRedisRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOperadorRedisRepository stores operators under operador:{terminal}.
// ttl bounds how long a stale login survives a crash; 0 means no expiry.
func NewOperadorRedisRepository(rdb *redis.Client, ttl time.Duration) OperadorRepository {
	return &operadorRedisRepo{rdb: rdb, ttl: ttl}
}

func operadorKey(terminal string) string { return "operador:" + terminal }

func (r *operadorRedisRepo) Guardar(ctx context.Context, o model.Operador) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	ttl := r.ttl
	if !o.ExpiraEn.IsZero() {
		if left := time.Until(o.ExpiraEn); left > 0 && (ttl == 0 || left < ttl) {
			ttl = left
		}
	}
	return r.rdb.Set(ctx, operadorKey(o.Terminal), b, ttl).Err()
}

func (r *operadorRedisRepo) Obtener(ctx context.Context, terminal string) (*model.Operador, error) {
	b, err := r.rdb.Get(ctx, operadorKey(terminal)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSinOperador
	}
	if err != nil {
		return nil, err
	}
	var o model.Operador
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *operadorRedisRepo) Borrar(ctx context.Context, terminal string) error {
	return r.rdb.Del(ctx, operadorKey(terminal)).Err()
}

// ── In-memory ─────────────────────────────────────────────────────────────────

type operadorMemRepo struct {
	mu         sync.RWMutex
	operadores map[string]model.Operador
}

// NewOperadorMemRepository is used when REDIS_URL is not configured.
func NewOperadorMemRepository() OperadorRepository {
	return &operadorMemRepo{operadores: make(map[string]model.Operador)}
}

func (r *operadorMemRepo) Guardar(_ context.Context, o model.Operador) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operadores[o.Terminal] = o
	return nil
}

func (r *operadorMemRepo) Obtener(_ context.Context, terminal string) (*model.Operador, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.operadores[terminal]
	if !ok {
		return nil, ErrSinOperador
	}
	return &o, nil
}

func (r *operadorMemRepo) Borrar(_ context.Context, terminal string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.operadores, terminal)
	return nil
}
