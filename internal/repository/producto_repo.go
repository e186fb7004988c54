package repository

import (
	"context"
	"encoding/json"
	"time"

	"botilleria/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ProductoCacheTTL keeps scanned products briefly; prices are owned by the
// backend and a stale entry only affects previews.
const ProductoCacheTTL = 2 * time.Minute

// ProductoCache memoizes barcode lookups so repeated scans of the same
// bottle do not hit the backend.
type ProductoCache interface {
	Obtener(ctx context.Context, codigo string) (*model.Producto, bool)
	// Guardar is best effort.
	Guardar(ctx context.Context, p model.Producto)
}

type productoRedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductoRedisCache(rdb *redis.Client, ttl time.Duration) ProductoCache {
	return &productoRedisCache{rdb: rdb, ttl: ttl}
}

func productoKey(codigo string) string { return "producto:" + codigo }

func (c *productoRedisCache) Obtener(ctx context.Context, codigo string) (*model.Producto, bool) {
	cached, err := c.rdb.Get(ctx, productoKey(codigo)).Bytes()
	if err != nil {
		return nil, false
	}
	var p model.Producto
	if err := json.Unmarshal(cached, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *productoRedisCache) Guardar(ctx context.Context, p model.Producto) {
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productoKey(p.Codigo), b, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("codigo", p.Codigo).Msg("producto cache: set failed")
	}
}
