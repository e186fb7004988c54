package router

import (
	"context"
	"time"

	"botilleria/internal/config"
	"botilleria/internal/handler"
	"botilleria/internal/middleware"
	"botilleria/internal/service"
	"botilleria/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps is everything the HTTP surface needs. Services are built in main so
// the poller and the handlers share them.
type Deps struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Backend    interface{ CircuitState() string }
	Dispatcher *worker.Dispatcher
	Hub        *worker.Hub

	Operadores service.OperadorService
	Caja       service.CajaService
	Ventas     service.VentaService
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← API client / Repository ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(600, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	sesionH := handler.NewSesionHandler(d.Operadores)
	cajaH := handler.NewCajaHandler(d.Caja, d.Hub)
	ventasH := handler.NewVentasHandler(d.Ventas)
	productosH := handler.NewProductosHandler(d.Ventas)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(handler.HealthDeps{
		DB:      d.DB,
		Redis:   d.Redis,
		Backend: d.Backend,
		DLQ:     dlqTotal(d.Dispatcher),
	}))
	r.POST("/v1/sesion", middleware.LoginRateLimiter(), sesionH.Login)

	// Protected routes
	v1 := r.Group("/v1", middleware.RequireOperador(d.Operadores))
	{
		v1.GET("/sesion", sesionH.Actual)
		v1.DELETE("/sesion", sesionH.Logout)

		caja := v1.Group("/caja")
		{
			caja.GET("/estado", cajaH.Estado)
			caja.GET("/stream", cajaH.Stream)
			caja.GET("/historial", cajaH.Historial)
			caja.GET("/cierres", cajaH.Cierres)
			caja.GET("/:id", cajaH.Resumen)
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/movimiento", cajaH.RegistrarMovimiento)
			caja.POST("/cerrar/previsualizar", cajaH.PrevisualizarCierre)
			caja.POST("/cerrar", cajaH.Cerrar)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Crear)
			ventas.POST("/previsualizar", ventasH.Previsualizar)
			ventas.GET("/:id/detalle", ventasH.Detalle)
			ventas.POST("/:id/devolucion/previsualizar", ventasH.PrevisualizarDevolucion)
			ventas.POST("/:id/devolucion", ventasH.Devolucion)
			ventas.POST("/:id/cambio/previsualizar", ventasH.PrevisualizarCambio)
			ventas.POST("/:id/cambio", ventasH.Cambio)
		}

		v1.GET("/productos/codigo/:codigo", productosH.PorCodigo)
	}

	return r
}

func dlqTotal(d *worker.Dispatcher) func(ctx context.Context) (int64, error) {
	if d == nil {
		return nil
	}
	return func(ctx context.Context) (int64, error) {
		var total int64
		for _, q := range []string{worker.QueueReporte, worker.QueueEmail} {
			n, err := d.DLQLength(ctx, q)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	}
}
