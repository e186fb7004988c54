package service

import (
	"context"

	"botilleria/internal/dto"
)

// API is the backend REST surface the services orchestrate. infra.APIClient
// implements it; tests use an in-memory fake.
type API interface {
	EstadoCaja(ctx context.Context, token string) (*dto.SesionCajaResponse, error)
	DetalleCaja(ctx context.Context, token string, id int64) (*dto.SesionDetalleResponse, error)
	AbrirCaja(ctx context.Context, token string, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, token string, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	CerrarCaja(ctx context.Context, token string, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error)
	HistorialCaja(ctx context.Context, token string) ([]dto.SesionCajaResponse, error)

	DetalleVenta(ctx context.Context, token string, id int64) (*dto.VentaResponse, error)
	CrearVenta(ctx context.Context, token string, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	Devolucion(ctx context.Context, token string, ventaID int64, req dto.DevolucionRequest) (*dto.DevolucionResponse, error)
	Cambio(ctx context.Context, token string, ventaID int64, req dto.CambioRequest) (*dto.CambioResponse, error)

	ProductoPorCodigo(ctx context.Context, token, codigo string) (*dto.ProductoResponse, error)
	Online(ctx context.Context, token, terminal string) error
}

// ReportePublisher enqueues the closing report of a session. The worker
// package implements it; a nil publisher disables reports.
type ReportePublisher interface {
	EncolarReporte(ctx context.Context, sesionID int64) (string, error)
}
