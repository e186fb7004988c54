package infra

// api_client.go: resty client for the store's REST backend.
// Every call goes through the circuit breaker. Only transport errors and 5xx
// answers count as breaker failures; a 4xx is a business rejection and its
// message is handed back to the operator verbatim.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"botilleria/internal/apierror"
	"botilleria/internal/dto"

	"github.com/go-resty/resty/v2"
)

// APIClient talks to the backend on behalf of the logged-in operator.
type APIClient struct {
	http *resty.Client
	cb   *CircuitBreaker
}

func NewAPIClient(baseURL string, timeout time.Duration, cb *CircuitBreaker) *APIClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig())
	}
	return &APIClient{http: client, cb: cb}
}

// CircuitState is reported by the health endpoint.
func (c *APIClient) CircuitState() string {
	return c.cb.State().String()
}

// ── Caja ──────────────────────────────────────────────────────────────────────

// EstadoCaja returns the open session, or nil when the backend answers null.
func (c *APIClient) EstadoCaja(ctx context.Context, token string) (*dto.SesionCajaResponse, error) {
	var s *dto.SesionCajaResponse
	if err := c.do(ctx, token, http.MethodGet, "/caja/estado", nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *APIClient) DetalleCaja(ctx context.Context, token string, id int64) (*dto.SesionDetalleResponse, error) {
	var d dto.SesionDetalleResponse
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/caja/%d", id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *APIClient) AbrirCaja(ctx context.Context, token string, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	var s dto.SesionCajaResponse
	if err := c.do(ctx, token, http.MethodPost, "/caja/abrir", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *APIClient) RegistrarMovimiento(ctx context.Context, token string, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	var m dto.MovimientoResponse
	if err := c.do(ctx, token, http.MethodPost, "/caja/movimiento", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *APIClient) CerrarCaja(ctx context.Context, token string, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error) {
	var s dto.SesionCajaResponse
	if err := c.do(ctx, token, http.MethodPost, "/caja/cerrar", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *APIClient) HistorialCaja(ctx context.Context, token string) ([]dto.SesionCajaResponse, error) {
	var out []dto.SesionCajaResponse
	if err := c.do(ctx, token, http.MethodGet, "/caja/historial", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

func (c *APIClient) DetalleVenta(ctx context.Context, token string, id int64) (*dto.VentaResponse, error) {
	var v dto.VentaResponse
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/ventas/%d/detalle", id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *APIClient) CrearVenta(ctx context.Context, token string, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	var v dto.VentaResponse
	if err := c.do(ctx, token, http.MethodPost, "/ventas/crear", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *APIClient) Devolucion(ctx context.Context, token string, ventaID int64, req dto.DevolucionRequest) (*dto.DevolucionResponse, error) {
	var d dto.DevolucionResponse
	if err := c.do(ctx, token, http.MethodPost, fmt.Sprintf("/ventas/%d/devolucion", ventaID), req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *APIClient) Cambio(ctx context.Context, token string, ventaID int64, req dto.CambioRequest) (*dto.CambioResponse, error) {
	var r dto.CambioResponse
	if err := c.do(ctx, token, http.MethodPost, fmt.Sprintf("/ventas/%d/cambio", ventaID), req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ── Productos / presencia ─────────────────────────────────────────────────────

func (c *APIClient) ProductoPorCodigo(ctx context.Context, token, codigo string) (*dto.ProductoResponse, error) {
	var p dto.ProductoResponse
	if err := c.do(ctx, token, http.MethodGet, "/productos/codigo/"+url.PathEscape(codigo), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Online is the presence heartbeat of a terminal.
func (c *APIClient) Online(ctx context.Context, token, terminal string) error {
	return c.do(ctx, token, http.MethodPost, "/usuarios/online", map[string]string{"terminal": terminal}, nil)
}

// do executes one request. out may be nil when the body is not needed.
func (c *APIClient) do(ctx context.Context, token, method, path string, body, out any) error {
	var resp *resty.Response
	err := c.cb.Execute(func() error {
		req := c.http.R().SetContext(ctx)
		if token != "" {
			req.SetAuthToken(token)
		}
		if body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(body)
		}
		r, err := req.Execute(method, path)
		if err != nil {
			return err
		}
		if r.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("%s %s: status %d: %s", method, path, r.StatusCode(), mensaje(r, http.StatusText(r.StatusCode())))
		}
		resp = r
		return nil
	})
	if err != nil {
		return apierror.Transitorio(err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return apierror.NoEncontrado(mensaje(resp, "Recurso no encontrado"))
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apierror.NoAutorizado(mensaje(resp, "Sesion expirada o sin permisos"))
	case code >= http.StatusBadRequest:
		return apierror.Rechazo(mensaje(resp, fmt.Sprintf("Operacion rechazada (%d)", code)))
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apierror.Transitorio(fmt.Errorf("%s %s: decode: %w", method, path, err))
	}
	return nil
}

// mensaje extracts the backend's message from an error body, falling back to
// the raw text and then to def.
func mensaje(r *resty.Response, def string) string {
	var be dto.BackendError
	if err := json.Unmarshal(r.Body(), &be); err == nil {
		if m := be.Mensaje(); m != "" {
			return m
		}
	}
	if raw := strings.TrimSpace(r.String()); raw != "" && !strings.HasPrefix(raw, "<") {
		return raw
	}
	return def
}

// IsCircuitOpen reports whether err was caused by an open breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
