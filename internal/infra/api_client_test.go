package infra

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"botilleria/internal/apierror"
	"botilleria/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL, 2*time.Second, NewCircuitBreaker(CircuitBreakerConfig{Name: "test", FailureThreshold: 2, OpenTimeout: time.Minute}))
}

func TestAPIClient_EstadoCajaNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/caja/estado", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("null"))
	})

	s, err := c.EstadoCaja(context.Background(), "tok")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestAPIClient_EstadoCajaAbierta(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":12,"inicial_local":50000,"inicial_vecina":20000,"total_efectivo":"10000","estado":"ABIERTA","tickets_efectivo":1}`))
	})

	s, err := c.EstadoCaja(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, int64(12), s.ID)
	assert.Equal(t, "50000", s.InicialLocal.String())
	assert.Equal(t, "10000", s.TotalEfectivo.String())
	assert.Equal(t, 1, s.TicketsEfectivo)
	assert.Nil(t, s.EsperadoLocal)
}

func TestAPIClient_CerrarEnviaConteos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/caja/cerrar", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"total_real_local":57500,"total_real_vecina":20000}`, string(body))
		_, _ = w.Write([]byte(`{"id":12,"estado":"CERRADA","esperado_local":58000,"diferencia_local":-500}`))
	})

	local, vecina := decimal.NewFromInt(57500), decimal.NewFromInt(20000)
	s, err := c.CerrarCaja(context.Background(), "tok", dto.CerrarCajaRequest{TotalRealLocal: &local, TotalRealVecina: &vecina})
	require.NoError(t, err)
	assert.Equal(t, "CERRADA", s.Estado)
	assert.Equal(t, "-500", s.DiferenciaLocal.String())
}

func TestAPIClient_CambioSinDiferenciaOmiteMetodo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, present := raw["metodo_pago_diferencia"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"id":3,"venta_id":9,"diferencia":0}`))
	})

	_, err := c.Cambio(context.Background(), "tok", 9, dto.CambioRequest{
		Devueltos:  []dto.LineaDevolucionDTO{{ProductoID: 1, Cantidad: 1}},
		Entregados: []dto.ItemEntregadoDTO{{ProductoID: 2, Cantidad: 1, Precio: decimal.NewFromInt(8000)}},
		Motivo:     "talla",
	})
	require.NoError(t, err)
}

func TestAPIClient_RechazoConMensajeDelBackend(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Ya existe una caja abierta"}`))
	})

	_, err := c.AbrirCaja(context.Background(), "tok", dto.AbrirCajaRequest{})
	require.Error(t, err)
	assert.Equal(t, apierror.KindRechazo, apierror.KindOf(err))
	assert.Equal(t, "Ya existe una caja abierta", err.Error())
	// Business rejections do not trip the breaker.
	assert.Equal(t, "closed", c.CircuitState())
}

func TestAPIClient_NoEncontrado(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Producto no encontrado"}`))
	})

	_, err := c.ProductoPorCodigo(context.Background(), "tok", "7801234")
	assert.Equal(t, apierror.KindNoEncontrado, apierror.KindOf(err))
	assert.Equal(t, "Producto no encontrado", err.Error())
}

func TestAPIClient_FallasAbrenElCircuito(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := c.HistorialCaja(context.Background(), "tok")
		assert.Equal(t, apierror.KindTransitorio, apierror.KindOf(err))
	}
	_, err := c.HistorialCaja(context.Background(), "tok")
	assert.True(t, IsCircuitOpen(err))
	assert.Equal(t, 2, calls, "an open circuit must not reach the backend")
	assert.Equal(t, "open", c.CircuitState())
}
