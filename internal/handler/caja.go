package handler

import (
	"net/http"

	"botilleria/internal/dto"
	"botilleria/internal/service"

	"github.com/gin-gonic/gin"
)

// Suscripciones is the feed of refreshed summaries the poller publishes.
type Suscripciones interface {
	Subscribe() (<-chan *dto.ResumenCaja, func())
	Ultimo() (*dto.ResumenCaja, bool)
}

type CajaHandler struct {
	svc  service.CajaService
	feed Suscripciones
}

func NewCajaHandler(svc service.CajaService, feed Suscripciones) *CajaHandler {
	return &CajaHandler{svc: svc, feed: feed}
}

// Estado godoc
// @Summary Sesion de caja abierta con totales, esperado y vista previa
// @Description Responde null cuando no hay caja abierta.
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumenCaja
// @Failure 502 {object} apierror.APIError
// @Router /v1/caja/estado [get]
func (h *CajaHandler) Estado(c *gin.Context) {
	resp, err := h.svc.Estado(c.Request.Context(), operador(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Resumen de una sesion de caja con sus movimientos
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de sesion"
// @Success 200 {object} dto.ResumenCaja
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id} [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), operador(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stream pushes every summary the poller refreshes as a server-sent event
// named "caja", starting with the last known one.
func (h *CajaHandler) Stream(c *gin.Context) {
	ch, cancel := h.feed.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	if r, ok := h.feed.Ultimo(); ok {
		c.SSEvent("caja", r)
	}
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-ch:
			c.SSEvent("caja", r)
			c.Writer.Flush()
		}
	}
}

// Abrir godoc
// @Summary Abre una nueva sesion de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Montos iniciales de ambos cajones"
// @Success 201 {object} dto.ResumenCaja
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), operador(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso, egreso o movimiento de caja vecina
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoRequest true "Movimiento manual"
// @Success 201 {object} dto.ResumenCaja
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/movimiento [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), operador(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PrevisualizarCierre godoc
// @Summary Calcula la diferencia de cierre sin cerrar la caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Conteo fisico"
// @Success 200 {object} dto.ConciliacionResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/cerrar/previsualizar [post]
func (h *CajaHandler) PrevisualizarCierre(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PrevisualizarCierre(c.Request.Context(), operador(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary Cierra la sesion con el conteo fisico de ambos cajones
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Conteo fisico"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), operador(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial returns a paginated list of sessions, newest first.
func (h *CajaHandler) Historial(c *gin.Context) {
	var f dto.HistorialFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), operador(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cierres lists the closings archived at this terminal.
func (h *CajaHandler) Cierres(c *gin.Context) {
	var f dto.HistorialFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Cierres(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
