package handler

import (
	"net/http"

	"botilleria/internal/dto"
	"botilleria/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Detalle godoc
// @Summary Detalle de una venta con sus items, pagos y boletas
// @Tags ventas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de venta"
// @Success 200 {object} dto.VentaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventas/{id}/detalle [get]
func (h *VentasHandler) Detalle(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Detalle(c.Request.Context(), operador(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Previsualizar godoc
// @Summary Totales, vuelto y boletas de un carro sin registrarlo
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearVentaRequest true "Carro y pagos"
// @Success 200 {object} dto.PreviewVentaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas/previsualizar [post]
func (h *VentasHandler) Previsualizar(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Previsualizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registra una venta en la caja abierta
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearVentaRequest true "Carro y pagos"
// @Success 201 {object} dto.VentaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), operador(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PrevisualizarDevolucion godoc
// @Summary Monto a reembolsar y estado resultante de una devolucion
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de venta"
// @Param body body dto.DevolucionRequest true "Lineas devueltas"
// @Success 200 {object} dto.PreviewDevolucionResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas/{id}/devolucion/previsualizar [post]
func (h *VentasHandler) PrevisualizarDevolucion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.DevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PrevisualizarDevolucion(c.Request.Context(), operador(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Devolucion godoc
// @Summary Registra la devolucion total o parcial de una venta
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de venta"
// @Param body body dto.DevolucionRequest true "Lineas devueltas"
// @Success 201 {object} dto.DevolucionResultado
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas/{id}/devolucion [post]
func (h *VentasHandler) Devolucion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.DevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Devolucion(c.Request.Context(), operador(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PrevisualizarCambio godoc
// @Summary Diferencial de un cambio de productos sin registrarlo
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de venta"
// @Param body body dto.CambioRequest true "Productos devueltos y entregados"
// @Success 200 {object} dto.PreviewCambioResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas/{id}/cambio/previsualizar [post]
func (h *VentasHandler) PrevisualizarCambio(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CambioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PrevisualizarCambio(c.Request.Context(), operador(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cambio godoc
// @Summary Registra un cambio de productos
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de venta"
// @Param body body dto.CambioRequest true "Productos devueltos y entregados"
// @Success 201 {object} dto.CambioResultado
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas/{id}/cambio [post]
func (h *VentasHandler) Cambio(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.CambioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cambio(c.Request.Context(), operador(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
