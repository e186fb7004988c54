package handler

import (
	"net/http"
	"strings"

	"botilleria/internal/apierror"
	"botilleria/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductosHandler resolves scanned barcodes for the checkout screen.
type ProductosHandler struct{ svc service.VentaService }

func NewProductosHandler(svc service.VentaService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// PorCodigo godoc
// @Summary Busca un producto por codigo de barras
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Codigo de barras"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/codigo/{codigo} [get]
func (h *ProductosHandler) PorCodigo(c *gin.Context) {
	codigo := strings.TrimSpace(c.Param("codigo"))
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Codigo requerido"))
		return
	}
	resp, err := h.svc.ProductoPorCodigo(c.Request.Context(), operador(c), codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
