package handler

import (
	"net/http"

	"botilleria/internal/dto"
	"botilleria/internal/service"

	"github.com/gin-gonic/gin"
)

// SesionHandler logs the operator of this terminal in and out.
type SesionHandler struct{ svc service.OperadorService }

func NewSesionHandler(svc service.OperadorService) *SesionHandler { return &SesionHandler{svc: svc} }

// Login godoc
// @Summary Inicia la sesion del operador con el token emitido por el backend
// @Tags sesion
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Token de acceso"
// @Success 200 {object} dto.OperadorResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/sesion [post]
func (h *SesionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actual godoc
// @Summary Operador con sesion iniciada en esta terminal
// @Tags sesion
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.OperadorResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/sesion [get]
func (h *SesionHandler) Actual(c *gin.Context) {
	c.JSON(http.StatusOK, service.OperadorDTO(operador(c)))
}

// Logout godoc
// @Summary Cierra la sesion del operador
// @Tags sesion
// @Security BearerAuth
// @Success 204
// @Router /v1/sesion [delete]
func (h *SesionHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
