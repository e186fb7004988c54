package dto

import "github.com/shopspring/decimal"

func init() {
	// Amounts are whole currency units and travel as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	InicialLocal  decimal.Decimal `json:"inicial_local"  validate:"min=0"`
	InicialVecina decimal.Decimal `json:"inicial_vecina" validate:"min=0"`
}

type MovimientoRequest struct {
	Tipo        string          `json:"tipo"        validate:"required,oneof=INGRESO EGRESO VECINA"`
	Categoria   string          `json:"categoria"   validate:"required,min=2,max=60"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Descripcion string          `json:"descripcion" validate:"max=255"`
}

// CerrarCajaRequest carries the physically counted drawers. Both are pointers
// so that a missing count is told apart from a counted zero.
type CerrarCajaRequest struct {
	TotalRealLocal  *decimal.Decimal `json:"total_real_local"`
	TotalRealVecina *decimal.Decimal `json:"total_real_vecina"`
}

// HistorialFilter is bound from the query string of GET /v1/caja/historial.
type HistorialFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Backend response DTOs ───────────────────────────────────────────────────

// SesionCajaResponse is a session as the backend serves it from /caja/estado,
// /caja/:id and /caja/historial. Totals are the backend's own aggregation.
type SesionCajaResponse struct {
	ID              int64           `json:"id"`
	FechaApertura   string          `json:"fecha_apertura"`
	FechaCierre     *string         `json:"fecha_cierre"`
	InicialLocal    decimal.Decimal `json:"inicial_local"`
	InicialVecina   decimal.Decimal `json:"inicial_vecina"`
	TotalEfectivo   decimal.Decimal `json:"total_efectivo"`
	TotalDebito     decimal.Decimal `json:"total_debito"`
	TotalCredito    decimal.Decimal `json:"total_credito"`
	TotalTransfer   decimal.Decimal `json:"total_transferencia"`
	TotalExento     decimal.Decimal `json:"total_exento"`
	ExentoEfectivo  decimal.Decimal `json:"exento_efectivo"`
	TotalIngresos   decimal.Decimal `json:"total_ingresos"`
	TotalEgresos    decimal.Decimal `json:"total_egresos"`
	TotalVecina     decimal.Decimal `json:"total_vecina"`
	TotalInternas   decimal.Decimal `json:"total_internas"`
	TicketsEfectivo int             `json:"tickets_efectivo"`
	TicketsGiro     int             `json:"tickets_giro"`
	TicketsDebito   int             `json:"tickets_debito"`
	TicketsCredito  int             `json:"tickets_credito"`
	TicketsTransfer int             `json:"tickets_transferencia"`
	TicketsInternas int             `json:"tickets_internas"`
	// Closing snapshot, null while the session is open.
	TotalRealLocal   *decimal.Decimal `json:"total_real_local"`
	TotalRealVecina  *decimal.Decimal `json:"total_real_vecina"`
	EsperadoLocal    *decimal.Decimal `json:"esperado_local"`
	EsperadoVecina   *decimal.Decimal `json:"esperado_vecina"`
	DiferenciaLocal  *decimal.Decimal `json:"diferencia_local"`
	DiferenciaVecina *decimal.Decimal `json:"diferencia_vecina"`
	Estado           string           `json:"estado"` // ABIERTA | CERRADA
	UsuarioApertura  string           `json:"usuario_apertura"`
	UsuarioCierre    *string          `json:"usuario_cierre"`
}

type MovimientoResponse struct {
	ID          int64           `json:"id"`
	CajaID      int64           `json:"caja_id"`
	Tipo        string          `json:"tipo"`
	Categoria   string          `json:"categoria"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Fecha       string          `json:"fecha"`
}

// SesionDetalleResponse is GET /caja/:id: the session plus its entry stream.
type SesionDetalleResponse struct {
	Sesion       SesionCajaResponse   `json:"sesion"`
	Movimientos  []MovimientoResponse `json:"movimientos"`
	Ventas       []VentaResponse      `json:"ventas"`
	Devoluciones []DevolucionResponse `json:"devoluciones"`
	Cambios      []CambioResponse     `json:"cambios"`
}

// BackendError is the body of a 4xx/5xx answer from the backend. Servers are
// not consistent about the field they fill, so all three are read.
type BackendError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Mensaje returns the first non-empty message of the body.
func (e BackendError) Mensaje() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Detail != "":
		return e.Detail
	default:
		return e.Error
	}
}

// ─── Local response DTOs ─────────────────────────────────────────────────────

// ResumenCaja is what the dashboard renders for a session.
type ResumenCaja struct {
	Sesion         SesionCajaResponse `json:"sesion"`
	EsperadoLocal  decimal.Decimal    `json:"esperado_local"`
	EsperadoVecina decimal.Decimal    `json:"esperado_vecina"`
	EfectivoAfecto decimal.Decimal    `json:"efectivo_afecto"`
	TotalCobrado   decimal.Decimal    `json:"total_cobrado"`
	// Deriva is true when the folded entry stream disagrees with the backend totals.
	Deriva        bool                 `json:"deriva"`
	ActualizadoEn string               `json:"actualizado_en"`
	Movimientos   []MovimientoResponse `json:"movimientos,omitempty"`
}

type ConciliacionResponse struct {
	EsperadoLocal       decimal.Decimal `json:"esperado_local"`
	EsperadoVecina      decimal.Decimal `json:"esperado_vecina"`
	ContadoLocal        decimal.Decimal `json:"contado_local"`
	ContadoVecina       decimal.Decimal `json:"contado_vecina"`
	DiferenciaLocal     decimal.Decimal `json:"diferencia_local"`
	DiferenciaVecina    decimal.Decimal `json:"diferencia_vecina"`
	ClasificacionLocal  string          `json:"clasificacion_local"`
	ClasificacionVecina string          `json:"clasificacion_vecina"`
}

type CierreResponse struct {
	Sesion SesionCajaResponse   `json:"sesion"`
	Cierre ConciliacionResponse `json:"cierre"`
	// ReporteJobID is empty when no report worker is configured.
	ReporteJobID string `json:"reporte_job_id,omitempty"`
}

type CierreArchivadoResponse struct {
	SesionID         int64           `json:"sesion_id"`
	Terminal         string          `json:"terminal"`
	AbiertaEn        string          `json:"abierta_en"`
	CerradaEn        string          `json:"cerrada_en"`
	CerradaPor       string          `json:"cerrada_por"`
	EsperadoLocal    decimal.Decimal `json:"esperado_local"`
	EsperadoVecina   decimal.Decimal `json:"esperado_vecina"`
	DiferenciaLocal  decimal.Decimal `json:"diferencia_local"`
	DiferenciaVecina decimal.Decimal `json:"diferencia_vecina"`
	Clasificacion    string          `json:"clasificacion"`
	ReporteEnviado   bool            `json:"reporte_enviado"`
}

// HistorialCajaResponse is returned by GET /v1/caja/historial, newest first.
type HistorialCajaResponse struct {
	Data  []SesionCajaResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// CierreListResponse is returned by GET /v1/caja/cierres.
type CierreListResponse struct {
	Data  []CierreArchivadoResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
