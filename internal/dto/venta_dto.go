package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID     int64           `json:"producto_id"     validate:"required,min=1"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	Exento         bool            `json:"exento"`
}

type PagoDTO struct {
	Metodo string          `json:"metodo" validate:"required,oneof=EFECTIVO GIRO_VECINA DEBITO CREDITO TRANSFERENCIA"`
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
}

type CrearVentaRequest struct {
	Items     []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	Pagos     []PagoDTO          `json:"pagos"      validate:"required,min=1,dive"`
	TipoVenta string             `json:"tipo_venta" validate:"omitempty,oneof=NORMAL INTERNA"`
}

type LineaDevolucionDTO struct {
	ProductoID int64 `json:"producto_id" validate:"required,min=1"`
	Cantidad   int   `json:"cantidad"    validate:"min=0"`
}

type DevolucionRequest struct {
	Items      []LineaDevolucionDTO `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string               `json:"metodo_pago" validate:"required,oneof=EFECTIVO GIRO_VECINA DEBITO CREDITO TRANSFERENCIA"`
	Motivo     string               `json:"motivo"      validate:"omitempty,min=3"`
}

type ItemEntregadoDTO struct {
	ProductoID int64           `json:"producto_id" validate:"required,min=1"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"    validate:"min=0"`
	Precio     decimal.Decimal `json:"precio"      validate:"min=0"`
}

// CambioRequest omits metodo_pago_diferencia entirely when there is no
// differential to pay.
type CambioRequest struct {
	Devueltos            []LineaDevolucionDTO `json:"devueltos"  validate:"required,min=1,dive"`
	Entregados           []ItemEntregadoDTO   `json:"entregados" validate:"required,min=1,dive"`
	MetodoPagoDiferencia *string              `json:"metodo_pago_diferencia,omitempty"`
	Motivo               string               `json:"motivo"     validate:"required,min=3"`
}

// ─── Backend response DTOs ───────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID       int64           `json:"producto_id"`
	Nombre           string          `json:"nombre"`
	Cantidad         int             `json:"cantidad"`
	CantidadDevuelta int             `json:"cantidad_devuelta"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	Exento           bool            `json:"exento"`
}

type BoletaResponse struct {
	Tipo         string  `json:"tipo"` // AFECTA | EXENTA
	Folio        *string `json:"folio"`
	FechaEmision *string `json:"fecha_emision"`
}

type VentaResponse struct {
	ID             int64               `json:"id"`
	CajaID         int64               `json:"caja_id"`
	TipoVenta      string              `json:"tipo_venta"`
	TotalGeneral   decimal.Decimal     `json:"total_general"`
	TotalAfecto    decimal.Decimal     `json:"total_afecto"`
	TotalExento    decimal.Decimal     `json:"total_exento"`
	ExentoEfectivo decimal.Decimal     `json:"exento_efectivo"`
	Estado         string              `json:"estado"`
	Fecha          string              `json:"fecha"`
	Items          []ItemVentaResponse `json:"items"`
	Pagos          []PagoDTO           `json:"pagos"`
	Boletas        []BoletaResponse    `json:"boletas"`

	// Filled locally from Boletas.
	FolioAfectaAsignado bool `json:"folio_afecta_asignado"`
	FolioExentaAsignado bool `json:"folio_exenta_asignado"`
}

type DevolucionResponse struct {
	ID          int64                `json:"id"`
	VentaID     int64                `json:"venta_id"`
	Items       []LineaDevolucionDTO `json:"items"`
	MetodoPago  string               `json:"metodo_pago"`
	Motivo      string               `json:"motivo"`
	Monto       decimal.Decimal      `json:"monto"`
	MontoExento decimal.Decimal      `json:"monto_exento"`
	Fecha       string               `json:"fecha"`
}

type CambioResponse struct {
	ID                   int64                `json:"id"`
	VentaID              int64                `json:"venta_id"`
	Devueltos            []LineaDevolucionDTO `json:"devueltos"`
	Entregados           []ItemEntregadoDTO   `json:"entregados"`
	MetodoPagoDiferencia *string              `json:"metodo_pago_diferencia"`
	Motivo               string               `json:"motivo"`
	TotalDevuelto        decimal.Decimal      `json:"total_devuelto"`
	TotalEntregado       decimal.Decimal      `json:"total_entregado"`
	Diferencia           decimal.Decimal      `json:"diferencia"`
	Fecha                string               `json:"fecha"`
}

// ─── Local response DTOs ─────────────────────────────────────────────────────

type PreviewVentaResponse struct {
	TotalGeneral      decimal.Decimal `json:"total_general"`
	TotalAfecto       decimal.Decimal `json:"total_afecto"`
	TotalExento       decimal.Decimal `json:"total_exento"`
	TotalPagado       decimal.Decimal `json:"total_pagado"`
	PorcionEfectivo   decimal.Decimal `json:"porcion_efectivo"`
	PorcionNoEfectivo decimal.Decimal `json:"porcion_no_efectivo"`
	Vuelto            decimal.Decimal `json:"vuelto"`
	Faltante          decimal.Decimal `json:"faltante"`
	Cubierta          bool            `json:"cubierta"`
}

type LineaPreviewResponse struct {
	ProductoID     int64           `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Exento         bool            `json:"exento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// PreviewDevolucionResponse is an estimate; the backend's figure is final.
type PreviewDevolucionResponse struct {
	Lineas      []LineaPreviewResponse `json:"lineas"`
	Total       decimal.Decimal        `json:"total"`
	TotalExento decimal.Decimal        `json:"total_exento"`
	Estimado    bool                   `json:"estimado"`
}

type PreviewCambioResponse struct {
	Devolucion           PreviewDevolucionResponse `json:"devolucion"`
	Entregados           []ItemEntregadoDTO        `json:"entregados"`
	TotalEntregado       decimal.Decimal           `json:"total_entregado"`
	Diferencia           decimal.Decimal           `json:"diferencia"`
	RequierePago         bool                      `json:"requiere_pago"`
	MetodoPagoDiferencia *string                   `json:"metodo_pago_diferencia,omitempty"`
	Estimado             bool                      `json:"estimado"`
}

// DevolucionResultado pairs the confirmed refund with the re-read sale.
type DevolucionResultado struct {
	Devolucion DevolucionResponse `json:"devolucion"`
	Venta      VentaResponse      `json:"venta"`
}

type CambioResultado struct {
	Cambio CambioResponse `json:"cambio"`
	Venta  VentaResponse  `json:"venta"`
}
