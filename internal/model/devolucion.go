package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineaDevolucion asks to return Cantidad units of a product of the sale.
type LineaDevolucion struct {
	ProductoID int64
	Cantidad   int
}

// Devolucion is a partial or full refund against one Venta, as confirmed by
// the backend. Monto and MontoExento are the authoritative refunded amounts.
type Devolucion struct {
	ID          int64
	VentaID     int64
	Lineas      []LineaDevolucion
	MetodoPago  MetodoPago
	Motivo      string
	Monto       decimal.Decimal
	MontoExento decimal.Decimal
	CreadaEn    time.Time
}

// ItemEntregado is a product handed to the customer in an exchange.
// Precio is the catalog price at delivery time.
type ItemEntregado struct {
	ProductoID int64
	Nombre     string
	Cantidad   int
	Precio     decimal.Decimal
}

// Cambio is a Devolucion bundled with a new delivery, netted into a single
// differential payment. MetodoPagoDiferencia is nil when Diferencia is zero.
type Cambio struct {
	ID                   int64
	VentaID              int64
	Devueltos            []LineaDevolucion
	Entregados           []ItemEntregado
	MetodoPagoDiferencia *MetodoPago
	Motivo               string
	TotalDevuelto        decimal.Decimal
	TotalEntregado       decimal.Decimal
	Diferencia           decimal.Decimal
	CreadoEn             time.Time
}
