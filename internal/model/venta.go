package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetodoPago: "EFECTIVO" | "GIRO_VECINA" | "DEBITO" | "CREDITO" | "TRANSFERENCIA"
type MetodoPago string

const (
	PagoEfectivo MetodoPago = "EFECTIVO"
	// PagoGiroVecina is cash handed over through the caja vecina; it is counted
	// together with EFECTIVO in the local drawer.
	PagoGiroVecina    MetodoPago = "GIRO_VECINA"
	PagoDebito        MetodoPago = "DEBITO"
	PagoCredito       MetodoPago = "CREDITO"
	PagoTransferencia MetodoPago = "TRANSFERENCIA"
)

// MetodosPago lists every accepted payment method in display order.
var MetodosPago = []MetodoPago{PagoEfectivo, PagoGiroVecina, PagoDebito, PagoCredito, PagoTransferencia}

// Valido reports whether m is an accepted payment method.
func (m MetodoPago) Valido() bool {
	for _, v := range MetodosPago {
		if m == v {
			return true
		}
	}
	return false
}

// EsEfectivo reports whether payments with m end up in the local drawer.
func (m MetodoPago) EsEfectivo() bool {
	return m == PagoEfectivo || m == PagoGiroVecina
}

// TipoVenta: "NORMAL" | "INTERNA"
type TipoVenta string

const (
	VentaNormal  TipoVenta = "NORMAL"
	VentaInterna TipoVenta = "INTERNA"
)

// EstadoVenta: "ACTIVA" | "ANULADA"
type EstadoVenta string

const (
	VentaActiva  EstadoVenta = "ACTIVA"
	VentaAnulada EstadoVenta = "ANULADA"
)

// Pago is one tender of a sale.
type Pago struct {
	Metodo MetodoPago
	Monto  decimal.Decimal
}

// VentaItem is a price-frozen sale line.
type VentaItem struct {
	ProductoID       int64
	Nombre           string
	Cantidad         int
	CantidadDevuelta int
	PrecioUnitario   decimal.Decimal
	Exento           bool
}

// Venta holds the attributes of a sale that matter to the caja.
// The backend guarantees sum(Pagos) == TotalGeneral at creation time.
type Venta struct {
	ID           int64
	SesionID     int64
	Tipo         TipoVenta
	TotalGeneral decimal.Decimal
	TotalAfecto  decimal.Decimal
	TotalExento  decimal.Decimal
	// ExentoEfectivo is the part of TotalExento paid through the local drawer,
	// as attributed by the backend. It is never inferred from cash − exento.
	ExentoEfectivo decimal.Decimal
	Estado         EstadoVenta
	Items          []VentaItem
	Pagos          []Pago
	Boletas        []Boleta
	CreadaEn       time.Time
}

// PorcionEfectivo sums the payments that land in the local drawer.
func (v Venta) PorcionEfectivo() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.Pagos {
		if p.Metodo.EsEfectivo() {
			total = total.Add(p.Monto)
		}
	}
	return total
}

// PorcionNoEfectivo sums every other payment.
func (v Venta) PorcionNoEfectivo() decimal.Decimal {
	total := decimal.Zero
	for _, p := range v.Pagos {
		if !p.Metodo.EsEfectivo() {
			total = total.Add(p.Monto)
		}
	}
	return total
}
