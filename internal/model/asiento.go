package model

import "github.com/shopspring/decimal"

// TipoAsiento: "VENTA" | "MOVIMIENTO" | "DEVOLUCION" | "CAMBIO"
type TipoAsiento string

const (
	AsientoVenta      TipoAsiento = "VENTA"
	AsientoMovimiento TipoAsiento = "MOVIMIENTO"
	AsientoDevolucion TipoAsiento = "DEVOLUCION"
	AsientoCambio     TipoAsiento = "CAMBIO"
)

// Asiento is the normalized ledger entry folded into a session's totals.
// Amounts are signed: compensating entries recorded by the backend (a sale
// voided after being counted, a refund) carry negative payments.
type Asiento struct {
	Tipo       TipoAsiento
	Referencia int64
	Pagos      []Pago
	Exento     decimal.Decimal
	// ExentoEfectivo is the exempt amount attributed to the local drawer.
	ExentoEfectivo decimal.Decimal
	Interna        bool
	Anulada        bool
	// Movimiento and Monto are only set for AsientoMovimiento.
	Movimiento TipoMovimiento
	Monto      decimal.Decimal
}

// Total sums the payments of the entry.
func (a Asiento) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.Pagos {
		total = total.Add(p.Monto)
	}
	return total
}

func AsientoDeVenta(v Venta) Asiento {
	pagos := make([]Pago, len(v.Pagos))
	copy(pagos, v.Pagos)
	return Asiento{
		Tipo:           AsientoVenta,
		Referencia:     v.ID,
		Pagos:          pagos,
		Exento:         v.TotalExento,
		ExentoEfectivo: v.ExentoEfectivo,
		Interna:        v.Tipo == VentaInterna,
		Anulada:        v.Estado == VentaAnulada,
	}
}

func AsientoDeMovimiento(m MovimientoCaja) Asiento {
	return Asiento{
		Tipo:       AsientoMovimiento,
		Referencia: m.ID,
		Movimiento: m.Tipo,
		Monto:      m.Monto,
	}
}

// AsientoDeDevolucion turns a confirmed refund into a negative payment on the
// refund method. Refunds paid in cash also reduce the drawer's exempt share.
func AsientoDeDevolucion(d Devolucion) Asiento {
	a := Asiento{
		Tipo:       AsientoDevolucion,
		Referencia: d.ID,
		Pagos:      []Pago{{Metodo: d.MetodoPago, Monto: d.Monto.Neg()}},
		Exento:     d.MontoExento.Neg(),
	}
	if d.MetodoPago.EsEfectivo() {
		a.ExentoEfectivo = d.MontoExento.Neg()
	}
	return a
}

// AsientoDeCambio records only the differential payment: the returned goods
// are netted against the delivered ones inside the exchange.
func AsientoDeCambio(c Cambio) Asiento {
	a := Asiento{Tipo: AsientoCambio, Referencia: c.ID}
	if c.MetodoPagoDiferencia != nil && c.Diferencia.IsPositive() {
		a.Pagos = []Pago{{Metodo: *c.MetodoPagoDiferencia, Monto: c.Diferencia}}
	}
	return a
}
