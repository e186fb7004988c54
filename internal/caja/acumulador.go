package caja

import (
	"botilleria/internal/model"

	"github.com/shopspring/decimal"
)

// Acumular folds the authoritative ledger of an open session into its running
// totals. The fold starts from zero on every call: it is re-run on each
// refresh instead of being kept as incremental state, so it never drifts from
// the backend's stream. Only additions are involved, hence the result does
// not depend on the order of asientos.
//
// A closed session is returned untouched: its totals are history.
func Acumular(s model.SesionCaja, asientos []model.Asiento) model.SesionCaja {
	if s.Estado == model.SesionCerrada {
		return s
	}
	var t model.TotalesCaja
	for _, a := range asientos {
		t = SumarAsiento(t, a)
	}
	s.Totales = t
	return s
}

// The Sumar* wrappers fold one domain record at a time, for callers holding
// a single sale, movement, return or exchange rather than a ledger. Acumular
// goes through the same SumarAsiento so both paths agree.

// SumarVenta folds one sale. An ACTIVA sale adds its cash portion, each
// non-cash payment to its method, its exempt amount, and one ticket per
// method used. An ANULADA sale contributes nothing.
func SumarVenta(t model.TotalesCaja, v model.Venta) model.TotalesCaja {
	return SumarAsiento(t, model.AsientoDeVenta(v))
}

// SumarMovimiento folds one manual movement into its own total. VECINA
// amounts are signed.
func SumarMovimiento(t model.TotalesCaja, m model.MovimientoCaja) model.TotalesCaja {
	return SumarAsiento(t, model.AsientoDeMovimiento(m))
}

// SumarDevolucion folds the negative entry the backend records for a refund,
// charged to the refund method.
func SumarDevolucion(t model.TotalesCaja, d model.Devolucion) model.TotalesCaja {
	return SumarAsiento(t, model.AsientoDeDevolucion(d))
}

// SumarCambio folds only the differential payment of an exchange; an even
// exchange leaves the totals unchanged.
func SumarCambio(t model.TotalesCaja, c model.Cambio) model.TotalesCaja {
	return SumarAsiento(t, model.AsientoDeCambio(c))
}

// SumarAsiento adds a single ledger entry to t and returns the new totals.
func SumarAsiento(t model.TotalesCaja, a model.Asiento) model.TotalesCaja {
	switch a.Tipo {
	case model.AsientoMovimiento:
		return sumarMovimiento(t, a)
	case model.AsientoVenta:
		if a.Anulada {
			return t
		}
		t = sumarPagos(t, a.Pagos)
		t.Exento = t.Exento.Add(a.Exento)
		t.ExentoEfectivo = t.ExentoEfectivo.Add(a.ExentoEfectivo)
		// A compensating sale (negative total) takes its tickets back.
		delta := 1
		if a.Total().IsNegative() {
			delta = -1
		}
		t.Tickets = contarTickets(t.Tickets, a.Pagos, delta)
		if a.Interna {
			t.Internas = t.Internas.Add(a.Total())
			t.Tickets.Internas += delta
		}
		return t
	case model.AsientoDevolucion, model.AsientoCambio:
		t = sumarPagos(t, a.Pagos)
		t.Exento = t.Exento.Add(a.Exento)
		t.ExentoEfectivo = t.ExentoEfectivo.Add(a.ExentoEfectivo)
		return t
	}
	return t
}

func sumarMovimiento(t model.TotalesCaja, a model.Asiento) model.TotalesCaja {
	switch a.Movimiento {
	case model.MovimientoIngreso:
		t.Ingresos = t.Ingresos.Add(a.Monto)
	case model.MovimientoEgreso:
		t.Egresos = t.Egresos.Add(a.Monto)
	case model.MovimientoVecina:
		t.MovimientosVecina = t.MovimientosVecina.Add(a.Monto)
	}
	return t
}

func sumarPagos(t model.TotalesCaja, pagos []model.Pago) model.TotalesCaja {
	for _, p := range pagos {
		switch {
		case p.Metodo.EsEfectivo():
			t.EfectivoYGiros = t.EfectivoYGiros.Add(p.Monto)
		case p.Metodo == model.PagoDebito:
			t.Debito = t.Debito.Add(p.Monto)
		case p.Metodo == model.PagoCredito:
			t.Credito = t.Credito.Add(p.Monto)
		case p.Metodo == model.PagoTransferencia:
			t.Transferencia = t.Transferencia.Add(p.Monto)
		}
	}
	return t
}

func contarTickets(tk model.TicketsCaja, pagos []model.Pago, delta int) model.TicketsCaja {
	usados := make(map[model.MetodoPago]bool, len(pagos))
	for _, p := range pagos {
		usados[p.Metodo] = true
	}
	for m := range usados {
		switch m {
		case model.PagoEfectivo:
			tk.Efectivo += delta
		case model.PagoGiroVecina:
			tk.GiroVecina += delta
		case model.PagoDebito:
			tk.Debito += delta
		case model.PagoCredito:
			tk.Credito += delta
		case model.PagoTransferencia:
			tk.Transferencia += delta
		}
	}
	return tk
}

// TotalCobrado is the sum of every payment method for the session.
func TotalCobrado(t model.TotalesCaja) decimal.Decimal {
	return t.EfectivoYGiros.Add(t.Debito).Add(t.Credito).Add(t.Transferencia)
}
