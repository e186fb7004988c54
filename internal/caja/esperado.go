package caja

import (
	"botilleria/internal/model"

	"github.com/shopspring/decimal"
)

// Esperado groups the two expected balances of a session.
type Esperado struct {
	Local  decimal.Decimal
	Vecina decimal.Decimal
}

// EfectivoEsperado is the cash that should be in the local drawer:
// inicialLocal + efectivoYGiros + ingresos − egresos.
// Exempt sales are already part of efectivoYGiros and the vecina float is a
// separate drawer, so neither is added. For a closed session the snapshot is
// returned verbatim.
func EfectivoEsperado(s model.SesionCaja) decimal.Decimal {
	if s.Estado == model.SesionCerrada && s.Cierre != nil {
		return s.Cierre.EsperadoLocal
	}
	t := s.Totales
	return s.InicialLocal.Add(t.EfectivoYGiros).Add(t.Ingresos).Sub(t.Egresos)
}

// VecinaEsperada is inicialVecina + movimientosVecina. movimientosVecina may be
// negative when the vecina float covered a local shortfall.
func VecinaEsperada(s model.SesionCaja) decimal.Decimal {
	if s.Estado == model.SesionCerrada && s.Cierre != nil {
		return s.Cierre.EsperadoVecina
	}
	return s.InicialVecina.Add(s.Totales.MovimientosVecina)
}

// Calcular returns both expected balances.
func Calcular(s model.SesionCaja) Esperado {
	return Esperado{Local: EfectivoEsperado(s), Vecina: VecinaEsperada(s)}
}

// EfectivoAfecto is the taxable share of the drawer's sales, using the exempt
// amount the backend attributed to cash.
func EfectivoAfecto(t model.TotalesCaja) decimal.Decimal {
	return t.EfectivoYGiros.Sub(t.ExentoEfectivo)
}
