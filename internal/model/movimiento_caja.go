package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoMovimiento: "INGRESO" | "EGRESO" | "VECINA"
type TipoMovimiento string

const (
	MovimientoIngreso TipoMovimiento = "INGRESO"
	MovimientoEgreso  TipoMovimiento = "EGRESO"
	// MovimientoVecina moves money between the local drawer and the caja vecina.
	// Its Monto is signed: positive deposits into the vecina float, negative
	// withdrawals cover a local shortfall.
	MovimientoVecina TipoMovimiento = "VECINA"
)

// Valido reports whether t is one of the known movement kinds.
func (t TipoMovimiento) Valido() bool {
	switch t {
	case MovimientoIngreso, MovimientoEgreso, MovimientoVecina:
		return true
	}
	return false
}

// MovimientoCaja is a manual ledger entry not tied to a sale.
// Movements are NEVER modified or deleted once the backend accepts them.
type MovimientoCaja struct {
	ID          int64
	SesionID    int64
	Tipo        TipoMovimiento
	Categoria   string
	Monto       decimal.Decimal
	Descripcion string
	CreadoEn    time.Time
}
