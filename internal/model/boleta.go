package model

import "time"

// TipoBoleta: "AFECTA" | "EXENTA"
type TipoBoleta string

const (
	BoletaAfecta TipoBoleta = "AFECTA"
	BoletaExenta TipoBoleta = "EXENTA"
)

// Boleta references the tax receipt of a sale. Folio is assigned once, outside
// this system, by the tax authority workflow; nil means not yet assigned.
// At most one Boleta exists per (VentaID, Tipo).
type Boleta struct {
	VentaID   int64
	Tipo      TipoBoleta
	Folio     *string
	EmitidaEn *time.Time
}
