package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoSesion: "ABIERTA" | "CERRADA"
type EstadoSesion string

const (
	SesionAbierta EstadoSesion = "ABIERTA"
	SesionCerrada EstadoSesion = "CERRADA"
)

// SesionCaja represents one open-to-close shift of the cash register.
// Only one session may be ABIERTA at a time per business; the backend enforces it.
// Once CERRADA, Totales and Cierre are frozen and read verbatim from history.
type SesionCaja struct {
	ID            int64
	AbiertaEn     time.Time
	CerradaEn     *time.Time
	InicialLocal  decimal.Decimal
	InicialVecina decimal.Decimal
	Totales       TotalesCaja
	// Cierre is nil until the session is closed.
	Cierre     *CierreCaja
	Estado     EstadoSesion
	AbiertaPor string
	CerradaPor *string
}

// Abierta reports whether movements may still be recorded against the session.
func (s SesionCaja) Abierta() bool { return s.Estado == SesionAbierta }

// TotalesCaja holds the running per-method totals of a session.
// EfectivoYGiros includes GIRO_VECINA payments, which land in the local drawer.
// Exento is a subset of the per-method totals, tracked for tax reporting only.
type TotalesCaja struct {
	EfectivoYGiros    decimal.Decimal
	Debito            decimal.Decimal
	Credito           decimal.Decimal
	Transferencia     decimal.Decimal
	Exento            decimal.Decimal
	ExentoEfectivo    decimal.Decimal
	Ingresos          decimal.Decimal
	Egresos           decimal.Decimal
	MovimientosVecina decimal.Decimal
	Internas          decimal.Decimal
	Tickets           TicketsCaja
}

// TicketsCaja counts sales per payment method. A sale paid with two methods
// counts once for each.
type TicketsCaja struct {
	Efectivo      int
	GiroVecina    int
	Debito        int
	Credito       int
	Transferencia int
	Internas      int
}

// CierreCaja is the closing snapshot. Diferencia fields are signed:
// positive = sobrante, negative = faltante.
type CierreCaja struct {
	ContadoLocal     decimal.Decimal
	ContadoVecina    decimal.Decimal
	EsperadoLocal    decimal.Decimal
	EsperadoVecina   decimal.Decimal
	DiferenciaLocal  decimal.Decimal
	DiferenciaVecina decimal.Decimal
}
