package caja

import (
	"time"

	"botilleria/internal/model"

	"github.com/shopspring/decimal"
)

// Clasificacion: "CUADRADA" | "SOBRANTE" | "FALTANTE"
type Clasificacion string

const (
	Cuadrada Clasificacion = "CUADRADA"
	Sobrante Clasificacion = "SOBRANTE"
	Faltante Clasificacion = "FALTANTE"
)

// Clasificar labels a signed difference (contado − esperado). It is advisory
// only and never blocks closing.
func Clasificar(diff decimal.Decimal) Clasificacion {
	switch diff.Sign() {
	case 0:
		return Cuadrada
	case 1:
		return Sobrante
	default:
		return Faltante
	}
}

// Conciliacion is the preview of a close-out.
type Conciliacion struct {
	EsperadoLocal       decimal.Decimal
	EsperadoVecina      decimal.Decimal
	ContadoLocal        decimal.Decimal
	ContadoVecina       decimal.Decimal
	DiferenciaLocal     decimal.Decimal
	DiferenciaVecina    decimal.Decimal
	ClasificacionLocal  Clasificacion
	ClasificacionVecina Clasificacion
}

// Conciliar computes the close-out figures for an open session. It fails when
// there is no open session or either count is missing or negative; in that
// case nothing must be submitted and the register stays open.
func Conciliar(s *model.SesionCaja, contadoLocal, contadoVecina *decimal.Decimal) (Conciliacion, error) {
	if s == nil {
		return Conciliacion{}, ErrSinSesionAbierta
	}
	if !s.Abierta() {
		return Conciliacion{}, ErrSesionCerrada
	}
	if contadoLocal == nil {
		return Conciliacion{}, ErrConteoLocalRequerido
	}
	if contadoVecina == nil {
		return Conciliacion{}, ErrConteoVecinaRequerido
	}
	if contadoLocal.IsNegative() || contadoVecina.IsNegative() {
		return Conciliacion{}, ErrConteoNegativo
	}

	esp := Calcular(*s)
	difLocal := contadoLocal.Sub(esp.Local)
	difVecina := contadoVecina.Sub(esp.Vecina)
	return Conciliacion{
		EsperadoLocal:       esp.Local,
		EsperadoVecina:      esp.Vecina,
		ContadoLocal:        *contadoLocal,
		ContadoVecina:       *contadoVecina,
		DiferenciaLocal:     difLocal,
		DiferenciaVecina:    difVecina,
		ClasificacionLocal:  Clasificar(difLocal),
		ClasificacionVecina: Clasificar(difVecina),
	}, nil
}

// Cerrar fixes the snapshot on a copy of s and flips it to CERRADA. The backend
// performs the real close; this is used to render a closing that the backend
// confirmed without echoing the snapshot back.
func Cerrar(s model.SesionCaja, c Conciliacion, usuario string, en time.Time) model.SesionCaja {
	if s.Estado == model.SesionCerrada {
		return s
	}
	s.Cierre = &model.CierreCaja{
		ContadoLocal:     c.ContadoLocal,
		ContadoVecina:    c.ContadoVecina,
		EsperadoLocal:    c.EsperadoLocal,
		EsperadoVecina:   c.EsperadoVecina,
		DiferenciaLocal:  c.DiferenciaLocal,
		DiferenciaVecina: c.DiferenciaVecina,
	}
	s.Estado = model.SesionCerrada
	s.CerradaEn = &en
	s.CerradaPor = &usuario
	return s
}

// ValidarMovimiento checks a manual movement before it is submitted.
// INGRESO and EGRESO carry a positive amount; VECINA is signed but non-zero.
func ValidarMovimiento(tipo model.TipoMovimiento, monto decimal.Decimal) error {
	if !tipo.Valido() {
		return ErrTipoMovimiento
	}
	if tipo == model.MovimientoVecina {
		if monto.IsZero() {
			return ErrMontoVecina
		}
		return nil
	}
	if !monto.IsPositive() {
		return ErrMontoMovimiento
	}
	return nil
}
