package caja

import (
	"fmt"

	"botilleria/internal/model"

	"github.com/shopspring/decimal"
)

// ItemCarro is a scanned product waiting to be sold, priced from the catalog.
type ItemCarro struct {
	ProductoID     int64
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Exento         bool
}

// PreviewVenta is what the checkout screen shows before submitting a sale.
// The backend recomputes and enforces sum(pagos) == total.
type PreviewVenta struct {
	TotalGeneral      decimal.Decimal
	TotalAfecto       decimal.Decimal
	TotalExento       decimal.Decimal
	TotalPagado       decimal.Decimal
	PorcionEfectivo   decimal.Decimal
	PorcionNoEfectivo decimal.Decimal
	Vuelto            decimal.Decimal
	Faltante          decimal.Decimal
	Cubierta          bool
}

// PrevisualizarVenta totals a cart and its tenders.
func PrevisualizarVenta(items []ItemCarro, pagos []model.Pago) (PreviewVenta, error) {
	if len(items) == 0 {
		return PreviewVenta{}, ErrCarroVacio
	}
	if len(pagos) == 0 {
		return PreviewVenta{}, ErrSinPagos
	}

	p := PreviewVenta{
		TotalGeneral: decimal.Zero, TotalAfecto: decimal.Zero, TotalExento: decimal.Zero,
		TotalPagado: decimal.Zero, PorcionEfectivo: decimal.Zero, PorcionNoEfectivo: decimal.Zero,
		Vuelto: decimal.Zero, Faltante: decimal.Zero,
	}
	for _, it := range items {
		if it.Cantidad <= 0 {
			return PreviewVenta{}, fmt.Errorf("%w: producto %d", ErrCantidadInvalida, it.ProductoID)
		}
		if it.PrecioUnitario.IsNegative() {
			return PreviewVenta{}, fmt.Errorf("%w: producto %d", ErrPrecioInvalido, it.ProductoID)
		}
		sub := it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		if it.Exento {
			p.TotalExento = p.TotalExento.Add(sub)
		} else {
			p.TotalAfecto = p.TotalAfecto.Add(sub)
		}
	}
	p.TotalGeneral = p.TotalAfecto.Add(p.TotalExento)

	for _, pg := range pagos {
		if !pg.Metodo.Valido() {
			return PreviewVenta{}, ErrMetodoPago
		}
		if !pg.Monto.IsPositive() {
			return PreviewVenta{}, ErrMontoPago
		}
		p.TotalPagado = p.TotalPagado.Add(pg.Monto)
		if pg.Metodo.EsEfectivo() {
			p.PorcionEfectivo = p.PorcionEfectivo.Add(pg.Monto)
		} else {
			p.PorcionNoEfectivo = p.PorcionNoEfectivo.Add(pg.Monto)
		}
	}

	switch p.TotalPagado.Cmp(p.TotalGeneral) {
	case 1:
		p.Vuelto = p.TotalPagado.Sub(p.TotalGeneral)
		p.Cubierta = true
	case 0:
		p.Cubierta = true
	default:
		p.Faltante = p.TotalGeneral.Sub(p.TotalPagado)
	}
	return p, nil
}
