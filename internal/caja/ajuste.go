package caja

import (
	"fmt"

	"botilleria/internal/model"

	"github.com/shopspring/decimal"
)

// Disponible is how many units of a sale line can still be returned.
func Disponible(it model.VentaItem) int {
	return it.Cantidad - it.CantidadDevuelta
}

// DevueltaCompleta reports whether no line of v has units left to return.
func DevueltaCompleta(v model.Venta) bool {
	for _, it := range v.Items {
		if Disponible(it) > 0 {
			return false
		}
	}
	return true
}

// ElegibleDevolucion must pass before the return or exchange UI is offered.
func ElegibleDevolucion(v *model.Venta) error {
	if v == nil {
		return ErrVentaNoEncontrada
	}
	if v.Estado == model.VentaAnulada {
		return ErrVentaAnulada
	}
	if DevueltaCompleta(*v) {
		return ErrVentaDevuelta
	}
	return nil
}

// LineaAsignada is the part of a return request charged to one sale line.
// Subtotal uses the line's frozen unit price, never the current catalog one.
type LineaAsignada struct {
	Item           int
	ProductoID     int64
	Nombre         string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Exento         bool
	Subtotal       decimal.Decimal
}

// PreviewDevolucion is the client-side estimate of a refund.
type PreviewDevolucion struct {
	Lineas      []LineaAsignada
	Total       decimal.Decimal
	TotalExento decimal.Decimal
	Estimado    bool
}

// PreviewCambio is the client-side estimate of an exchange. MetodoPago is
// forced to nil when there is no differential to pay.
type PreviewCambio struct {
	Devolucion     PreviewDevolucion
	Entregados     []model.ItemEntregado
	TotalEntregado decimal.Decimal
	Diferencia     decimal.Decimal
	RequierePago   bool
	MetodoPago     *model.MetodoPago
	Estimado       bool
}

// TotalDevolucion sums quantity × original unit price.
func TotalDevolucion(lineas []LineaAsignada) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.Subtotal)
	}
	return total
}

// TotalEntregado sums quantity × price at delivery time.
func TotalEntregado(items []model.ItemEntregado) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return total
}

// PrevisualizarDevolucion validates a return request against v and estimates
// the refund. Lines with quantity 0 are ignored; at least one must be > 0.
func PrevisualizarDevolucion(v *model.Venta, lineas []model.LineaDevolucion) (PreviewDevolucion, error) {
	if err := ElegibleDevolucion(v); err != nil {
		return PreviewDevolucion{}, err
	}
	asignadas, err := asignar(*v, lineas)
	if err != nil {
		return PreviewDevolucion{}, err
	}
	p := PreviewDevolucion{Lineas: asignadas, Total: TotalDevolucion(asignadas), TotalExento: decimal.Zero, Estimado: true}
	for _, l := range asignadas {
		if l.Exento {
			p.TotalExento = p.TotalExento.Add(l.Subtotal)
		}
	}
	return p, nil
}

// AplicarDevolucion returns a copy of v with the returned quantities added to
// its lines, as the backend will record them. v itself is left untouched.
func AplicarDevolucion(v model.Venta, lineas []model.LineaDevolucion) (model.Venta, error) {
	if err := ElegibleDevolucion(&v); err != nil {
		return v, err
	}
	asignadas, err := asignar(v, lineas)
	if err != nil {
		return v, err
	}
	items := make([]model.VentaItem, len(v.Items))
	copy(items, v.Items)
	for _, l := range asignadas {
		items[l.Item].CantidadDevuelta += l.Cantidad
	}
	v.Items = items
	return v, nil
}

// PrevisualizarCambio validates an exchange and derives the differential.
// Delivered prices are current catalog prices, so every total is an estimate;
// the backend recomputes them.
func PrevisualizarCambio(v *model.Venta, devueltos []model.LineaDevolucion, entregados []model.ItemEntregado, metodo *model.MetodoPago) (PreviewCambio, error) {
	dev, err := PrevisualizarDevolucion(v, devueltos)
	if err != nil {
		return PreviewCambio{}, err
	}

	seleccion := make([]model.ItemEntregado, 0, len(entregados))
	for _, it := range entregados {
		if it.Cantidad < 0 {
			return PreviewCambio{}, fmt.Errorf("%w: producto %d", ErrCantidadInvalida, it.ProductoID)
		}
		if it.Cantidad == 0 {
			continue
		}
		if it.Precio.IsNegative() {
			return PreviewCambio{}, fmt.Errorf("%w: producto %d", ErrPrecioInvalido, it.ProductoID)
		}
		seleccion = append(seleccion, it)
	}
	if len(seleccion) == 0 {
		return PreviewCambio{}, ErrSinItemsEntrega
	}

	entregado := TotalEntregado(seleccion)
	if entregado.LessThan(dev.Total) {
		return PreviewCambio{}, ErrEntregaMenor
	}

	p := PreviewCambio{
		Devolucion:     dev,
		Entregados:     seleccion,
		TotalEntregado: entregado,
		Diferencia:     entregado.Sub(dev.Total),
		Estimado:       true,
	}
	if !p.Diferencia.IsPositive() {
		return p, nil
	}
	if metodo == nil || *metodo == "" {
		return PreviewCambio{}, ErrFaltaMetodoPago
	}
	if !metodo.Valido() {
		return PreviewCambio{}, ErrMetodoPago
	}
	m := *metodo
	p.RequierePago = true
	p.MetodoPago = &m
	return p, nil
}

// asignar charges each requested product to the sale lines holding it, in
// line order, rejecting anything beyond what is still available.
func asignar(v model.Venta, lineas []model.LineaDevolucion) ([]LineaAsignada, error) {
	pedidos := make(map[int64]int)
	var orden []int64
	for _, l := range lineas {
		if l.Cantidad < 0 {
			return nil, fmt.Errorf("%w: producto %d", ErrCantidadInvalida, l.ProductoID)
		}
		if l.Cantidad == 0 {
			continue
		}
		if _, ok := pedidos[l.ProductoID]; !ok {
			orden = append(orden, l.ProductoID)
		}
		pedidos[l.ProductoID] += l.Cantidad
	}
	if len(orden) == 0 {
		return nil, ErrSinItemsDevolucion
	}

	var asignadas []LineaAsignada
	for _, pid := range orden {
		pendiente := pedidos[pid]
		disponible, vendido := 0, false
		for _, it := range v.Items {
			if it.ProductoID == pid {
				vendido = true
				disponible += Disponible(it)
			}
		}
		if !vendido {
			return nil, fmt.Errorf("%w: producto %d", ErrProductoNoVendido, pid)
		}
		if pendiente > disponible {
			return nil, fmt.Errorf("%w: producto %d, pedido %d, disponible %d", ErrCantidadExcedida, pid, pendiente, disponible)
		}
		for i, it := range v.Items {
			if pendiente == 0 {
				break
			}
			if it.ProductoID != pid || Disponible(it) <= 0 {
				continue
			}
			n := Disponible(it)
			if n > pendiente {
				n = pendiente
			}
			asignadas = append(asignadas, LineaAsignada{
				Item:           i,
				ProductoID:     pid,
				Nombre:         it.Nombre,
				Cantidad:       n,
				PrecioUnitario: it.PrecioUnitario,
				Exento:         it.Exento,
				Subtotal:       it.PrecioUnitario.Mul(decimal.NewFromInt(int64(n))),
			})
			pendiente -= n
		}
	}
	return asignadas, nil
}
