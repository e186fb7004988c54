package caja_test

import (
	"math/rand"
	"testing"

	"botilleria/internal/caja"
	"botilleria/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ventaConLinea(productoID int64, vendidas, devueltas int, precio int64) model.Venta {
	return model.Venta{
		ID:           100,
		Tipo:         model.VentaNormal,
		Estado:       model.VentaActiva,
		TotalGeneral: d(int64(vendidas) * precio),
		Items: []model.VentaItem{{
			ProductoID:       productoID,
			Nombre:           "Pisco 35°",
			Cantidad:         vendidas,
			CantidadDevuelta: devueltas,
			PrecioUnitario:   d(precio),
		}},
	}
}

func metodo(m model.MetodoPago) *model.MetodoPago { return &m }

func TestDevolucion_ParcialYLuegoExcedida(t *testing.T) {
	v := ventaConLinea(7, 3, 0, 5000)

	_, err := caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 4}})
	assert.ErrorIs(t, err, caja.ErrCantidadExcedida)

	p, err := caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 2}})
	require.NoError(t, err)
	assert.Equal(t, "10000", p.Total.String())
	assert.True(t, p.Estimado)

	v2, err := caja.AplicarDevolucion(v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Items[0].CantidadDevuelta)
	assert.Equal(t, 0, v.Items[0].CantidadDevuelta, "the original sale must not be mutated")
	assert.Equal(t, 1, caja.Disponible(v2.Items[0]))

	_, err = caja.AplicarDevolucion(v2, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 2}})
	assert.ErrorIs(t, err, caja.ErrCantidadExcedida)
}

func TestDevolucion_VentaDevueltaCompleta(t *testing.T) {
	v := ventaConLinea(7, 3, 3, 5000)

	assert.True(t, caja.DevueltaCompleta(v))
	assert.ErrorIs(t, caja.ElegibleDevolucion(&v), caja.ErrVentaDevuelta)
	_, err := caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 1}})
	assert.ErrorIs(t, err, caja.ErrVentaDevuelta)
}

func TestDevolucion_Rechazos(t *testing.T) {
	v := ventaConLinea(7, 3, 0, 5000)
	anulada := v
	anulada.Estado = model.VentaAnulada

	_, err := caja.PrevisualizarDevolucion(nil, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 1}})
	assert.ErrorIs(t, err, caja.ErrVentaNoEncontrada)

	_, err = caja.PrevisualizarDevolucion(&anulada, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 1}})
	assert.ErrorIs(t, err, caja.ErrVentaAnulada)

	_, err = caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 0}})
	assert.ErrorIs(t, err, caja.ErrSinItemsDevolucion)

	_, err = caja.PrevisualizarDevolucion(&v, nil)
	assert.ErrorIs(t, err, caja.ErrSinItemsDevolucion)

	_, err = caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 8, Cantidad: 1}})
	assert.ErrorIs(t, err, caja.ErrProductoNoVendido)

	_, err = caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: -1}})
	assert.ErrorIs(t, err, caja.ErrCantidadInvalida)

	// Two request lines for the same product add up.
	_, err = caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 7, Cantidad: 2}, {ProductoID: 7, Cantidad: 2}})
	assert.ErrorIs(t, err, caja.ErrCantidadExcedida)
}

func TestDevolucion_UsaPrecioDeLaVentaYSeparaExento(t *testing.T) {
	v := model.Venta{
		ID:     1,
		Estado: model.VentaActiva,
		Items: []model.VentaItem{
			{ProductoID: 1, Cantidad: 2, PrecioUnitario: d(3000)},
			{ProductoID: 2, Cantidad: 1, PrecioUnitario: d(1500), Exento: true},
		},
	}

	p, err := caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{
		{ProductoID: 1, Cantidad: 1},
		{ProductoID: 2, Cantidad: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "4500", p.Total.String())
	assert.Equal(t, "1500", p.TotalExento.String())
	require.Len(t, p.Lineas, 2)
	assert.Equal(t, "3000", p.Lineas[0].Subtotal.String())
}

func TestDevolucion_LineasRepetidasSeConsumenEnOrden(t *testing.T) {
	v := model.Venta{
		ID:     1,
		Estado: model.VentaActiva,
		Items: []model.VentaItem{
			{ProductoID: 5, Cantidad: 2, CantidadDevuelta: 1, PrecioUnitario: d(1000)},
			{ProductoID: 5, Cantidad: 3, PrecioUnitario: d(900)},
		},
	}

	p, err := caja.PrevisualizarDevolucion(&v, []model.LineaDevolucion{{ProductoID: 5, Cantidad: 3}})
	require.NoError(t, err)
	require.Len(t, p.Lineas, 2)
	assert.Equal(t, 1, p.Lineas[0].Cantidad)
	assert.Equal(t, 2, p.Lineas[1].Cantidad)
	assert.Equal(t, "2800", p.Total.String())
}

// After any sequence of accepted returns, no line has more
// returned units than sold, and every over-request is rejected.
func TestDevolucion_NuncaSuperaLoVendido(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for ronda := 0; ronda < 100; ronda++ {
		v := model.Venta{ID: 1, Estado: model.VentaActiva}
		for p := int64(1); p <= 3; p++ {
			v.Items = append(v.Items, model.VentaItem{ProductoID: p, Cantidad: rng.Intn(5) + 1, PrecioUnitario: d(1000 * p)})
		}

		for intento := 0; intento < 20; intento++ {
			pid := int64(rng.Intn(3) + 1)
			q := rng.Intn(4) + 1
			disponible := caja.Disponible(v.Items[pid-1])

			siguiente, err := caja.AplicarDevolucion(v, []model.LineaDevolucion{{ProductoID: pid, Cantidad: q}})
			switch {
			case caja.DevueltaCompleta(v):
				assert.ErrorIs(t, err, caja.ErrVentaDevuelta)
			case q > disponible:
				assert.ErrorIs(t, err, caja.ErrCantidadExcedida)
			default:
				require.NoError(t, err)
				v = siguiente
			}
			for _, it := range v.Items {
				assert.LessOrEqual(t, it.CantidadDevuelta, it.Cantidad)
			}
		}
	}
}

func TestCambio_ConDiferencia(t *testing.T) {
	v := ventaConLinea(7, 2, 0, 5000)
	devueltos := []model.LineaDevolucion{{ProductoID: 7, Cantidad: 2}}
	entregados := []model.ItemEntregado{{ProductoID: 9, Cantidad: 1, Precio: d(12000)}}

	_, err := caja.PrevisualizarCambio(&v, devueltos, entregados, nil)
	assert.ErrorIs(t, err, caja.ErrFaltaMetodoPago)

	p, err := caja.PrevisualizarCambio(&v, devueltos, entregados, metodo(model.PagoEfectivo))
	require.NoError(t, err)
	assert.Equal(t, "10000", p.Devolucion.Total.String())
	assert.Equal(t, "12000", p.TotalEntregado.String())
	assert.Equal(t, "2000", p.Diferencia.String())
	assert.True(t, p.RequierePago)
	require.NotNil(t, p.MetodoPago)
	assert.Equal(t, model.PagoEfectivo, *p.MetodoPago)
	assert.True(t, p.Estimado)
}

func TestCambio_SinDiferencia(t *testing.T) {
	v := ventaConLinea(7, 1, 0, 8000)
	devueltos := []model.LineaDevolucion{{ProductoID: 7, Cantidad: 1}}
	entregados := []model.ItemEntregado{{ProductoID: 3, Cantidad: 1, Precio: d(8000)}}

	p, err := caja.PrevisualizarCambio(&v, devueltos, entregados, nil)
	require.NoError(t, err)
	assert.True(t, p.Diferencia.IsZero())
	assert.False(t, p.RequierePago)
	assert.Nil(t, p.MetodoPago)

	// A method supplied for a zero differential is dropped.
	p, err = caja.PrevisualizarCambio(&v, devueltos, entregados, metodo(model.PagoDebito))
	require.NoError(t, err)
	assert.Nil(t, p.MetodoPago)
}

// Delivered below returned never reaches the backend.
func TestCambio_EntregaMenorRechazada(t *testing.T) {
	v := ventaConLinea(7, 2, 0, 5000)

	_, err := caja.PrevisualizarCambio(&v,
		[]model.LineaDevolucion{{ProductoID: 7, Cantidad: 2}},
		[]model.ItemEntregado{{ProductoID: 9, Cantidad: 1, Precio: d(9999)}},
		metodo(model.PagoEfectivo))
	assert.ErrorIs(t, err, caja.ErrEntregaMenor)
}

func TestCambio_Rechazos(t *testing.T) {
	v := ventaConLinea(7, 2, 0, 5000)
	devueltos := []model.LineaDevolucion{{ProductoID: 7, Cantidad: 1}}

	_, err := caja.PrevisualizarCambio(&v, devueltos, nil, nil)
	assert.ErrorIs(t, err, caja.ErrSinItemsEntrega)

	_, err = caja.PrevisualizarCambio(&v, devueltos, []model.ItemEntregado{{ProductoID: 9, Cantidad: 0, Precio: d(100)}}, nil)
	assert.ErrorIs(t, err, caja.ErrSinItemsEntrega)

	_, err = caja.PrevisualizarCambio(&v, nil, []model.ItemEntregado{{ProductoID: 9, Cantidad: 1, Precio: d(6000)}}, nil)
	assert.ErrorIs(t, err, caja.ErrSinItemsDevolucion)

	_, err = caja.PrevisualizarCambio(&v, devueltos, []model.ItemEntregado{{ProductoID: 9, Cantidad: 1, Precio: d(6000)}}, metodo("CHEQUE"))
	assert.ErrorIs(t, err, caja.ErrMetodoPago)

	_, err = caja.PrevisualizarCambio(&v, devueltos, []model.ItemEntregado{{ProductoID: 9, Cantidad: 1, Precio: d(-1)}}, nil)
	assert.ErrorIs(t, err, caja.ErrPrecioInvalido)
}
