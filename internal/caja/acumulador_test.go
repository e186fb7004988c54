package caja_test

import (
	"math/rand"
	"testing"

	"botilleria/internal/caja"
	"botilleria/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sesionAbierta(local, vecina int64) model.SesionCaja {
	return model.SesionCaja{
		ID:            1,
		InicialLocal:  d(local),
		InicialVecina: d(vecina),
		Estado:        model.SesionAbierta,
		AbiertaPor:    "cajero",
	}
}

func ventaEfectivo(id, monto int64) model.Venta {
	return model.Venta{
		ID:           id,
		Tipo:         model.VentaNormal,
		TotalGeneral: d(monto),
		TotalAfecto:  d(monto),
		TotalExento:  decimal.Zero,
		Estado:       model.VentaActiva,
		Pagos:        []model.Pago{{Metodo: model.PagoEfectivo, Monto: d(monto)}},
	}
}

func TestSumarVenta_PagoMixto(t *testing.T) {
	v := model.Venta{
		ID:           7,
		Tipo:         model.VentaNormal,
		TotalGeneral: d(15000),
		TotalExento:  d(3000),
		Estado:       model.VentaActiva,
		Pagos: []model.Pago{
			{Metodo: model.PagoEfectivo, Monto: d(5000)},
			{Metodo: model.PagoGiroVecina, Monto: d(2000)},
			{Metodo: model.PagoDebito, Monto: d(8000)},
		},
	}

	tot := caja.SumarVenta(model.TotalesCaja{}, v)

	assert.Equal(t, "7000", tot.EfectivoYGiros.String())
	assert.Equal(t, "8000", tot.Debito.String())
	assert.Equal(t, "0", tot.Credito.String())
	assert.Equal(t, "3000", tot.Exento.String())
	assert.Equal(t, 1, tot.Tickets.Efectivo)
	assert.Equal(t, 1, tot.Tickets.GiroVecina)
	assert.Equal(t, 1, tot.Tickets.Debito)
	assert.Equal(t, 0, tot.Tickets.Credito)
	assert.Equal(t, v.PorcionEfectivo().String(), tot.EfectivoYGiros.String())
	assert.Equal(t, "8000", v.PorcionNoEfectivo().String())
}

func TestSumarVenta_DosPagosMismoMetodoUnTicket(t *testing.T) {
	v := ventaEfectivo(1, 1000)
	v.Pagos = append(v.Pagos, model.Pago{Metodo: model.PagoEfectivo, Monto: d(500)})

	tot := caja.SumarVenta(model.TotalesCaja{}, v)

	assert.Equal(t, "1500", tot.EfectivoYGiros.String())
	assert.Equal(t, 1, tot.Tickets.Efectivo)
}

func TestSumarVenta_AnuladaNoSuma(t *testing.T) {
	v := ventaEfectivo(1, 10000)
	v.Estado = model.VentaAnulada

	tot := caja.SumarVenta(model.TotalesCaja{}, v)

	assert.Equal(t, model.TotalesCaja{}, tot)
}

func TestSumarVenta_CompensacionRevierteVenta(t *testing.T) {
	venta := ventaEfectivo(1, 10000)
	compensacion := ventaEfectivo(2, -10000)

	tot := caja.SumarVenta(caja.SumarVenta(model.TotalesCaja{}, venta), compensacion)

	assert.True(t, tot.EfectivoYGiros.IsZero())
	assert.Equal(t, 0, tot.Tickets.Efectivo)
}

func TestSumarVenta_Interna(t *testing.T) {
	v := ventaEfectivo(1, 4000)
	v.Tipo = model.VentaInterna

	tot := caja.SumarVenta(model.TotalesCaja{}, v)

	assert.Equal(t, "4000", tot.EfectivoYGiros.String())
	assert.Equal(t, "4000", tot.Internas.String())
	assert.Equal(t, 1, tot.Tickets.Internas)
}

func TestSumarMovimiento(t *testing.T) {
	tot := model.TotalesCaja{}
	tot = caja.SumarMovimiento(tot, model.MovimientoCaja{Tipo: model.MovimientoIngreso, Monto: d(1500)})
	tot = caja.SumarMovimiento(tot, model.MovimientoCaja{Tipo: model.MovimientoEgreso, Monto: d(700)})
	tot = caja.SumarMovimiento(tot, model.MovimientoCaja{Tipo: model.MovimientoVecina, Monto: d(5000)})
	tot = caja.SumarMovimiento(tot, model.MovimientoCaja{Tipo: model.MovimientoVecina, Monto: d(-8000)})

	assert.Equal(t, "1500", tot.Ingresos.String())
	assert.Equal(t, "700", tot.Egresos.String())
	assert.Equal(t, "-3000", tot.MovimientosVecina.String())
	assert.True(t, tot.EfectivoYGiros.IsZero())
}

func TestSumarDevolucionYCambio(t *testing.T) {
	tot := caja.SumarVenta(model.TotalesCaja{}, ventaEfectivo(1, 10000))

	tot = caja.SumarDevolucion(tot, model.Devolucion{
		VentaID:    1,
		MetodoPago: model.PagoEfectivo,
		Monto:      d(5000),
	})
	assert.Equal(t, "5000", tot.EfectivoYGiros.String())

	metodo := model.PagoCredito
	tot = caja.SumarCambio(tot, model.Cambio{
		VentaID:              1,
		Diferencia:           d(2000),
		MetodoPagoDiferencia: &metodo,
	})
	assert.Equal(t, "2000", tot.Credito.String())
	// Neither a refund nor an exchange is a new ticket.
	assert.Equal(t, 1, tot.Tickets.Efectivo)
	assert.Equal(t, 0, tot.Tickets.Credito)
}

func TestAcumular_SesionCerradaNoCambia(t *testing.T) {
	s := sesionAbierta(50000, 20000)
	s = caja.Acumular(s, []model.Asiento{model.AsientoDeVenta(ventaEfectivo(1, 10000))})
	c, err := caja.Conciliar(&s, ptr(d(60000)), ptr(d(20000)))
	assert.NoError(t, err)
	cerrada := caja.Cerrar(s, c, "supervisor", s.AbiertaEn)

	refold := caja.Acumular(cerrada, []model.Asiento{
		model.AsientoDeVenta(ventaEfectivo(2, 99999)),
		model.AsientoDeMovimiento(model.MovimientoCaja{Tipo: model.MovimientoEgreso, Monto: d(1)}),
	})

	assert.Equal(t, cerrada, refold)
}

// Expected cash = inicial + Σ efectivo + Σ ingresos − Σ egresos,
// for any ordering of the same entries.
func TestAcumular_ConservacionIndependienteDelOrden(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for ronda := 0; ronda < 200; ronda++ {
		s := sesionAbierta(rng.Int63n(100000), rng.Int63n(50000))
		var asientos []model.Asiento
		efectivo, ingresos, egresos := int64(0), int64(0), int64(0)

		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			monto := rng.Int63n(20000) + 1
			switch rng.Intn(5) {
			case 0:
				efectivo += monto
				asientos = append(asientos, model.AsientoDeVenta(ventaEfectivo(int64(i), monto)))
			case 1:
				v := ventaEfectivo(int64(i), monto)
				v.Pagos = []model.Pago{{Metodo: model.PagoDebito, Monto: d(monto)}}
				asientos = append(asientos, model.AsientoDeVenta(v))
			case 2:
				ingresos += monto
				asientos = append(asientos, model.AsientoDeMovimiento(model.MovimientoCaja{Tipo: model.MovimientoIngreso, Monto: d(monto)}))
			case 3:
				egresos += monto
				asientos = append(asientos, model.AsientoDeMovimiento(model.MovimientoCaja{Tipo: model.MovimientoEgreso, Monto: d(monto)}))
			default:
				asientos = append(asientos, model.AsientoDeMovimiento(model.MovimientoCaja{Tipo: model.MovimientoVecina, Monto: d(monto - 10000)}))
			}
		}

		esperado := s.InicialLocal.Add(d(efectivo)).Add(d(ingresos)).Sub(d(egresos))
		directo := caja.EfectivoEsperado(caja.Acumular(s, asientos))

		rng.Shuffle(len(asientos), func(i, j int) { asientos[i], asientos[j] = asientos[j], asientos[i] })
		barajado := caja.EfectivoEsperado(caja.Acumular(s, asientos))

		assert.True(t, esperado.Equal(directo), "ronda %d: %s != %s", ronda, esperado, directo)
		assert.True(t, directo.Equal(barajado), "ronda %d: el orden cambió el resultado", ronda)
	}
}

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }
