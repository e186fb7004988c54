// Package caja holds the cash-register reconciliation rules: folding ledger
// entries into session totals, deriving expected cash, classifying closing
// differences and previewing returns and exchanges.
//
// Every function is pure. The backend stays authoritative; results computed
// here are previews or consistency checks and never replace the figures the
// backend confirms.
package caja

import "errors"

// Validation errors. All of them are user-correctable and are raised before
// any request reaches the backend.
var (
	ErrSinSesionAbierta      = errors.New("no hay caja abierta")
	ErrCajaYaAbierta         = errors.New("ya existe una caja abierta")
	ErrInicialNegativo       = errors.New("los montos iniciales no pueden ser negativos")
	ErrSesionCerrada         = errors.New("la caja ya está cerrada")
	ErrConteoLocalRequerido  = errors.New("debe ingresar el efectivo contado en caja")
	ErrConteoVecinaRequerido = errors.New("debe ingresar el saldo contado de caja vecina")
	ErrConteoNegativo        = errors.New("los montos contados no pueden ser negativos")

	ErrTipoMovimiento  = errors.New("tipo de movimiento inválido")
	ErrMontoMovimiento = errors.New("el monto del movimiento debe ser mayor a 0")
	ErrMontoVecina     = errors.New("el movimiento de caja vecina no puede ser 0")

	ErrVentaNoEncontrada  = errors.New("venta no encontrada")
	ErrVentaAnulada       = errors.New("la venta está anulada")
	ErrVentaDevuelta      = errors.New("la venta ya fue devuelta completamente")
	ErrSinItemsDevolucion = errors.New("seleccione al menos un producto con cantidad mayor a 0")
	ErrSinItemsEntrega    = errors.New("seleccione al menos un producto a entregar")
	ErrCantidadInvalida   = errors.New("cantidad inválida")
	ErrCantidadExcedida   = errors.New("la cantidad a devolver supera lo disponible")
	ErrProductoNoVendido  = errors.New("el producto no pertenece a la venta")
	ErrPrecioInvalido     = errors.New("precio inválido")
	ErrEntregaMenor       = errors.New("el total entregado no puede ser menor al total devuelto")
	ErrFaltaMetodoPago    = errors.New("seleccione el método de pago de la diferencia")
	ErrMetodoPago         = errors.New("método de pago inválido")

	ErrCarroVacio      = errors.New("agregue al menos un producto")
	ErrSinPagos        = errors.New("agregue al menos un pago")
	ErrMontoPago       = errors.New("el monto de cada pago debe ser mayor a 0")
	ErrBoletaDuplicada = errors.New("la venta ya tiene una boleta de ese tipo")
)
