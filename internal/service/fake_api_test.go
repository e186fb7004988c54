package service_test

import (
	"context"
	"fmt"
	"sync"

	"botilleria/internal/apierror"
	"botilleria/internal/dto"
	"botilleria/internal/model"

	"github.com/shopspring/decimal"
)

// ── In-memory backend stub ────────────────────────────────────────────────────

type fakeAPI struct {
	mu sync.Mutex

	sesion      *dto.SesionCajaResponse
	movimientos []dto.MovimientoResponse
	ventas      map[int64]*dto.VentaResponse
	historial   []dto.SesionCajaResponse
	productos   map[string]*dto.ProductoResponse

	// errs forces a method to fail, keyed by method name.
	errs map[string]error
	// fallaTras makes a method fail once it has been called more than n times.
	fallaTras map[string]int
	// sinDetalle hides the entry stream: DetalleCaja returns the session only.
	sinDetalle bool

	calls          []string
	ultimoCierre   *dto.CerrarCajaRequest
	ultimoCambio   *dto.CambioRequest
	ultimaDevol    *dto.DevolucionRequest
	ultimaVenta    *dto.CrearVentaRequest
	ultimoMov      *dto.MovimientoRequest
	onlineTerminal string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		ventas:    make(map[int64]*dto.VentaResponse),
		productos: make(map[string]*dto.ProductoResponse),
		errs:      make(map[string]error),
		fallaTras: make(map[string]int),
	}
}

func (f *fakeAPI) record(name string) error {
	f.calls = append(f.calls, name)
	if n, ok := f.fallaTras[name]; ok {
		veces := 0
		for _, c := range f.calls {
			if c == name {
				veces++
			}
		}
		if veces > n {
			return apierror.Transitorio(fmt.Errorf("%s: connection reset", name))
		}
	}
	return f.errs[name]
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) EstadoCaja(_ context.Context, _ string) (*dto.SesionCajaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("EstadoCaja"); err != nil {
		return nil, err
	}
	if f.sesion == nil || f.sesion.Estado != string(model.SesionAbierta) {
		return nil, nil
	}
	s := *f.sesion
	return &s, nil
}

func (f *fakeAPI) DetalleCaja(_ context.Context, _ string, id int64) (*dto.SesionDetalleResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DetalleCaja"); err != nil {
		return nil, err
	}
	if f.sesion == nil || f.sesion.ID != id {
		return nil, apierror.NoEncontrado("caja no encontrada")
	}
	out := &dto.SesionDetalleResponse{Sesion: *f.sesion}
	if f.sinDetalle {
		return out, nil
	}
	out.Movimientos = append(out.Movimientos, f.movimientos...)
	for _, v := range f.ventas {
		if v.CajaID == id {
			out.Ventas = append(out.Ventas, *v)
		}
	}
	return out, nil
}

func (f *fakeAPI) AbrirCaja(_ context.Context, _ string, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AbrirCaja"); err != nil {
		return nil, err
	}
	f.sesion = &dto.SesionCajaResponse{
		ID:              1,
		FechaApertura:   "2026-10-18T09:00:00Z",
		InicialLocal:    req.InicialLocal,
		InicialVecina:   req.InicialVecina,
		Estado:          string(model.SesionAbierta),
		UsuarioApertura: "Ana",
	}
	s := *f.sesion
	return &s, nil
}

func (f *fakeAPI) RegistrarMovimiento(_ context.Context, _ string, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RegistrarMovimiento"); err != nil {
		return nil, err
	}
	f.ultimoMov = &req
	m := dto.MovimientoResponse{
		ID:        int64(len(f.movimientos) + 1),
		CajaID:    f.sesion.ID,
		Tipo:      req.Tipo,
		Categoria: req.Categoria,
		Monto:     req.Monto,
		Fecha:     "2026-10-18T10:00:00Z",
	}
	f.movimientos = append(f.movimientos, m)
	switch model.TipoMovimiento(req.Tipo) {
	case model.MovimientoIngreso:
		f.sesion.TotalIngresos = f.sesion.TotalIngresos.Add(req.Monto)
	case model.MovimientoEgreso:
		f.sesion.TotalEgresos = f.sesion.TotalEgresos.Add(req.Monto)
	case model.MovimientoVecina:
		f.sesion.TotalVecina = f.sesion.TotalVecina.Add(req.Monto)
	}
	return &m, nil
}

// CerrarCaja flips the session to CERRADA without echoing a snapshot, as
// older backends do.
func (f *fakeAPI) CerrarCaja(_ context.Context, _ string, req dto.CerrarCajaRequest) (*dto.SesionCajaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CerrarCaja"); err != nil {
		return nil, err
	}
	f.ultimoCierre = &req
	f.sesion.Estado = string(model.SesionCerrada)
	s := *f.sesion
	return &s, nil
}

func (f *fakeAPI) HistorialCaja(_ context.Context, _ string) ([]dto.SesionCajaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("HistorialCaja"); err != nil {
		return nil, err
	}
	return append([]dto.SesionCajaResponse(nil), f.historial...), nil
}

func (f *fakeAPI) DetalleVenta(_ context.Context, _ string, id int64) (*dto.VentaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DetalleVenta"); err != nil {
		return nil, err
	}
	v, ok := f.ventas[id]
	if !ok {
		return nil, apierror.NoEncontrado("Venta no encontrada")
	}
	out := *v
	out.Items = append([]dto.ItemVentaResponse(nil), v.Items...)
	return &out, nil
}

func (f *fakeAPI) CrearVenta(_ context.Context, _ string, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CrearVenta"); err != nil {
		return nil, err
	}
	f.ultimaVenta = &req
	v := &dto.VentaResponse{ID: int64(len(f.ventas) + 1), CajaID: f.sesion.ID, TipoVenta: req.TipoVenta, Estado: "ACTIVA", Pagos: req.Pagos}
	for _, it := range req.Items {
		sub := it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		v.TotalGeneral = v.TotalGeneral.Add(sub)
		v.Items = append(v.Items, dto.ItemVentaResponse{ProductoID: it.ProductoID, Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
	}
	f.ventas[v.ID] = v
	out := *v
	return &out, nil
}

func (f *fakeAPI) devolver(v *dto.VentaResponse, lineas []dto.LineaDevolucionDTO) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lineas {
		resta := l.Cantidad
		for i := range v.Items {
			it := &v.Items[i]
			if it.ProductoID != l.ProductoID || resta == 0 {
				continue
			}
			n := min(resta, it.Cantidad-it.CantidadDevuelta)
			it.CantidadDevuelta += n
			resta -= n
			total = total.Add(it.PrecioUnitario.Mul(decimal.NewFromInt(int64(n))))
		}
	}
	return total
}

func (f *fakeAPI) Devolucion(_ context.Context, _ string, ventaID int64, req dto.DevolucionRequest) (*dto.DevolucionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Devolucion"); err != nil {
		return nil, err
	}
	f.ultimaDevol = &req
	v, ok := f.ventas[ventaID]
	if !ok {
		return nil, apierror.NoEncontrado("Venta no encontrada")
	}
	monto := f.devolver(v, req.Items)
	return &dto.DevolucionResponse{ID: 1, VentaID: ventaID, Items: req.Items, MetodoPago: req.MetodoPago, Motivo: req.Motivo, Monto: monto}, nil
}

func (f *fakeAPI) Cambio(_ context.Context, _ string, ventaID int64, req dto.CambioRequest) (*dto.CambioResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Cambio"); err != nil {
		return nil, err
	}
	f.ultimoCambio = &req
	v, ok := f.ventas[ventaID]
	if !ok {
		return nil, apierror.NoEncontrado("Venta no encontrada")
	}
	devuelto := f.devolver(v, req.Devueltos)
	entregado := decimal.Zero
	for _, it := range req.Entregados {
		entregado = entregado.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return &dto.CambioResponse{
		ID: 1, VentaID: ventaID, Devueltos: req.Devueltos, Entregados: req.Entregados,
		MetodoPagoDiferencia: req.MetodoPagoDiferencia, Motivo: req.Motivo,
		TotalDevuelto: devuelto, TotalEntregado: entregado, Diferencia: entregado.Sub(devuelto),
	}, nil
}

func (f *fakeAPI) ProductoPorCodigo(_ context.Context, _ string, codigo string) (*dto.ProductoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ProductoPorCodigo"); err != nil {
		return nil, err
	}
	p, ok := f.productos[codigo]
	if !ok {
		return nil, apierror.NoEncontrado(fmt.Sprintf("Producto %s no encontrado", codigo))
	}
	return p, nil
}

func (f *fakeAPI) Online(_ context.Context, _ string, terminal string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Online"); err != nil {
		return err
	}
	f.onlineTerminal = terminal
	return nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func operador() model.Operador {
	return model.Operador{UsuarioID: "7", Nombre: "Ana", Rol: "cajero", Token: "tok", Terminal: "caja-1"}
}

// conTurnoTipico loads an open session with floats 50000/20000, one taxable
// cash sale of 10000 and one EGRESO of 2000, totals consistent with the stream.
func conTurnoTipico(f *fakeAPI) {
	f.sesion = &dto.SesionCajaResponse{
		ID:              12,
		FechaApertura:   "2026-10-18T09:00:00Z",
		InicialLocal:    d(50000),
		InicialVecina:   d(20000),
		TotalEfectivo:   d(10000),
		TotalEgresos:    d(2000),
		TicketsEfectivo: 1,
		Estado:          string(model.SesionAbierta),
		UsuarioApertura: "Ana",
	}
	f.ventas[1] = &dto.VentaResponse{
		ID: 1, CajaID: 12, TipoVenta: "NORMAL", Estado: "ACTIVA",
		TotalGeneral: d(10000), TotalAfecto: d(10000),
		Items: []dto.ItemVentaResponse{{ProductoID: 7, Nombre: "Pisco 35°", Cantidad: 2, PrecioUnitario: d(5000)}},
		Pagos: []dto.PagoDTO{{Metodo: "EFECTIVO", Monto: d(10000)}},
	}
	f.movimientos = []dto.MovimientoResponse{{ID: 1, CajaID: 12, Tipo: "EGRESO", Categoria: "proveedor", Monto: d(2000)}}
}
