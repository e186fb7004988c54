package service

// mapeo.go: translation between the backend wire format and the domain model.

import (
	"time"

	"botilleria/internal/caja"
	"botilleria/internal/dto"
	"botilleria/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// parseFecha accepts RFC 3339 and the backend's "2006-01-02 15:04:05" form.
func parseFecha(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func fechaPtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseFecha(*s)
	return &t
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func sesionDesdeDTO(s dto.SesionCajaResponse) model.SesionCaja {
	out := model.SesionCaja{
		ID:            s.ID,
		AbiertaEn:     parseFecha(s.FechaApertura),
		CerradaEn:     fechaPtr(s.FechaCierre),
		InicialLocal:  s.InicialLocal,
		InicialVecina: s.InicialVecina,
		Totales: model.TotalesCaja{
			EfectivoYGiros:    s.TotalEfectivo,
			Debito:            s.TotalDebito,
			Credito:           s.TotalCredito,
			Transferencia:     s.TotalTransfer,
			Exento:            s.TotalExento,
			ExentoEfectivo:    s.ExentoEfectivo,
			Ingresos:          s.TotalIngresos,
			Egresos:           s.TotalEgresos,
			MovimientosVecina: s.TotalVecina,
			Internas:          s.TotalInternas,
			Tickets: model.TicketsCaja{
				Efectivo:      s.TicketsEfectivo,
				GiroVecina:    s.TicketsGiro,
				Debito:        s.TicketsDebito,
				Credito:       s.TicketsCredito,
				Transferencia: s.TicketsTransfer,
				Internas:      s.TicketsInternas,
			},
		},
		Estado:     model.EstadoSesion(s.Estado),
		AbiertaPor: s.UsuarioApertura,
		CerradaPor: s.UsuarioCierre,
	}
	if out.Estado == "" {
		out.Estado = model.SesionAbierta
	}
	// A closed session carries its snapshot; the expected figures are the
	// backend's and are never recomputed.
	if out.Estado == model.SesionCerrada && s.EsperadoLocal != nil {
		out.Cierre = &model.CierreCaja{
			ContadoLocal:     orZero(s.TotalRealLocal),
			ContadoVecina:    orZero(s.TotalRealVecina),
			EsperadoLocal:    *s.EsperadoLocal,
			EsperadoVecina:   orZero(s.EsperadoVecina),
			DiferenciaLocal:  orZero(s.DiferenciaLocal),
			DiferenciaVecina: orZero(s.DiferenciaVecina),
		}
	}
	return out
}

func pagosDesdeDTO(pagos []dto.PagoDTO) []model.Pago {
	out := make([]model.Pago, 0, len(pagos))
	for _, p := range pagos {
		out = append(out, model.Pago{Metodo: model.MetodoPago(p.Metodo), Monto: p.Monto})
	}
	return out
}

func ventaDesdeDTO(v dto.VentaResponse) model.Venta {
	out := model.Venta{
		ID:             v.ID,
		SesionID:       v.CajaID,
		Tipo:           model.TipoVenta(v.TipoVenta),
		TotalGeneral:   v.TotalGeneral,
		TotalAfecto:    v.TotalAfecto,
		TotalExento:    v.TotalExento,
		ExentoEfectivo: v.ExentoEfectivo,
		Estado:         model.EstadoVenta(v.Estado),
		Pagos:          pagosDesdeDTO(v.Pagos),
		CreadaEn:       parseFecha(v.Fecha),
	}
	if out.Tipo == "" {
		out.Tipo = model.VentaNormal
	}
	if out.Estado == "" {
		out.Estado = model.VentaActiva
	}
	for _, it := range v.Items {
		out.Items = append(out.Items, model.VentaItem{
			ProductoID:       it.ProductoID,
			Nombre:           it.Nombre,
			Cantidad:         it.Cantidad,
			CantidadDevuelta: it.CantidadDevuelta,
			PrecioUnitario:   it.PrecioUnitario,
			Exento:           it.Exento,
		})
	}
	out.Boletas = boletasDesdeDTO(v.ID, v.Boletas)
	return out
}

// boletasDesdeDTO keeps the first receipt of each kind and drops repeats.
func boletasDesdeDTO(ventaID int64, bs []dto.BoletaResponse) []model.Boleta {
	var out []model.Boleta
	for _, b := range bs {
		nueva := model.Boleta{
			VentaID:   ventaID,
			Tipo:      model.TipoBoleta(b.Tipo),
			Folio:     b.Folio,
			EmitidaEn: fechaPtr(b.FechaEmision),
		}
		if err := caja.ValidarBoleta(out, nueva); err != nil {
			log.Warn().Err(err).Int64("venta_id", ventaID).Str("tipo", b.Tipo).Msg("boleta repetida ignorada")
			continue
		}
		out = append(out, nueva)
	}
	return out
}

// conFolios sets the folio flags of a sale as read from the backend.
func conFolios(v *dto.VentaResponse) *dto.VentaResponse {
	boletas := boletasDesdeDTO(v.ID, v.Boletas)
	v.FolioAfectaAsignado = caja.FolioAsignado(boletas, model.BoletaAfecta)
	v.FolioExentaAsignado = caja.FolioAsignado(boletas, model.BoletaExenta)
	return v
}

func movimientoDesdeDTO(m dto.MovimientoResponse) model.MovimientoCaja {
	return model.MovimientoCaja{
		ID:          m.ID,
		SesionID:    m.CajaID,
		Tipo:        model.TipoMovimiento(m.Tipo),
		Categoria:   m.Categoria,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		CreadoEn:    parseFecha(m.Fecha),
	}
}

func lineasDesdeDTO(items []dto.LineaDevolucionDTO) []model.LineaDevolucion {
	out := make([]model.LineaDevolucion, 0, len(items))
	for _, it := range items {
		out = append(out, model.LineaDevolucion{ProductoID: it.ProductoID, Cantidad: it.Cantidad})
	}
	return out
}

func entregadosDesdeDTO(items []dto.ItemEntregadoDTO) []model.ItemEntregado {
	out := make([]model.ItemEntregado, 0, len(items))
	for _, it := range items {
		out = append(out, model.ItemEntregado{ProductoID: it.ProductoID, Nombre: it.Nombre, Cantidad: it.Cantidad, Precio: it.Precio})
	}
	return out
}

func devolucionDesdeDTO(d dto.DevolucionResponse) model.Devolucion {
	return model.Devolucion{
		ID:          d.ID,
		VentaID:     d.VentaID,
		Lineas:      lineasDesdeDTO(d.Items),
		MetodoPago:  model.MetodoPago(d.MetodoPago),
		Motivo:      d.Motivo,
		Monto:       d.Monto,
		MontoExento: d.MontoExento,
		CreadaEn:    parseFecha(d.Fecha),
	}
}

func cambioDesdeDTO(c dto.CambioResponse) model.Cambio {
	out := model.Cambio{
		ID:             c.ID,
		VentaID:        c.VentaID,
		Devueltos:      lineasDesdeDTO(c.Devueltos),
		Entregados:     entregadosDesdeDTO(c.Entregados),
		Motivo:         c.Motivo,
		TotalDevuelto:  c.TotalDevuelto,
		TotalEntregado: c.TotalEntregado,
		Diferencia:     c.Diferencia,
		CreadoEn:       parseFecha(c.Fecha),
	}
	if c.MetodoPagoDiferencia != nil && *c.MetodoPagoDiferencia != "" {
		m := model.MetodoPago(*c.MetodoPagoDiferencia)
		out.MetodoPagoDiferencia = &m
	}
	return out
}

// asientosDesdeDetalle normalizes the entry stream of GET /caja/:id.
func asientosDesdeDetalle(d dto.SesionDetalleResponse) []model.Asiento {
	asientos := make([]model.Asiento, 0, len(d.Ventas)+len(d.Movimientos)+len(d.Devoluciones)+len(d.Cambios))
	for _, v := range d.Ventas {
		asientos = append(asientos, model.AsientoDeVenta(ventaDesdeDTO(v)))
	}
	for _, m := range d.Movimientos {
		asientos = append(asientos, model.AsientoDeMovimiento(movimientoDesdeDTO(m)))
	}
	for _, dv := range d.Devoluciones {
		asientos = append(asientos, model.AsientoDeDevolucion(devolucionDesdeDTO(dv)))
	}
	for _, c := range d.Cambios {
		asientos = append(asientos, model.AsientoDeCambio(cambioDesdeDTO(c)))
	}
	return asientos
}

// totalesIguales compares the money figures that feed the expected cash.
func totalesIguales(a, b model.TotalesCaja) bool {
	return a.EfectivoYGiros.Equal(b.EfectivoYGiros) &&
		a.Debito.Equal(b.Debito) &&
		a.Credito.Equal(b.Credito) &&
		a.Transferencia.Equal(b.Transferencia) &&
		a.Ingresos.Equal(b.Ingresos) &&
		a.Egresos.Equal(b.Egresos) &&
		a.MovimientosVecina.Equal(b.MovimientosVecina)
}

func conciliacionToDTO(c caja.Conciliacion) dto.ConciliacionResponse {
	return dto.ConciliacionResponse{
		EsperadoLocal:       c.EsperadoLocal,
		EsperadoVecina:      c.EsperadoVecina,
		ContadoLocal:        c.ContadoLocal,
		ContadoVecina:       c.ContadoVecina,
		DiferenciaLocal:     c.DiferenciaLocal,
		DiferenciaVecina:    c.DiferenciaVecina,
		ClasificacionLocal:  string(c.ClasificacionLocal),
		ClasificacionVecina: string(c.ClasificacionVecina),
	}
}

func cierreToDTO(c model.CierreCaja) dto.ConciliacionResponse {
	return dto.ConciliacionResponse{
		EsperadoLocal:       c.EsperadoLocal,
		EsperadoVecina:      c.EsperadoVecina,
		ContadoLocal:        c.ContadoLocal,
		ContadoVecina:       c.ContadoVecina,
		DiferenciaLocal:     c.DiferenciaLocal,
		DiferenciaVecina:    c.DiferenciaVecina,
		ClasificacionLocal:  string(caja.Clasificar(c.DiferenciaLocal)),
		ClasificacionVecina: string(caja.Clasificar(c.DiferenciaVecina)),
	}
}

func cierreArchivado(s model.SesionCaja, terminal string) *model.CierreArchivado {
	c := &model.CierreArchivado{
		SesionID:          s.ID,
		Terminal:          terminal,
		AbiertaEn:         s.AbiertaEn,
		AbiertaPor:        s.AbiertaPor,
		InicialLocal:      s.InicialLocal,
		InicialVecina:     s.InicialVecina,
		EfectivoYGiros:    s.Totales.EfectivoYGiros,
		Debito:            s.Totales.Debito,
		Credito:           s.Totales.Credito,
		Transferencia:     s.Totales.Transferencia,
		Exento:            s.Totales.Exento,
		Ingresos:          s.Totales.Ingresos,
		Egresos:           s.Totales.Egresos,
		MovimientosVecina: s.Totales.MovimientosVecina,
	}
	if s.CerradaEn != nil {
		c.CerradaEn = *s.CerradaEn
	}
	if s.CerradaPor != nil {
		c.CerradaPor = *s.CerradaPor
	}
	if s.Cierre != nil {
		c.ContadoLocal = s.Cierre.ContadoLocal
		c.ContadoVecina = s.Cierre.ContadoVecina
		c.EsperadoLocal = s.Cierre.EsperadoLocal
		c.EsperadoVecina = s.Cierre.EsperadoVecina
		c.DiferenciaLocal = s.Cierre.DiferenciaLocal
		c.DiferenciaVecina = s.Cierre.DiferenciaVecina
		c.Clasificacion = string(caja.Clasificar(s.Cierre.DiferenciaLocal))
	}
	return c
}

func cierreArchivadoToDTO(c model.CierreArchivado) dto.CierreArchivadoResponse {
	return dto.CierreArchivadoResponse{
		SesionID:         c.SesionID,
		Terminal:         c.Terminal,
		AbiertaEn:        c.AbiertaEn.Format(time.RFC3339),
		CerradaEn:        c.CerradaEn.Format(time.RFC3339),
		CerradaPor:       c.CerradaPor,
		EsperadoLocal:    c.EsperadoLocal,
		EsperadoVecina:   c.EsperadoVecina,
		DiferenciaLocal:  c.DiferenciaLocal,
		DiferenciaVecina: c.DiferenciaVecina,
		Clasificacion:    c.Clasificacion,
		ReporteEnviado:   c.ReporteEnviado,
	}
}

func fechaStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// sesionToDTO renders a session in the backend's own shape, so a locally
// closed snapshot reads exactly like one served by /caja/historial.
func sesionToDTO(s model.SesionCaja) dto.SesionCajaResponse {
	t := s.Totales
	out := dto.SesionCajaResponse{
		ID:              s.ID,
		FechaApertura:   s.AbiertaEn.Format(time.RFC3339),
		FechaCierre:     fechaStr(s.CerradaEn),
		InicialLocal:    s.InicialLocal,
		InicialVecina:   s.InicialVecina,
		TotalEfectivo:   t.EfectivoYGiros,
		TotalDebito:     t.Debito,
		TotalCredito:    t.Credito,
		TotalTransfer:   t.Transferencia,
		TotalExento:     t.Exento,
		ExentoEfectivo:  t.ExentoEfectivo,
		TotalIngresos:   t.Ingresos,
		TotalEgresos:    t.Egresos,
		TotalVecina:     t.MovimientosVecina,
		TotalInternas:   t.Internas,
		TicketsEfectivo: t.Tickets.Efectivo,
		TicketsGiro:     t.Tickets.GiroVecina,
		TicketsDebito:   t.Tickets.Debito,
		TicketsCredito:  t.Tickets.Credito,
		TicketsTransfer: t.Tickets.Transferencia,
		TicketsInternas: t.Tickets.Internas,
		Estado:          string(s.Estado),
		UsuarioApertura: s.AbiertaPor,
		UsuarioCierre:   s.CerradaPor,
	}
	if c := s.Cierre; c != nil {
		out.TotalRealLocal = decPtr(c.ContadoLocal)
		out.TotalRealVecina = decPtr(c.ContadoVecina)
		out.EsperadoLocal = decPtr(c.EsperadoLocal)
		out.EsperadoVecina = decPtr(c.EsperadoVecina)
		out.DiferenciaLocal = decPtr(c.DiferenciaLocal)
		out.DiferenciaVecina = decPtr(c.DiferenciaVecina)
	}
	return out
}

func productoDesdeDTO(r dto.ProductoResponse) model.Producto {
	return model.Producto{ID: r.ID, Codigo: r.Codigo, Nombre: r.Nombre, Precio: r.Precio, Exento: r.Exento, Stock: r.Stock}
}

func productoToDTO(p model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{ID: p.ID, Codigo: p.Codigo, Nombre: p.Nombre, Precio: p.Precio, Exento: p.Exento, Stock: p.Stock}
}
