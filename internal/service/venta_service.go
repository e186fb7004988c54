package service

import (
	"context"

	"botilleria/internal/apierror"
	"botilleria/internal/caja"
	"botilleria/internal/dto"
	"botilleria/internal/model"
	"botilleria/internal/repository"

	"github.com/rs/zerolog/log"
)

type VentaService interface {
	Detalle(ctx context.Context, op model.Operador, id int64) (*dto.VentaResponse, error)
	Previsualizar(ctx context.Context, req dto.CrearVentaRequest) (*dto.PreviewVentaResponse, error)
	Crear(ctx context.Context, op model.Operador, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	PrevisualizarDevolucion(ctx context.Context, op model.Operador, ventaID int64, req dto.DevolucionRequest) (*dto.PreviewDevolucionResponse, error)
	Devolucion(ctx context.Context, op model.Operador, ventaID int64, req dto.DevolucionRequest) (*dto.DevolucionResultado, error)
	PrevisualizarCambio(ctx context.Context, op model.Operador, ventaID int64, req dto.CambioRequest) (*dto.PreviewCambioResponse, error)
	Cambio(ctx context.Context, op model.Operador, ventaID int64, req dto.CambioRequest) (*dto.CambioResultado, error)
	ProductoPorCodigo(ctx context.Context, op model.Operador, codigo string) (*dto.ProductoResponse, error)
}

type ventaService struct {
	api       API
	productos repository.ProductoCache
}

// NewVentaService wires sales, returns and exchanges. productos is optional.
func NewVentaService(api API, productos repository.ProductoCache) VentaService {
	return &ventaService{api: api, productos: productos}
}

func (s *ventaService) Detalle(ctx context.Context, op model.Operador, id int64) (*dto.VentaResponse, error) {
	v, err := s.api.DetalleVenta(ctx, op.Token, id)
	if err != nil {
		return nil, err
	}
	return conFolios(v), nil
}

func (s *ventaService) ProductoPorCodigo(ctx context.Context, op model.Operador, codigo string) (*dto.ProductoResponse, error) {
	if s.productos != nil {
		if p, ok := s.productos.Obtener(ctx, codigo); ok {
			return productoToDTO(*p), nil
		}
	}
	resp, err := s.api.ProductoPorCodigo(ctx, op.Token, codigo)
	if err != nil {
		return nil, err
	}
	if s.productos != nil {
		s.productos.Guardar(ctx, productoDesdeDTO(*resp))
	}
	return resp, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

func carroDesdeDTO(req dto.CrearVentaRequest) ([]caja.ItemCarro, []model.Pago) {
	items := make([]caja.ItemCarro, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, caja.ItemCarro{
			ProductoID:     it.ProductoID,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Exento:         it.Exento,
		})
	}
	return items, pagosDesdeDTO(req.Pagos)
}

func (s *ventaService) Previsualizar(_ context.Context, req dto.CrearVentaRequest) (*dto.PreviewVentaResponse, error) {
	items, pagos := carroDesdeDTO(req)
	p, err := caja.PrevisualizarVenta(items, pagos)
	if err != nil {
		return nil, apierror.Validacion(err)
	}
	return &dto.PreviewVentaResponse{
		TotalGeneral:      p.TotalGeneral,
		TotalAfecto:       p.TotalAfecto,
		TotalExento:       p.TotalExento,
		TotalPagado:       p.TotalPagado,
		PorcionEfectivo:   p.PorcionEfectivo,
		PorcionNoEfectivo: p.PorcionNoEfectivo,
		Vuelto:            p.Vuelto,
		Faltante:          p.Faltante,
		Cubierta:          p.Cubierta,
	}, nil
}

// Crear submits a sale against the open session. Totals and payment coverage
// are enforced by the backend; locally only the cart shape is checked.
func (s *ventaService) Crear(ctx context.Context, op model.Operador, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	if _, err := s.Previsualizar(ctx, req); err != nil {
		return nil, err
	}
	if err := s.requiereCajaAbierta(ctx, op); err != nil {
		return nil, err
	}
	if req.TipoVenta == "" {
		req.TipoVenta = string(model.VentaNormal)
	}

	creada, err := s.api.CrearVenta(ctx, op.Token, req)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("venta_id", creada.ID).Str("total", creada.TotalGeneral.String()).Str("usuario", op.Nombre).Msg("venta registrada")
	return s.releerVenta(ctx, op, creada.ID, *creada), nil
}

func (s *ventaService) requiereCajaAbierta(ctx context.Context, op model.Operador) error {
	ses, err := s.api.EstadoCaja(ctx, op.Token)
	if err != nil {
		return err
	}
	if ses == nil || ses.Estado == string(model.SesionCerrada) {
		return apierror.Validacion(caja.ErrSinSesionAbierta)
	}
	return nil
}

// releerVenta re-reads a sale after a mutation. When the re-read fails the
// fallback is returned and the next refresh catches up.
func (s *ventaService) releerVenta(ctx context.Context, op model.Operador, id int64, fallback dto.VentaResponse) *dto.VentaResponse {
	v, err := s.api.DetalleVenta(ctx, op.Token, id)
	if err != nil {
		log.Warn().Err(err).Int64("venta_id", id).Msg("venta: no se pudo releer tras la operación")
		return conFolios(&fallback)
	}
	return conFolios(v)
}

// ── Devoluciones ──────────────────────────────────────────────────────────────

func (s *ventaService) venta(ctx context.Context, op model.Operador, id int64) (*dto.VentaResponse, *model.Venta, error) {
	v, err := s.api.DetalleVenta(ctx, op.Token, id)
	if err != nil {
		return nil, nil, err
	}
	m := ventaDesdeDTO(*v)
	return v, &m, nil
}

func previewDevolucionToDTO(p caja.PreviewDevolucion) dto.PreviewDevolucionResponse {
	out := dto.PreviewDevolucionResponse{
		Lineas:      make([]dto.LineaPreviewResponse, 0, len(p.Lineas)),
		Total:       p.Total,
		TotalExento: p.TotalExento,
		Estimado:    p.Estimado,
	}
	for _, l := range p.Lineas {
		out.Lineas = append(out.Lineas, dto.LineaPreviewResponse{
			ProductoID:     l.ProductoID,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Exento:         l.Exento,
			Subtotal:       l.Subtotal,
		})
	}
	return out
}

// seleccionadas drops the lines left at quantity 0 by the return screen.
func seleccionadas(items []dto.LineaDevolucionDTO) []dto.LineaDevolucionDTO {
	out := make([]dto.LineaDevolucionDTO, 0, len(items))
	for _, it := range items {
		if it.Cantidad > 0 {
			out = append(out, it)
		}
	}
	return out
}

func (s *ventaService) PrevisualizarDevolucion(ctx context.Context, op model.Operador, ventaID int64, req dto.DevolucionRequest) (*dto.PreviewDevolucionResponse, error) {
	_, v, err := s.venta(ctx, op, ventaID)
	if err != nil {
		return nil, err
	}
	p, err := caja.PrevisualizarDevolucion(v, lineasDesdeDTO(req.Items))
	if err != nil {
		return nil, apierror.Validacion(err)
	}
	out := previewDevolucionToDTO(p)
	return &out, nil
}

// Devolucion validates the return against the sale as the backend last
// served it, submits it, and re-reads the sale.
func (s *ventaService) Devolucion(ctx context.Context, op model.Operador, ventaID int64, req dto.DevolucionRequest) (*dto.DevolucionResultado, error) {
	if !model.MetodoPago(req.MetodoPago).Valido() {
		return nil, apierror.Validacion(caja.ErrMetodoPago)
	}
	actual, v, err := s.venta(ctx, op, ventaID)
	if err != nil {
		return nil, err
	}
	lineas := lineasDesdeDTO(req.Items)
	if _, err := caja.PrevisualizarDevolucion(v, lineas); err != nil {
		return nil, apierror.Validacion(err)
	}

	req.Items = seleccionadas(req.Items)
	dev, err := s.api.Devolucion(ctx, op.Token, ventaID, req)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("venta_id", ventaID).Str("monto", dev.Monto.String()).Str("metodo", req.MetodoPago).Msg("devolución registrada")

	return &dto.DevolucionResultado{
		Devolucion: *dev,
		Venta:      *s.releerVenta(ctx, op, ventaID, aplicarDevueltos(*actual, *v, lineas)),
	}, nil
}

// aplicarDevueltos is the local stand-in for a sale whose re-read failed.
func aplicarDevueltos(actual dto.VentaResponse, v model.Venta, lineas []model.LineaDevolucion) dto.VentaResponse {
	aplicada, err := caja.AplicarDevolucion(v, lineas)
	if err != nil {
		return actual
	}
	items := make([]dto.ItemVentaResponse, len(actual.Items))
	copy(items, actual.Items)
	for i := range items {
		items[i].CantidadDevuelta = aplicada.Items[i].CantidadDevuelta
	}
	actual.Items = items
	return actual
}

// ── Cambios ───────────────────────────────────────────────────────────────────

func metodoDiferencia(m *string) *model.MetodoPago {
	if m == nil || *m == "" {
		return nil
	}
	mp := model.MetodoPago(*m)
	return &mp
}

func previewCambioToDTO(p caja.PreviewCambio) dto.PreviewCambioResponse {
	out := dto.PreviewCambioResponse{
		Devolucion:     previewDevolucionToDTO(p.Devolucion),
		Entregados:     make([]dto.ItemEntregadoDTO, 0, len(p.Entregados)),
		TotalEntregado: p.TotalEntregado,
		Diferencia:     p.Diferencia,
		RequierePago:   p.RequierePago,
		Estimado:       p.Estimado,
	}
	for _, it := range p.Entregados {
		out.Entregados = append(out.Entregados, dto.ItemEntregadoDTO{
			ProductoID: it.ProductoID,
			Nombre:     it.Nombre,
			Cantidad:   it.Cantidad,
			Precio:     it.Precio,
		})
	}
	if p.MetodoPago != nil {
		m := string(*p.MetodoPago)
		out.MetodoPagoDiferencia = &m
	}
	return out
}

func (s *ventaService) previsualizarCambio(v *model.Venta, req dto.CambioRequest) (caja.PreviewCambio, error) {
	p, err := caja.PrevisualizarCambio(v, lineasDesdeDTO(req.Devueltos), entregadosDesdeDTO(req.Entregados), metodoDiferencia(req.MetodoPagoDiferencia))
	if err != nil {
		return caja.PreviewCambio{}, apierror.Validacion(err)
	}
	return p, nil
}

func (s *ventaService) PrevisualizarCambio(ctx context.Context, op model.Operador, ventaID int64, req dto.CambioRequest) (*dto.PreviewCambioResponse, error) {
	_, v, err := s.venta(ctx, op, ventaID)
	if err != nil {
		return nil, err
	}
	p, err := s.previsualizarCambio(v, req)
	if err != nil {
		return nil, err
	}
	out := previewCambioToDTO(p)
	return &out, nil
}

// Cambio submits an exchange. The differential method is taken from the
// preview, so it is omitted from the request whenever nothing is owed.
func (s *ventaService) Cambio(ctx context.Context, op model.Operador, ventaID int64, req dto.CambioRequest) (*dto.CambioResultado, error) {
	actual, v, err := s.venta(ctx, op, ventaID)
	if err != nil {
		return nil, err
	}
	p, err := s.previsualizarCambio(v, req)
	if err != nil {
		return nil, err
	}

	envio := previewCambioToDTO(p)
	req.Devueltos = seleccionadas(req.Devueltos)
	req.Entregados = envio.Entregados
	req.MetodoPagoDiferencia = envio.MetodoPagoDiferencia

	c, err := s.api.Cambio(ctx, op.Token, ventaID, req)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("venta_id", ventaID).Str("diferencia", c.Diferencia.String()).Msg("cambio registrado")

	return &dto.CambioResultado{
		Cambio: *c,
		Venta:  *s.releerVenta(ctx, op, ventaID, aplicarDevueltos(*actual, *v, lineasDesdeDTO(req.Devueltos))),
	}, nil
}
