package service

import (
	"context"
	"sort"
	"time"

	"botilleria/internal/apierror"
	"botilleria/internal/caja"
	"botilleria/internal/dto"
	"botilleria/internal/model"
	"botilleria/internal/repository"

	"github.com/rs/zerolog/log"
)

type CajaService interface {
	// Estado returns the open session of the business, or nil when none is open.
	Estado(ctx context.Context, op model.Operador) (*dto.ResumenCaja, error)
	Resumen(ctx context.Context, op model.Operador, id int64) (*dto.ResumenCaja, error)
	Abrir(ctx context.Context, op model.Operador, req dto.AbrirCajaRequest) (*dto.ResumenCaja, error)
	RegistrarMovimiento(ctx context.Context, op model.Operador, req dto.MovimientoRequest) (*dto.ResumenCaja, error)
	PrevisualizarCierre(ctx context.Context, op model.Operador, req dto.CerrarCajaRequest) (*dto.ConciliacionResponse, error)
	Cerrar(ctx context.Context, op model.Operador, req dto.CerrarCajaRequest) (*dto.CierreResponse, error)
	Historial(ctx context.Context, op model.Operador, filter dto.HistorialFilter) (*dto.HistorialCajaResponse, error)
	Cierres(ctx context.Context, filter dto.HistorialFilter) (*dto.CierreListResponse, error)
}

type cajaService struct {
	api      API
	cierres  repository.CierreRepository
	reportes ReportePublisher
	now      func() time.Time
}

// NewCajaService wires the caja orchestration. cierres and reportes are
// optional: without a database nothing is archived, without a publisher no
// closing report is produced.
func NewCajaService(api API, cierres repository.CierreRepository, reportes ReportePublisher) CajaService {
	return &cajaService{api: api, cierres: cierres, reportes: reportes, now: time.Now}
}

// ── Estado / Resumen ──────────────────────────────────────────────────────────

func (s *cajaService) Estado(ctx context.Context, op model.Operador) (*dto.ResumenCaja, error) {
	ses, err := s.api.EstadoCaja(ctx, op.Token)
	if err != nil {
		return nil, err
	}
	if ses == nil {
		return nil, nil
	}
	det, err := s.api.DetalleCaja(ctx, op.Token, ses.ID)
	if err != nil {
		// The backend totals stay authoritative; the fold is only a check.
		log.Warn().Err(err).Int64("sesion_id", ses.ID).Msg("caja: detalle no disponible, se usan los totales del backend")
		det = nil
	}
	return s.armarResumen(*ses, det), nil
}

func (s *cajaService) Resumen(ctx context.Context, op model.Operador, id int64) (*dto.ResumenCaja, error) {
	det, err := s.api.DetalleCaja(ctx, op.Token, id)
	if err != nil {
		return nil, err
	}
	return s.armarResumen(det.Sesion, det), nil
}

// armarResumen derives the dashboard figures from the backend totals. When the
// entry stream is at hand it is re-folded and compared against those totals.
func (s *cajaService) armarResumen(base dto.SesionCajaResponse, det *dto.SesionDetalleResponse) *dto.ResumenCaja {
	sesion := sesionDesdeDTO(base)
	out := &dto.ResumenCaja{Sesion: base, ActualizadoEn: s.now().Format(time.RFC3339)}

	if det != nil {
		out.Movimientos = det.Movimientos
		if sesion.Abierta() {
			plegada := caja.Acumular(sesion, asientosDesdeDetalle(*det))
			if !totalesIguales(plegada.Totales, sesion.Totales) {
				out.Deriva = true
				log.Warn().
					Int64("sesion_id", sesion.ID).
					Str("efectivo_backend", sesion.Totales.EfectivoYGiros.String()).
					Str("efectivo_plegado", plegada.Totales.EfectivoYGiros.String()).
					Msg("caja: los totales del backend no coinciden con los asientos")
			}
		}
	}

	esp := caja.Calcular(sesion)
	out.EsperadoLocal = esp.Local
	out.EsperadoVecina = esp.Vecina
	out.EfectivoAfecto = caja.EfectivoAfecto(sesion.Totales)
	out.TotalCobrado = caja.TotalCobrado(sesion.Totales)
	return out
}

// sesionAbierta fetches the open session in domain form, nil when none.
func (s *cajaService) sesionAbierta(ctx context.Context, op model.Operador) (*dto.SesionCajaResponse, *model.SesionCaja, error) {
	ses, err := s.api.EstadoCaja(ctx, op.Token)
	if err != nil {
		return nil, nil, err
	}
	if ses == nil {
		return nil, nil, nil
	}
	m := sesionDesdeDTO(*ses)
	return ses, &m, nil
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, op model.Operador, req dto.AbrirCajaRequest) (*dto.ResumenCaja, error) {
	if req.InicialLocal.IsNegative() || req.InicialVecina.IsNegative() {
		return nil, apierror.Validacion(caja.ErrInicialNegativo)
	}
	// Guard: one open session per business
	_, actual, err := s.sesionAbierta(ctx, op)
	if err != nil {
		return nil, err
	}
	if actual != nil && actual.Abierta() {
		return nil, apierror.Validacion(caja.ErrCajaYaAbierta)
	}

	if _, err := s.api.AbrirCaja(ctx, op.Token, req); err != nil {
		return nil, err
	}
	log.Info().Str("usuario", op.Nombre).Str("terminal", op.Terminal).Msg("caja abierta")
	return s.releer(ctx, op, "la apertura de caja")
}

// releer re-reads the open session after a mutation: the screen always
// renders what the backend confirmed.
func (s *cajaService) releer(ctx context.Context, op model.Operador, que string) (*dto.ResumenCaja, error) {
	res, err := s.Estado(ctx, op)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apierror.Rechazo("el servidor no confirmó " + que)
	}
	return res, nil
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Movements are immutable once accepted; there is no update or delete.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, op model.Operador, req dto.MovimientoRequest) (*dto.ResumenCaja, error) {
	if err := caja.ValidarMovimiento(model.TipoMovimiento(req.Tipo), req.Monto); err != nil {
		return nil, apierror.Validacion(err)
	}
	_, actual, err := s.sesionAbierta(ctx, op)
	if err != nil {
		return nil, err
	}
	if actual == nil || !actual.Abierta() {
		return nil, apierror.Validacion(caja.ErrSinSesionAbierta)
	}

	if _, err := s.api.RegistrarMovimiento(ctx, op.Token, req); err != nil {
		return nil, err
	}
	return s.releer(ctx, op, "el movimiento")
}

// ── Cierre ────────────────────────────────────────────────────────────────────

func (s *cajaService) PrevisualizarCierre(ctx context.Context, op model.Operador, req dto.CerrarCajaRequest) (*dto.ConciliacionResponse, error) {
	_, actual, err := s.sesionAbierta(ctx, op)
	if err != nil {
		return nil, err
	}
	c, err := caja.Conciliar(actual, req.TotalRealLocal, req.TotalRealVecina)
	if err != nil {
		return nil, apierror.Validacion(err)
	}
	out := conciliacionToDTO(c)
	return &out, nil
}

// Cerrar reconciles the counted drawers and submits the close-out. Nothing is
// sent when the counts are incomplete; the register then stays open.
func (s *cajaService) Cerrar(ctx context.Context, op model.Operador, req dto.CerrarCajaRequest) (*dto.CierreResponse, error) {
	base, actual, err := s.sesionAbierta(ctx, op)
	if err != nil {
		return nil, err
	}
	conc, err := caja.Conciliar(actual, req.TotalRealLocal, req.TotalRealVecina)
	if err != nil {
		return nil, apierror.Validacion(err)
	}

	eco, err := s.api.CerrarCaja(ctx, op.Token, req)
	if err != nil {
		return nil, err
	}

	// Re-read the closed session; fall back to the POST echo and, when the
	// backend did not echo a snapshot, to the locally reconciled one.
	final := *base
	if det, err := s.api.DetalleCaja(ctx, op.Token, actual.ID); err == nil {
		final = det.Sesion
	} else {
		log.Warn().Err(err).Int64("sesion_id", actual.ID).Msg("caja: no se pudo releer la sesión cerrada")
		if eco != nil {
			final = *eco
		}
	}
	cerrada := sesionDesdeDTO(final)
	if cerrada.Estado != model.SesionCerrada || cerrada.Cierre == nil {
		cerrada = caja.Cerrar(*actual, conc, op.Nombre, s.now())
		final = sesionToDTO(cerrada)
	}

	log.Info().
		Int64("sesion_id", cerrada.ID).
		Str("usuario", op.Nombre).
		Str("diferencia_local", cerrada.Cierre.DiferenciaLocal.String()).
		Str("clasificacion", string(caja.Clasificar(cerrada.Cierre.DiferenciaLocal))).
		Msg("caja cerrada")

	out := &dto.CierreResponse{Sesion: final, Cierre: cierreToDTO(*cerrada.Cierre)}
	out.ReporteJobID = s.archivar(ctx, cerrada, op.Terminal)
	return out, nil
}

// archivar stores the snapshot locally and queues its report. Failures are
// logged only: the backend already closed the session.
func (s *cajaService) archivar(ctx context.Context, cerrada model.SesionCaja, terminal string) string {
	if s.cierres == nil {
		return ""
	}
	if err := s.cierres.Guardar(ctx, cierreArchivado(cerrada, terminal)); err != nil {
		log.Error().Err(err).Int64("sesion_id", cerrada.ID).Msg("caja: no se pudo archivar el cierre")
		return ""
	}
	if s.reportes == nil {
		return ""
	}
	jobID, err := s.reportes.EncolarReporte(ctx, cerrada.ID)
	if err != nil {
		log.Error().Err(err).Int64("sesion_id", cerrada.ID).Msg("caja: no se pudo encolar el reporte de cierre")
		return ""
	}
	return jobID
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *cajaService) Historial(ctx context.Context, op model.Operador, filter dto.HistorialFilter) (*dto.HistorialCajaResponse, error) {
	page, limit := paginacion(filter)
	sesiones, err := s.api.HistorialCaja(ctx, op.Token)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sesiones, func(i, j int) bool { return sesiones[i].ID > sesiones[j].ID })

	out := &dto.HistorialCajaResponse{Data: []dto.SesionCajaResponse{}, Total: int64(len(sesiones)), Page: page, Limit: limit}
	desde := (page - 1) * limit
	if desde < len(sesiones) {
		hasta := min(desde+limit, len(sesiones))
		out.Data = sesiones[desde:hasta]
	}
	return out, nil
}

func (s *cajaService) Cierres(ctx context.Context, filter dto.HistorialFilter) (*dto.CierreListResponse, error) {
	page, limit := paginacion(filter)
	out := &dto.CierreListResponse{Data: []dto.CierreArchivadoResponse{}, Page: page, Limit: limit}
	if s.cierres == nil {
		return out, nil
	}
	lista, total, err := s.cierres.Listar(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	out.Total = total
	for _, c := range lista {
		out.Data = append(out.Data, cierreArchivadoToDTO(c))
	}
	return out, nil
}

func paginacion(f dto.HistorialFilter) (int, int) {
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
