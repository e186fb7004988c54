package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"botilleria/internal/apierror"
	"botilleria/internal/dto"
	"botilleria/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory stubs ───────────────────────────────────────────────────────────

type stubCierres struct {
	mu         sync.Mutex
	cierres    map[int64]*model.CierreArchivado
	pendientes []model.CierreArchivado
}

func newStubCierres(cs ...model.CierreArchivado) *stubCierres {
	r := &stubCierres{cierres: make(map[int64]*model.CierreArchivado)}
	for i := range cs {
		c := cs[i]
		r.cierres[c.SesionID] = &c
	}
	return r
}

func (r *stubCierres) Guardar(_ context.Context, c *model.CierreArchivado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cierres[c.SesionID] = c
	return nil
}

func (r *stubCierres) BuscarPorSesion(_ context.Context, id int64) (*model.CierreArchivado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cierres[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *stubCierres) Listar(_ context.Context, _, _ int) ([]model.CierreArchivado, int64, error) {
	return nil, 0, nil
}

func (r *stubCierres) MarcarReporte(_ context.Context, id int64, pdfPath string, enviado bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.cierres[id]
	if pdfPath != "" {
		c.PDFPath = &pdfPath
	}
	c.ReporteEnviado = enviado
	return nil
}

func (r *stubCierres) ListarPendientes(_ context.Context, _ time.Time, _ int) ([]model.CierreArchivado, error) {
	return r.pendientes, nil
}

type stubMailer struct {
	enviados []string
	err      error
}

func (m *stubMailer) SendReporte(to, _, _, pdfPath string) error {
	if m.err != nil {
		return m.err
	}
	m.enviados = append(m.enviados, to+"|"+pdfPath)
	return nil
}

func cierreFaltante() model.CierreArchivado {
	return model.CierreArchivado{
		SesionID:        12,
		Terminal:        "caja-1",
		AbiertaEn:       time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		CerradaEn:       time.Date(2026, 10, 18, 21, 0, 0, 0, time.UTC),
		CerradaPor:      "Ana",
		InicialLocal:    decimal.NewFromInt(50000),
		EfectivoYGiros:  decimal.NewFromInt(10000),
		Egresos:         decimal.NewFromInt(2000),
		EsperadoLocal:   decimal.NewFromInt(58000),
		ContadoLocal:    decimal.NewFromInt(57500),
		DiferenciaLocal: decimal.NewFromInt(-500),
		Clasificacion:   "FALTANTE",
	}
}

// ── Dispatcher ────────────────────────────────────────────────────────────────

func TestDispatcher_LocalQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := NewDispatcher(nil)

	got := make(chan int64, 1)
	StartWorkerPool(ctx, d, 1, Handlers{
		JobReporte: func(_ context.Context, raw json.RawMessage) error {
			var p ReportePayload
			require.NoError(t, json.Unmarshal(raw, &p))
			got <- p.SesionID
			return nil
		},
	})

	id, err := d.EncolarReporte(ctx, 12)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case s := <-got:
		assert.Equal(t, int64(12), s)
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
}

func TestDispatcher_ReintentaHastaElMaximo(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(nil)
	var intentos int32
	handlers := Handlers{
		JobEmail: func(context.Context, json.RawMessage) error {
			atomic.AddInt32(&intentos, 1)
			return errors.New("smtp down")
		},
	}

	_, err := d.EncolarEmail(ctx, EmailJobPayload{ToEmail: "dueno@botilleria.cl"})
	require.NoError(t, err)

	// Drain synchronously: every failure requeues until MaxIntentos.
	for i := 0; i < MaxIntentos+1; i++ {
		select {
		case j := <-d.local:
			d.processJob(ctx, handlers, j.queue, j.raw)
		default:
		}
	}

	assert.Equal(t, int32(MaxIntentos), atomic.LoadInt32(&intentos))
	assert.Empty(t, d.local, "dead-lettered job is not requeued")
	n, err := d.DLQLength(ctx, QueueEmail)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDispatcher_ColaLocalLlena(t *testing.T) {
	d := NewDispatcher(nil)
	for i := 0; i < localQueueSize; i++ {
		_, err := d.EncolarReporte(context.Background(), int64(i))
		require.NoError(t, err)
	}
	_, err := d.EncolarReporte(context.Background(), 999)
	assert.ErrorIs(t, err, ErrColaLlena)
}

// ── Reporte / Email ───────────────────────────────────────────────────────────

func TestReporteWorker_GeneraPDFYEncolaEmail(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cierres := newStubCierres(cierreFaltante())
	d := NewDispatcher(nil)
	w := NewReporteWorker(cierres, d, ReporteConfig{Negocio: "Botillería Don Tito", StoragePath: dir, Destinatario: "dueno@botilleria.cl", MailEnabled: true})

	raw, _ := json.Marshal(ReportePayload{SesionID: 12})
	require.NoError(t, w.Process(ctx, raw))

	c, _ := cierres.BuscarPorSesion(ctx, 12)
	require.NotNil(t, c.PDFPath)
	assert.False(t, c.ReporteEnviado, "sent only once the e-mail goes out")
	_, err := os.Stat(filepath.Join(dir, *c.PDFPath))
	require.NoError(t, err)

	j := <-d.local
	assert.Equal(t, QueueEmail, j.queue)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(j.raw), &job))
	var email EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &email))
	assert.Equal(t, "dueno@botilleria.cl", email.ToEmail)
	assert.Contains(t, email.Body, "-$500")

	mailer := &stubMailer{}
	require.NoError(t, NewEmailWorker(mailer, cierres).Process(ctx, job.Payload))
	assert.Len(t, mailer.enviados, 1)
	c, _ = cierres.BuscarPorSesion(ctx, 12)
	assert.True(t, c.ReporteEnviado)
}

func TestReporteWorker_SinCorreoMarcaEnviado(t *testing.T) {
	ctx := context.Background()
	cierres := newStubCierres(cierreFaltante())
	d := NewDispatcher(nil)
	w := NewReporteWorker(cierres, d, ReporteConfig{Negocio: "Botillería", StoragePath: t.TempDir()})

	raw, _ := json.Marshal(ReportePayload{SesionID: 12})
	require.NoError(t, w.Process(ctx, raw))

	c, _ := cierres.BuscarPorSesion(ctx, 12)
	assert.True(t, c.ReporteEnviado)
	assert.Empty(t, d.local)
}

func TestReporteWorker_CierreInexistente(t *testing.T) {
	w := NewReporteWorker(newStubCierres(), NewDispatcher(nil), ReporteConfig{StoragePath: t.TempDir()})

	raw, _ := json.Marshal(ReportePayload{SesionID: 99})
	assert.NoError(t, w.Process(context.Background(), raw))
}

func TestEmailWorker_FalloSeReintenta(t *testing.T) {
	cierres := newStubCierres(cierreFaltante())
	w := NewEmailWorker(&stubMailer{err: errors.New("dial tcp: timeout")}, cierres)

	raw, _ := json.Marshal(EmailJobPayload{SesionID: 12, ToEmail: "dueno@botilleria.cl"})
	assert.Error(t, w.Process(context.Background(), raw))

	c, _ := cierres.BuscarPorSesion(context.Background(), 12)
	assert.False(t, c.ReporteEnviado)
}

func TestEmailWorker_ReporteYaEnviadoNoSeRepite(t *testing.T) {
	ctx := context.Background()
	cierres := newStubCierres(cierreFaltante())
	mailer := &stubMailer{}
	w := NewEmailWorker(mailer, cierres)
	raw, _ := json.Marshal(EmailJobPayload{SesionID: 12, ToEmail: "dueno@botilleria.cl"})

	// Two jobs for the same closing: the original and a requeued one.
	require.NoError(t, w.Process(ctx, raw))
	require.NoError(t, w.Process(ctx, raw))

	assert.Len(t, mailer.enviados, 1)
}

func TestRetryCron_ReencolaPendientes(t *testing.T) {
	cierres := newStubCierres()
	cierres.pendientes = []model.CierreArchivado{{SesionID: 3}, {SesionID: 4}}
	d := NewDispatcher(nil)

	n := processRetries(context.Background(), RetryCronConfig{Cierres: cierres, Dispatcher: d}, time.Now())

	assert.Equal(t, 2, n)
	assert.Len(t, d.local, 2)
}

// ── Poller / Heartbeat ────────────────────────────────────────────────────────

type stubOperadores struct {
	op  *model.Operador
	err error
}

func (s stubOperadores) Actual(context.Context) (*model.Operador, error) { return s.op, s.err }

// stubCaja implements service.CajaService; only Estado is exercised.
type stubCaja struct {
	res   *dto.ResumenCaja
	err   error
	token string
}

func (s *stubCaja) Estado(_ context.Context, op model.Operador) (*dto.ResumenCaja, error) {
	s.token = op.Token
	return s.res, s.err
}
func (s *stubCaja) Resumen(context.Context, model.Operador, int64) (*dto.ResumenCaja, error) {
	return nil, nil
}
func (s *stubCaja) Abrir(context.Context, model.Operador, dto.AbrirCajaRequest) (*dto.ResumenCaja, error) {
	return nil, nil
}
func (s *stubCaja) RegistrarMovimiento(context.Context, model.Operador, dto.MovimientoRequest) (*dto.ResumenCaja, error) {
	return nil, nil
}
func (s *stubCaja) PrevisualizarCierre(context.Context, model.Operador, dto.CerrarCajaRequest) (*dto.ConciliacionResponse, error) {
	return nil, nil
}
func (s *stubCaja) Cerrar(context.Context, model.Operador, dto.CerrarCajaRequest) (*dto.CierreResponse, error) {
	return nil, nil
}
func (s *stubCaja) Historial(context.Context, model.Operador, dto.HistorialFilter) (*dto.HistorialCajaResponse, error) {
	return nil, nil
}
func (s *stubCaja) Cierres(context.Context, dto.HistorialFilter) (*dto.CierreListResponse, error) {
	return nil, nil
}

func TestPollOnce_PublicaEstado(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()
	caja := &stubCaja{res: &dto.ResumenCaja{EsperadoLocal: decimal.NewFromInt(58000)}}
	cfg := PollerConfig{Caja: caja, Operadores: stubOperadores{op: &model.Operador{Token: "tok"}}, Hub: hub}

	pollOnce(context.Background(), cfg)

	r := <-ch
	assert.Equal(t, "58000", r.EsperadoLocal.String())
	assert.Equal(t, "tok", caja.token)
	ultimo, ok := hub.Ultimo()
	assert.True(t, ok)
	assert.Same(t, r, ultimo)
}

func TestPollOnce_FalloConservaUltimoEstado(t *testing.T) {
	hub := NewHub()
	previo := &dto.ResumenCaja{EsperadoLocal: decimal.NewFromInt(1000)}
	hub.Publish(previo)
	caja := &stubCaja{err: apierror.Transitorio(errors.New("timeout"))}

	pollOnce(context.Background(), PollerConfig{Caja: caja, Operadores: stubOperadores{op: &model.Operador{}}, Hub: hub})

	ultimo, _ := hub.Ultimo()
	assert.Same(t, previo, ultimo)
}

func TestPollOnce_SinOperadorNoConsulta(t *testing.T) {
	hub := NewHub()
	caja := &stubCaja{}

	pollOnce(context.Background(), PollerConfig{Caja: caja, Operadores: stubOperadores{err: apierror.NoAutorizado("sin operador")}, Hub: hub})

	_, ok := hub.Ultimo()
	assert.False(t, ok)
	assert.Empty(t, caja.token)
}

func TestHub_SuscriptorLentoVeSoloElUltimo(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(&dto.ResumenCaja{ActualizadoEn: "1"})
	hub.Publish(&dto.ResumenCaja{ActualizadoEn: "2"})

	assert.Equal(t, "2", (<-ch).ActualizadoEn)
	cancel()
	hub.Publish(nil)
	assert.Empty(t, ch)
}

type stubPresence struct {
	terminal string
	err      error
}

func (p *stubPresence) Online(_ context.Context, _, terminal string) error {
	p.terminal = terminal
	return p.err
}

func TestLatido(t *testing.T) {
	p := &stubPresence{}
	ok := latido(context.Background(), HeartbeatConfig{API: p, Operadores: stubOperadores{op: &model.Operador{Token: "tok", Terminal: "caja-1"}}})
	assert.True(t, ok)
	assert.Equal(t, "caja-1", p.terminal)

	p = &stubPresence{err: apierror.Transitorio(errors.New("down"))}
	assert.False(t, latido(context.Background(), HeartbeatConfig{API: p, Operadores: stubOperadores{op: &model.Operador{}}}))

	p = &stubPresence{}
	assert.False(t, latido(context.Background(), HeartbeatConfig{API: p, Operadores: stubOperadores{err: apierror.NoAutorizado("x")}}))
	assert.Empty(t, p.terminal)
}
