package worker

// reporte_worker.go
// Renders the closing report of an archived session to PDF and, when mail is
// configured, hands it to the email queue.

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"botilleria/internal/infra"
	"botilleria/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReportePayload is the job envelope sent to QueueReporte.
type ReportePayload struct {
	SesionID int64 `json:"sesion_id"`
}

// ReporteConfig holds the report settings taken from config.Config.
type ReporteConfig struct {
	Negocio      string
	StoragePath  string
	Destinatario string
	// MailEnabled is false when SMTP or the recipient is missing; the PDF is
	// then the whole report.
	MailEnabled bool
}

type ReporteWorker struct {
	cierres    repository.CierreRepository
	dispatcher *Dispatcher
	cfg        ReporteConfig
}

func NewReporteWorker(cierres repository.CierreRepository, dispatcher *Dispatcher, cfg ReporteConfig) *ReporteWorker {
	return &ReporteWorker{cierres: cierres, dispatcher: dispatcher, cfg: cfg}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReportePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return nil
	}

	c, err := w.cierres.BuscarPorSesion(ctx, payload.SesionID)
	if err != nil {
		return err
	}
	if c == nil {
		log.Warn().Int64("sesion_id", payload.SesionID).Msg("reporte_worker: cierre no archivado, skipping")
		return nil
	}
	if c.ReporteEnviado {
		return nil
	}

	fileName, err := infra.GenerateCierrePDF(c, w.cfg.Negocio, w.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("reporte_worker: pdf: %w", err)
	}
	if err := w.cierres.MarcarReporte(ctx, c.SesionID, fileName, !w.cfg.MailEnabled); err != nil {
		return err
	}
	log.Info().Int64("sesion_id", c.SesionID).Str("pdf", fileName).Msg("reporte_worker: reporte de cierre generado")

	if !w.cfg.MailEnabled {
		return nil
	}
	_, err = w.dispatcher.EncolarEmail(ctx, EmailJobPayload{
		SesionID: c.SesionID,
		ToEmail:  w.cfg.Destinatario,
		Subject:  fmt.Sprintf("%s: cierre de caja #%d (%s)", w.cfg.Negocio, c.SesionID, c.Clasificacion),
		Body: fmt.Sprintf("Cierre de caja #%d en %s.\nEsperado local: %s\nContado local: %s\nDiferencia: %s\n",
			c.SesionID, c.Terminal,
			infra.Pesos(c.EsperadoLocal), infra.Pesos(c.ContadoLocal), infra.Pesos(c.DiferenciaLocal)),
		PDFPath: filepath.Join(w.cfg.StoragePath, fileName),
	})
	return err
}
