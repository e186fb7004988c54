package worker

// email_worker.go
// Processes email jobs from QueueEmail.
// Sends the closing report PDF to the owner's address via SMTP.

import (
	"context"
	"encoding/json"
	"errors"

	"botilleria/internal/repository"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	SesionID int64  `json:"sesion_id"`
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path"`
}

// Mailer is the part of infra.Mailer the worker needs.
type Mailer interface {
	SendReporte(to, subject, body, pdfPath string) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer  Mailer
	cierres repository.CierreRepository
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer Mailer, cierres repository.CierreRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, cierres: cierres}
}

// Process sends an email with the PDF report as attachment and marks the
// closing as reported.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if w.mailer == nil {
		return errors.New("email_worker: mailer not configured")
	}
	if w.cierres != nil && payload.SesionID != 0 {
		// The retry cron can requeue a report whose mail is still queued.
		c, err := w.cierres.BuscarPorSesion(ctx, payload.SesionID)
		if err != nil {
			return err
		}
		if c != nil && c.ReporteEnviado {
			log.Info().Int64("sesion_id", payload.SesionID).Msg("email_worker: reporte ya enviado, skipping")
			return nil
		}
	}

	if err := w.mailer.SendReporte(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Int64("sesion_id", payload.SesionID).Msg("email_worker: reporte de cierre enviado")

	if w.cierres != nil && payload.SesionID != 0 {
		if err := w.cierres.MarcarReporte(ctx, payload.SesionID, "", true); err != nil {
			// The mail is out; failing here would send it twice.
			log.Error().Err(err).Int64("sesion_id", payload.SesionID).Msg("email_worker: could not mark report as sent")
		}
	}
	return nil
}
