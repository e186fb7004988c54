package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReporte = "jobs:reporte_cierre"
	QueueEmail   = "jobs:email"

	JobReporte = "reporte_cierre"
	JobEmail   = "email"

	// MaxIntentos is how many times a job runs before it is moved to the DLQ.
	MaxIntentos = 3

	localQueueSize = 256
	popTimeout     = 5 * time.Second
)

var ErrColaLlena = errors.New("cola local de trabajos llena")

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
}

// Handler runs one job. A returned error schedules another attempt.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Handlers maps a job type to its handler.
type Handlers map[string]Handler

type localJob struct {
	queue string
	raw   string
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. Without Redis the jobs go through an in-process buffer and
// do not survive a restart (the report cron picks those up again).
type Dispatcher struct {
	rdb   *redis.Client
	local chan localJob
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	d := &Dispatcher{rdb: rdb}
	if rdb == nil {
		d.local = make(chan localJob, localQueueSize)
	}
	return d
}

// EncolarReporte queues the closing report of a session and returns the job ID.
func (d *Dispatcher) EncolarReporte(ctx context.Context, sesionID int64) (string, error) {
	return d.enqueue(ctx, QueueReporte, JobReporte, ReportePayload{SesionID: sesionID})
}

// EncolarEmail queues an e-mail with the closing report attached.
func (d *Dispatcher) EncolarEmail(ctx context.Context, payload EmailJobPayload) (string, error) {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, Payload: data}
	return job.ID, d.push(ctx, queue, job)
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if d.rdb != nil {
		return d.rdb.LPush(ctx, queue, encoded).Err()
	}
	select {
	case d.local <- localJob{queue: queue, raw: string(encoded)}:
		return nil
	default:
		return ErrColaLlena
	}
}

// next blocks up to popTimeout for a job on any queue.
func (d *Dispatcher) next(ctx context.Context) (queue, raw string, ok bool) {
	if d.rdb != nil {
		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := d.rdb.BRPop(ctx, popTimeout, QueueReporte, QueueEmail).Result()
		if err != nil || len(result) < 2 {
			return "", "", false
		}
		return result[0], result[1], true
	}
	select {
	case <-ctx.Done():
		return "", "", false
	case j := <-d.local:
		return j.queue, j.raw, true
	case <-time.After(popTimeout):
		return "", "", false
	}
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP and costs nothing while idle.
func StartWorkerPool(ctx context.Context, d *Dispatcher, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, d, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, d *Dispatcher, id int, handlers Handlers) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			queue, raw, ok := d.next(ctx)
			if !ok {
				continue // timeout or context cancelled
			}
			d.processJob(ctx, handlers, queue, raw)
		}
	}
}

func (d *Dispatcher) processJob(ctx context.Context, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		d.SendToDLQ(ctx, queue, job, "no handler")
		return
	}

	job.Intentos++
	err := h(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("job_id", job.ID).Msg("job done")
		return
	}
	if job.Intentos >= MaxIntentos {
		d.SendToDLQ(ctx, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Str("job_id", job.ID).Int("intentos", job.Intentos).Msg("job failed, requeued")
	if err := d.push(ctx, queue, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("failed to requeue job")
	}
}
