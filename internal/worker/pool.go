package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueRecibos = "jobs:recibos"
	QueueAlertas = "jobs:alertas_stock"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReciboJobPayload asks for a PDF receipt of a completed sale, optionally
// mailed to the customer.
type ReciboJobPayload struct {
	VentaID      string  `json:"venta_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// AlertaStockJobPayload flags a product that dropped to or below its minimum.
type AlertaStockJobPayload struct {
	ProductoID string `json:"producto_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecibo pushes a receipt generation job to Redis.
func (d *Dispatcher) EnqueueRecibo(ctx context.Context, payload ReciboJobPayload) error {
	return d.enqueue(ctx, QueueRecibos, "recibo", payload)
}

// EnqueueAlertaStock pushes a low-stock alert job to Redis.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, payload AlertaStockJobPayload) error {
	return d.enqueue(ctx, QueueAlertas, "alerta_stock", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers bundles the processors the pool dispatches to; wired at the
// composition root so each worker gets its infra dependencies.
type WorkerHandlers struct {
	Recibo      *ReciboWorker
	AlertaStock *AlertaStockWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueRecibos, QueueAlertas}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("invalid job envelope")
		return
	}

	switch queue {
	case QueueRecibos:
		if handlers.Recibo != nil {
			handlers.Recibo.Process(ctx, job.Payload)
		}
	case QueueAlertas:
		if handlers.AlertaStock != nil {
			handlers.AlertaStock.Process(ctx, job.Payload)
		}
	default:
		log.Warn().Str("queue", queue).Msg("job from unknown queue dropped")
	}
}
