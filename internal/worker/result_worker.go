package worker

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/service"
	"github.com/andinetd/assignment-helper/internal/worker/queue"
)

// ResultWorker consumes analysis-completed events published by the external
// workflow and persists the result rows. Malformed messages are dropped;
// transient persistence failures are requeued.
type ResultWorker interface {
	Start(ctx context.Context) error
	Stop() error
}

type resultWorker struct {
	pool            *WorkerPool
	consumer        queue.Consumer
	analysisService service.AnalysisService
	logger          zerolog.Logger

	cancel context.CancelFunc
	done   sync.WaitGroup
}

func NewResultWorker(
	pool *WorkerPool,
	consumer queue.Consumer,
	analysisService service.AnalysisService,
	logger zerolog.Logger,
) ResultWorker {
	return &resultWorker{
		pool:            pool,
		consumer:        consumer,
		analysisService: analysisService,
		logger:          logger,
	}
}

func (w *resultWorker) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	if err := w.pool.Start(ctx); err != nil {
		return err
	}

	messages, err := w.consumer.Consume(ctx)
	if err != nil {
		return err
	}

	w.done.Add(1)
	go func() {
		defer w.done.Done()

		for msg := range messages {
			msg := msg
			w.pool.Submit(func() {
				w.handleMessage(ctx, msg)
			})
		}
	}()

	w.logger.Info().Msg("Result worker started")
	return nil
}

func (w *resultWorker) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}

	if err := w.consumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close consumer")
	}

	w.done.Wait()
	return w.pool.Stop()
}

func (w *resultWorker) handleMessage(ctx context.Context, msg queue.Message) {
	var event models.AnalysisCompletedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.logger.Error().Err(err).Msg("Dropping malformed analysis event")
		msg.Nack(false, false)
		return
	}

	if event.AssignmentID == 0 {
		w.logger.Error().Msg("Dropping analysis event without assignment id")
		msg.Nack(false, false)
		return
	}

	if err := w.analysisService.SaveResult(ctx, &event); err != nil {
		w.logger.Error().Err(err).
			Int64("assignment_id", event.AssignmentID).
			Msg("Failed to persist analysis result, requeueing")
		msg.Nack(false, true)
		return
	}

	if err := msg.Ack(false); err != nil {
		w.logger.Error().Err(err).Msg("Failed to ack message")
	}
}
