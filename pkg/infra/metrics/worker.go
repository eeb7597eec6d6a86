package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize     = 1000
	defaultExportTimeout = 5 * time.Second
)

//go:generate mockery --name=Worker --dir=. --output=./mocks --filename=worker_mock.go --case=underscore

// Worker hands recommendation events to the configured exporters off the
// request path. Events are dropped, with a warning, when the queue is full.
type Worker interface {
	StartWorkers(n int)
	Process(evt *telemetry.RecommendationEvent)
	Shutdown()
}

type WorkerOption func(*worker)

func WithQueueSize(n int) WorkerOption {
	return func(w *worker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

func WithExportTimeout(d time.Duration) WorkerOption {
	return func(w *worker) {
		if d > 0 {
			w.exportTimeout = d
		}
	}
}

type worker struct {
	logger        *logrus.Logger
	exporters     []telemetry.Exporter
	queueSize     int
	exportTimeout time.Duration

	mu       sync.RWMutex
	closed   bool
	taskChan chan *telemetry.RecommendationEvent
	wg       sync.WaitGroup
}

func NewWorker(logger *logrus.Logger, exporters []telemetry.Exporter, opts ...WorkerOption) Worker {
	w := &worker{
		logger:        logger,
		exporters:     exporters,
		queueSize:     defaultQueueSize,
		exportTimeout: defaultExportTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.taskChan = make(chan *telemetry.RecommendationEvent, w.queueSize)
	return w
}

func (w *worker) StartWorkers(n int) {
	if n <= 0 {
		n = 1
	}
	w.logger.WithField("workers", n).Info("starting telemetry workers")
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for evt := range w.taskChan {
				w.export(evt)
			}
		}()
	}
}

func (w *worker) Process(evt *telemetry.RecommendationEvent) {
	if len(w.exporters) == 0 {
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.taskChan <- evt:
	default:
		w.logger.WithField("session_id", evt.SessionID).Warn("telemetry queue is full, dropping event")
	}
}

// Shutdown stops accepting events, drains the queue and closes the exporters.
func (w *worker) Shutdown() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.taskChan)
	w.mu.Unlock()

	w.logger.Info("shutting down telemetry workers")
	w.wg.Wait()
	for _, exporter := range w.exporters {
		exporter.Close()
	}
	w.logger.Info("telemetry workers stopped")
}

func (w *worker) export(evt *telemetry.RecommendationEvent) {
	var failed []string
	for _, exporter := range w.exporters {
		ctx, cancel := context.WithTimeout(context.Background(), w.exportTimeout)
		err := exporter.Handle(ctx, evt)
		cancel()
		if err != nil {
			w.logger.WithFields(logrus.Fields{
				"session_id": evt.SessionID,
				"exporter":   exporter.Name(),
			}).WithError(err).Error("exporter failed")
			failed = append(failed, exporter.Name())
		}
	}
	if len(failed) > 0 {
		w.logger.WithField("failed_exporters", failed).
			Warnf("%d exporters failed to handle recommendation event", len(failed))
	}
}
