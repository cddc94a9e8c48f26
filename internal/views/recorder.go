package views

import (
	"context"
	"log/slog"
	"sync"
)

// View is a queued view-recording job.
type View struct {
	Type      ContentType
	Slug      string
	IP        string
	UserAgent string
}

// RecorderConfig holds recorder configuration.
type RecorderConfig struct {
	Workers   int // Number of concurrent recording workers
	QueueSize int // Buffered queue capacity; enqueue drops on overflow
}

// DefaultRecorderConfig returns default recorder configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Workers:   2,
		QueueSize: 256,
	}
}

// Recorder processes view recordings in the background so page responses
// never wait on the write path. Jobs run detached from the request
// lifecycle; a cancelled request does not cancel its recording. The queue
// is bounded and enqueueing never blocks: overflow drops the view.
type Recorder struct {
	service *Service
	logger  *slog.Logger
	queue   chan View
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewRecorder creates a recorder on top of the given service.
func NewRecorder(service *Service, logger *slog.Logger, cfg RecorderConfig) *Recorder {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		service: service,
		logger:  logger,
		queue:   make(chan View, cfg.QueueSize),
		workers: cfg.Workers,
		done:    make(chan struct{}),
	}
}

// Start starts the recording workers.
func (r *Recorder) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

// Stop stops the recorder and waits for in-flight recordings to finish.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.done)
	r.wg.Wait()
}

// Enqueue submits a view for background recording. It never blocks;
// when the queue is full the view is dropped and logged. Returns whether
// the view was accepted.
func (r *Recorder) Enqueue(v View) bool {
	select {
	case r.queue <- v:
		return true
	default:
		r.logger.Warn("view queue full, dropping view",
			"type", v.Type,
			"slug", v.Slug,
		)
		return false
	}
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case <-r.done:
			return
		case v := <-r.queue:
			// Detached from any request context: the response may
			// already be sent by the time this runs.
			if _, err := r.service.RecordView(context.Background(), v.Type, v.Slug, v.IP, v.UserAgent); err != nil {
				r.logger.Warn("recording view failed",
					"type", v.Type,
					"slug", v.Slug,
					"error", err,
				)
			}
		}
	}
}
