package ledgerengine

import (
	"context"
	"sync"
	"time"

	"gitlab.com/answer-validator.net/internal/config"
	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

// LedgerEngine appends ledger records in the background so a request never waits
// on persistence. A failed append is retried once after PersistRetryDelay.
type LedgerEngine struct {
	cfg     *config.ValidationSvcCfg
	ledger  secondary.ResultLedger
	metrics primary.ValidationMetrics
	logger  primary.Logger

	jobCh   chan []domain.LedgerRecord
	workers sync.WaitGroup
	ctx     context.Context

	mu       sync.Mutex
	started  bool
	closed   bool
	inflight int
	idle     chan struct{}
}

func NewLedgerEngine(
	cfg *config.ValidationSvcCfg,
	ledger secondary.ResultLedger,
	metrics primary.ValidationMetrics,
	logger primary.Logger,
) *LedgerEngine {
	queueSize := cfg.PersistQueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	if metrics == nil {
		metrics = primary.NoopMetrics{}
	}
	idle := make(chan struct{})
	close(idle)
	return &LedgerEngine{
		cfg:     cfg,
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
		jobCh:   make(chan []domain.LedgerRecord, queueSize),
		ctx:     context.Background(),
		idle:    idle,
	}
}

// Start launches the writer goroutines. ctx bounds retries, not queued writes.
func (e *LedgerEngine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.closed {
		return
	}
	e.started = true
	e.ctx = ctx

	workers := e.cfg.PersistWorkers
	if workers < 1 {
		workers = 1
	}
	e.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer e.workers.Done()
			for batch := range e.jobCh {
				e.write(batch)
			}
		}()
	}
}

// Submit queues records for persistence. It never blocks: when the queue is full
// or the engine is not running the batch is written from its own goroutine.
func (e *LedgerEngine) Submit(records []domain.LedgerRecord) {
	if len(records) == 0 {
		return
	}

	e.mu.Lock()
	if e.inflight == 0 {
		e.idle = make(chan struct{})
	}
	e.inflight++

	queued := false
	if e.started && !e.closed {
		select {
		case e.jobCh <- records:
			queued = true
		default:
		}
	}
	e.mu.Unlock()

	if !queued {
		go e.write(records)
	}
}

// Drain waits until every submitted batch has been written or given up on.
func (e *LedgerEngine) Drain(ctx context.Context) error {
	for {
		e.mu.Lock()
		if e.inflight == 0 {
			e.mu.Unlock()
			return nil
		}
		idle := e.idle
		e.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop drains pending writes and shuts the workers down.
func (e *LedgerEngine) Stop(ctx context.Context) error {
	err := e.Drain(ctx)

	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.jobCh)
	}
	e.mu.Unlock()

	e.workers.Wait()
	return err
}

func (e *LedgerEngine) write(records []domain.LedgerRecord) {
	defer e.done()

	e.mu.Lock()
	base := e.ctx
	e.mu.Unlock()

	ctx := context.WithoutCancel(base)
	err := e.ledger.Append(ctx, records)
	if err == nil {
		return
	}
	e.logger.Warn("Failed to persist validation outcomes, retrying",
		"attemptId", records[0].AttemptID, "records", len(records), "error", err)

	select {
	case <-time.After(e.cfg.PersistRetryDelay):
	case <-base.Done():
	}

	if err := e.ledger.Append(ctx, records); err != nil {
		e.metrics.ObservePersistFailure()
		e.logger.Error("Failed to persist validation outcomes",
			"attemptId", records[0].AttemptID, "records", len(records), "error", err)
	}
}

func (e *LedgerEngine) done() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--
	if e.inflight == 0 {
		close(e.idle)
	}
}
