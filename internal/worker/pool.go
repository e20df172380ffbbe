package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/manor-mystery/internal/services"
)

var ErrPoolClosed = errors.New("worker pool closed")

// Task is one dispatched generation. Its result channel holds exactly one
// value and is written once by the worker that ran it. Poll and Wait belong
// to the game driver and are not safe for concurrent use.
type Task struct {
	ID       uuid.UUID
	Snapshot Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	result chan Outcome

	outcome Outcome
	done    bool
}

// Poll returns the outcome without blocking. The second value is false while
// the task is still running.
func (t *Task) Poll() (Outcome, bool) {
	if t.done {
		return t.outcome, true
	}
	select {
	case out := <-t.result:
		t.outcome, t.done = out, true
		return out, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) (Outcome, error) {
	if t.done {
		return t.outcome, nil
	}
	select {
	case out := <-t.result:
		t.outcome, t.done = out, true
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Cancel stops the generation call. The task still posts a result, which
// will be a fallback.
func (t *Task) Cancel() {
	t.cancel()
}

// Pool runs generation tasks on a fixed set of goroutines so the game driver
// never blocks on the generator.
type Pool struct {
	processor *ConversationProcessor
	timeout   time.Duration
	logger    *slog.Logger

	jobs   chan *Task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool starts workers goroutines. A positive timeout bounds every task.
func NewPool(processor *ConversationProcessor, workers int, timeout time.Duration, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		processor: processor,
		timeout:   timeout,
		logger:    logger,
		jobs:      make(chan *Task, workers*4),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run(fmt.Sprintf("worker-%d", i+1))
	}
	return p
}

// Dispatch queues a snapshot for generation. The task context derives from
// ctx, so cancelling ctx cancels the generation.
func (p *Pool) Dispatch(ctx context.Context, snap Snapshot) (*Task, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	var taskCtx context.Context
	var cancel context.CancelFunc
	if p.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, p.timeout)
	} else {
		taskCtx, cancel = context.WithCancel(ctx)
	}

	t := &Task{
		ID:       uuid.New(),
		Snapshot: snap,
		ctx:      taskCtx,
		cancel:   cancel,
		result:   make(chan Outcome, 1),
	}

	select {
	case p.jobs <- t:
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	p.logger.Debug("task dispatched", "task_id", t.ID.String(), "listener_id", snap.Listener.ID)
	return t, nil
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) run(workerID string) {
	defer p.wg.Done()
	p.logger.Debug("worker starting", "worker_id", workerID)
	for t := range p.jobs {
		p.execute(workerID, t)
	}
	p.logger.Debug("worker shutting down", "worker_id", workerID)
}

func (p *Pool) execute(workerID string, t *Task) {
	defer t.cancel()
	start := time.Now()

	out := func() (out Outcome) {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked", "worker_id", workerID, "task_id", t.ID.String(), "panic", r)
				out = Outcome{Fallback: true, Err: fmt.Errorf("%w: panic: %v", services.ErrGenerationFailure, r)}
			}
		}()
		return p.processor.Generate(t.ctx, t.Snapshot)
	}()

	t.result <- out

	p.logger.Debug("task finished",
		"worker_id", workerID,
		"task_id", t.ID.String(),
		"fallback", out.Fallback,
		"duration_ms", time.Since(start).Milliseconds())
}
