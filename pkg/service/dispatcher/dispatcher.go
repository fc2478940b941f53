// Package dispatcher runs pipeline stages as background tasks. Producers hand
// over a stage kind and an issue ID; a worker pool executes the registered
// handler and chains the next stage the handler names.
//
// Architecture assumptions:
// - Single server instance (no distributed queue)
// - For horizontal scaling, replace the channel with an external task queue
package dispatcher

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/utils/logging"
)

var (
	ErrQueueFull    = goerr.New("task queue is full")
	ErrStopped      = goerr.New("dispatcher is stopped")
	ErrUnknownStage = goerr.New("no handler registered for stage")
)

// Handler executes one stage for an issue and optionally names the stage to
// run next. Returning an error halts the chain for that issue.
type Handler func(ctx context.Context, issueID types.IssueID) (*types.Stage, error)

const (
	defaultWorkers   = 4
	defaultQueueSize = 128
)

type task struct {
	stage   types.Stage
	issueID types.IssueID
}

// Dispatcher owns the task queue and the worker pool.
type Dispatcher struct {
	handlers map[types.Stage]Handler
	queue    chan task
	workers  int
	locks    *issueLocks

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// Option is a functional option for Dispatcher configuration
type Option func(*Dispatcher)

// WithWorkers sets the number of worker goroutines
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets the task queue capacity
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan task, n)
		}
	}
}

// New creates a dispatcher with a fixed stage registry. The registry is
// closed: stages not present in handlers are rejected at Enqueue.
func New(handlers map[types.Stage]Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: handlers,
		queue:    make(chan task, defaultQueueSize),
		workers:  defaultWorkers,
		locks:    newIssueLocks(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the worker pool. Workers run until Stop is called or ctx is
// cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	logging.From(ctx).Info("dispatcher starting",
		"workers", d.workers,
		"queue_size", cap(d.queue))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
}

// Stop rejects further tasks, drains the queue and waits for in-flight
// stages to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	logging.Default().Info("dispatcher stopped")
}

// Enqueue hands a stage execution to the worker pool without blocking. It
// fails only when the dispatcher is stopped, the stage is unknown, or the
// queue is saturated.
func (d *Dispatcher) Enqueue(ctx context.Context, stage types.Stage, issueID types.IssueID) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return goerr.Wrap(ErrStopped, "cannot enqueue", goerr.V("stage", stage))
	}
	if _, ok := d.handlers[stage]; !ok {
		return goerr.Wrap(ErrUnknownStage, "cannot enqueue", goerr.V("stage", stage))
	}

	select {
	case d.queue <- task{stage: stage, issueID: issueID}:
		return nil
	default:
		return goerr.Wrap(ErrQueueFull, "cannot enqueue",
			goerr.V("stage", stage),
			goerr.V("issue_id", issueID),
		)
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case t, ok := <-d.queue:
			if !ok {
				return
			}
			d.execute(ctx, t)

		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, t task) {
	logger := logging.From(ctx).With("stage", t.stage.String(), "issue_id", t.issueID.String())

	// A panicking handler must not take the worker down
	defer func() {
		if r := recover(); r != nil {
			logger.Error("stage handler panicked", "recover", r)
		}
	}()

	// Stages of the same issue never run concurrently
	unlock := d.locks.acquire(t.issueID)
	defer unlock()

	next, err := d.handlers[t.stage](ctx, t.issueID)
	if err != nil {
		logger.Error("stage failed", "error", err)
		return
	}
	logger.Info("stage completed")

	if next != nil {
		if err := d.Enqueue(ctx, *next, t.issueID); err != nil {
			logger.Error("failed to enqueue next stage",
				"next_stage", next.String(),
				"error", err)
		}
	}
}
