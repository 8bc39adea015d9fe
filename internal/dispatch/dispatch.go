// Package dispatch runs actions off the UI goroutine and hands their
// outcomes back to it.
//
// The UI goroutine submits work with Submit and drains Outcomes (or calls
// Drain); success and error continuations only ever run there.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/service"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatcher closed")

type task struct {
	id  uuid.UUID
	run func(ctx context.Context) func()
}

// Dispatcher is a fixed pool of workers fed by a task queue.
type Dispatcher struct {
	workers  int
	log      *logrus.Logger
	tasks    chan task
	outcomes chan func()
	stop     chan struct{}

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
	senders sync.WaitGroup
}

// New creates a dispatcher with the given number of workers.
func New(workers int, log *logrus.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		workers:  workers,
		log:      log,
		tasks:    make(chan task, 64),
		outcomes: make(chan func(), 64),
		stop:     make(chan struct{}),
	}
}

// Start launches the workers. Actions receive ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for t := range d.tasks {
		d.outcomes <- t.run(ctx)
	}
}

// Outcomes is the UI goroutine's queue. Each value must be called there.
// The channel is closed once Close has finished. Workers block when it is
// full, so the UI goroutine must keep draining it while work is queued.
func (d *Dispatcher) Outcomes() <-chan func() {
	return d.outcomes
}

// Drain runs every outcome that is ready without blocking and returns how
// many ran.
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		select {
		case fn, ok := <-d.outcomes:
			if !ok {
				return n
			}
			fn()
			n++
		default:
			return n
		}
	}
}

// Close stops accepting work, lets queued tasks finish and closes Outcomes.
// A Submit blocked on a full queue returns ErrClosed. Close does not block;
// the UI goroutine must keep draining Outcomes until it is closed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.stop)
	started := d.started
	d.mu.Unlock()

	go func() {
		d.senders.Wait()
		close(d.tasks)
		if started {
			d.wg.Wait()
		}
		close(d.outcomes)
	}()
}

// enqueue sends t without holding the lock, so Close can always proceed.
func (d *Dispatcher) enqueue(t task) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return ErrClosed
	}
	d.senders.Add(1)
	d.mu.RUnlock()
	defer d.senders.Done()

	select {
	case d.tasks <- t:
		return nil
	case <-d.stop:
		return ErrClosed
	}
}

// Submit queues action. When it finishes, onSuccess receives its result or
// onError a user-facing message, both on the UI goroutine. Either
// continuation may be nil. Submit blocks while the task queue is full.
func Submit[T any](d *Dispatcher, action func(ctx context.Context) (T, error), onSuccess func(T), onError func(msg string)) (uuid.UUID, error) {
	id := uuid.New()
	t := task{id: id, run: func(ctx context.Context) func() {
		result, err := call(ctx, action)
		if err != nil {
			msg := d.message(id, err)
			return func() {
				if onError != nil {
					onError(msg)
				}
			}
		}
		return func() {
			if onSuccess != nil {
				onSuccess(result)
			}
		}
	}}
	if err := d.enqueue(t); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// call runs action, converting a panic into an error.
func call[T any](ctx context.Context, action func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return action(ctx)
}

// message turns err into the text shown to the user. Domain errors are
// expected; anything else is logged in full first.
func (d *Dispatcher) message(id uuid.UUID, err error) string {
	var domain *service.Error
	if !errors.As(err, &domain) {
		d.log.WithError(err).WithField("task_id", id.String()).Error("action failed")
	}
	return fmt.Sprintf("error: %s", err.Error())
}
