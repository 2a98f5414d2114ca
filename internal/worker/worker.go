package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/domain"
	"github.com/notifyhub/bankapp/internal/provider"
	"github.com/notifyhub/bankapp/internal/queue"
	"github.com/notifyhub/bankapp/internal/ratelimiter"
)

// State is the lifecycle state of an EmailWorker.
type State int32

const (
	StateRunning State = iota
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Hooks are optional callbacks injected by main so the worker stays
// metrics-agnostic. They run on the worker goroutine and must not block.
type Hooks struct {
	OnSent   func(e domain.Email, latency time.Duration)
	OnFailed func(e domain.Email, err error)
}

// Option configures an EmailWorker.
type Option func(*settings)

type settings struct {
	limiter  *ratelimiter.Limiter
	hooks    Hooks
	observer queue.LengthObserver
}

// WithRateLimiter throttles deliveries. The wait for a token is interrupted
// by Shutdown like any other blocking step.
func WithRateLimiter(l *ratelimiter.Limiter) Option {
	return func(s *settings) { s.limiter = l }
}

func WithHooks(h Hooks) Option {
	return func(s *settings) { s.hooks = h }
}

// WithQueueObserver receives the queue length after every change.
func WithQueueObserver(fn queue.LengthObserver) Option {
	return func(s *settings) { s.observer = fn }
}

// EmailWorker owns a blocking queue of emails and a single goroutine that
// delivers them one at a time, in submission order, through a Provider.
//
// Submit never waits for delivery: errors raised while sending are logged
// and counted but never reach the submitter, which has long returned.
//
// Shutdown aborts rather than drains. Emails still queued when it is called
// are dropped; the emails that were delivered always form a prefix of the
// submission order.
type EmailWorker struct {
	q       *queue.BlockingQueue[domain.Email]
	prov    provider.Provider
	limiter *ratelimiter.Limiter
	hooks   Hooks
	logger  *zap.Logger

	state        atomic.Int32
	cancel       context.CancelFunc
	done         chan struct{}
	shutdownOnce sync.Once

	submitted atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// New constructs the worker and starts its goroutine. The goroutine runs
// until Shutdown is called; every worker must eventually be shut down.
func New(prov provider.Provider, logger *zap.Logger, opts ...Option) *EmailWorker {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.hooks.OnSent == nil {
		s.hooks.OnSent = func(domain.Email, time.Duration) {}
	}
	if s.hooks.OnFailed == nil {
		s.hooks.OnFailed = func(domain.Email, error) {}
	}

	var qopts []queue.Option
	if s.observer != nil {
		qopts = append(qopts, queue.WithLengthObserver(s.observer))
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &EmailWorker{
		q:       queue.New[domain.Email](qopts...),
		prov:    prov,
		limiter: s.limiter,
		hooks:   s.hooks,
		logger:  logger,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	w.state.Store(int32(StateRunning))

	go w.run(ctx)
	return w
}

// Submit queues e for asynchronous delivery. It fails with
// domain.ErrInvalidEmail for an incomplete email and with
// domain.ErrServiceClosed once Shutdown has begun.
func (w *EmailWorker) Submit(e domain.Email) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if w.State() != StateRunning {
		return domain.ErrServiceClosed
	}
	// Shutdown closes the queue right after leaving StateRunning, so a
	// Submit racing with it is rejected here instead.
	w.submitted.Add(1)
	if err := w.q.Enqueue(e); err != nil {
		w.submitted.Add(-1)
		return domain.ErrServiceClosed
	}
	return nil
}

// Shutdown stops accepting emails, interrupts the worker goroutine (whether
// it is waiting for the next email or in the middle of a delivery) and
// waits for it to exit. It is idempotent and safe to call concurrently:
// every call returns only once the worker is stopped.
func (w *EmailWorker) Shutdown() {
	w.shutdownOnce.Do(func() {
		w.state.Store(int32(StateShuttingDown))
		w.q.Close()
		w.cancel()

		<-w.done

		// The queue is closed, so Dequeue hands back what is left without
		// blocking and then reports end-of-stream.
		n := 0
		for {
			if _, ok := w.q.Dequeue(context.Background()); !ok {
				break
			}
			n++
		}
		if n > 0 {
			w.dropped.Add(int64(n))
			w.logger.Warn("email worker stopped with undelivered emails", zap.Int("dropped", n))
		}
		w.state.Store(int32(StateStopped))
		w.logger.Info("email worker stopped",
			zap.Int64("delivered", w.delivered.Load()),
			zap.Int64("failed", w.failed.Load()),
			zap.Int64("dropped", w.dropped.Load()),
		)
	})
}

func (w *EmailWorker) State() State {
	return State(w.state.Load())
}

// Stats is a point-in-time view of the worker counters.
// Submitted == Delivered + Failed + Dropped + Pending once the worker is stopped.
type Stats struct {
	State     State
	Submitted int64
	Delivered int64
	Failed    int64
	Dropped   int64
	Pending   int
}

func (w *EmailWorker) Stats() Stats {
	return Stats{
		State:     w.State(),
		Submitted: w.submitted.Load(),
		Delivered: w.delivered.Load(),
		Failed:    w.failed.Load(),
		Dropped:   w.dropped.Load(),
		Pending:   w.q.Len(),
	}
}

func (w *EmailWorker) Delivered() int64 { return w.delivered.Load() }

// Done is closed when the worker goroutine has exited.
func (w *EmailWorker) Done() <-chan struct{} { return w.done }

func (w *EmailWorker) run(ctx context.Context) {
	defer close(w.done)

	w.logger.Info("email worker started")
	for {
		e, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("email worker stopping")
			return
		}
		w.process(ctx, e)
	}
}

// process delivers one email. Nothing that happens here may stop the loop:
// provider errors and panics are logged and counted.
func (w *EmailWorker) process(ctx context.Context, e domain.Email) {
	start := time.Now()
	log := w.logger.With(zap.String("from", e.From), zap.String("to", e.To))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic during delivery: %v", r)
			log.Error("email delivery panicked", zap.Error(err))
			w.failed.Add(1)
			w.hooks.OnFailed(e, err)
		}
	}()

	if err := w.limiter.Wait(ctx); err != nil {
		w.interrupted(log, err)
		return
	}

	if err := w.prov.Send(ctx, e); err != nil {
		if ctx.Err() != nil {
			w.interrupted(log, err)
			return
		}
		log.Warn("email delivery failed", zap.Error(err))
		w.failed.Add(1)
		w.hooks.OnFailed(e, err)
		return
	}

	elapsed := time.Since(start)
	w.delivered.Add(1)
	w.hooks.OnSent(e, elapsed)
	log.Info("email sent", zap.Duration("latency", elapsed))
}

// interrupted accounts for an email whose delivery was cut short by Shutdown.
func (w *EmailWorker) interrupted(log *zap.Logger, err error) {
	w.dropped.Add(1)
	log.Info("email delivery interrupted by shutdown", zap.Error(err))
}
