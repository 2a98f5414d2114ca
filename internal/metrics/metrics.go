package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notifyhub/bankapp/internal/domain"
)

// Metrics groups the Prometheus instruments of the email pipeline.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	EmailsSent    prometheus.Counter
	EmailsFailed  prometheus.Counter
	EmailLatency  prometheus.Histogram
	EmailQueueLen prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EmailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bank_emails_sent_total",
			Help: "Total number of welcome emails delivered.",
		}),
		EmailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bank_emails_failed_total",
			Help: "Total number of welcome emails whose delivery failed.",
		}),
		EmailLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bank_email_delivery_seconds",
			Help:    "Delivery latency from dequeue to provider acknowledgement.",
			Buckets: prometheus.DefBuckets,
		}),
		EmailQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bank_email_queue_length",
			Help: "Current number of emails waiting for delivery.",
		}),
	}

	reg.MustRegister(
		m.EmailsSent,
		m.EmailsFailed,
		m.EmailLatency,
		m.EmailQueueLen,
	)

	return m
}

// WorkerHooks returns the callbacks expected by worker.Hooks.
// Centralises the prometheus observation calls so the worker stays import-free.
func (m *Metrics) WorkerHooks() (
	onSent func(domain.Email, time.Duration),
	onFailed func(domain.Email, error),
) {
	onSent = func(_ domain.Email, latency time.Duration) {
		m.EmailsSent.Inc()
		m.EmailLatency.Observe(latency.Seconds())
	}
	onFailed = func(domain.Email, error) {
		m.EmailsFailed.Inc()
	}
	return
}

// QueueObserver feeds the queue length gauge.
func (m *Metrics) QueueObserver() func(int) {
	return func(n int) { m.EmailQueueLen.Set(float64(n)) }
}

// ListenerCounter is one registration listener as seen by metrics.
// bank.Listener satisfies it.
type ListenerCounter interface {
	Name() string
	Invocations() int64
}

// BankSource is satisfied by *bank.Bank.
type BankSource interface {
	Len() int
}

// RegisterBank exposes the registry size and the per-listener invocation
// counters. Values are read at scrape time, so the bank keeps its own
// atomic counters as the single source of truth.
func RegisterBank(reg prometheus.Registerer, b BankSource, listeners []ListenerCounter) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "bank_clients",
		Help: "Number of registered clients.",
	}, func() float64 { return float64(b.Len()) }))

	for _, l := range listeners {
		reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name:        "bank_listener_invocations_total",
			Help:        "Number of times a registration listener was invoked.",
			ConstLabels: prometheus.Labels{"listener": l.Name()},
		}, func() float64 { return float64(l.Invocations()) }))
	}
}
