package bank

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/domain"
)

// Bank is the client registry. Every successful AddClient fans out to the
// listeners given at construction, in that order, before returning.
//
// The listener slice is never modified after New, so the fan-out reads it
// without locking. mu only guards the client set.
type Bank struct {
	listeners []Listener

	mu      sync.RWMutex
	clients []*domain.Client
	index   map[domain.ClientKey]struct{}
}

func New(listeners ...Listener) *Bank {
	ls := make([]Listener, len(listeners))
	copy(ls, listeners)
	return &Bank{
		listeners: ls,
		index:     make(map[domain.ClientKey]struct{}),
	}
}

// NewDefault wires the standard reactions: print, welcome email, debug.
func NewDefault(out io.Writer, emails EmailSubmitter, logger *zap.Logger) *Bank {
	return New(
		NewPrintListener(out),
		NewEmailListener(out, emails, logger),
		NewDebugListener(out),
	)
}

// AddClient registers c and notifies every listener on the calling
// goroutine. A client with the same name and gender as a registered one is
// rejected with domain.ErrClientExists; the bank and the listeners are then
// left untouched.
func (b *Bank) AddClient(c *domain.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	if _, ok := b.index[c.Key()]; ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrClientExists, c.Name)
	}
	b.index[c.Key()] = struct{}{}
	b.clients = append(b.clients, c)
	b.mu.Unlock()

	for _, l := range b.listeners {
		l.OnClientAdded(c)
	}
	return nil
}

// Clients returns the registered clients in registration order. The slice is
// a copy; changing it does not affect the bank.
func (b *Bank) Clients() []*domain.Client {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*domain.Client, len(b.clients))
	copy(out, b.clients)
	return out
}

// Contains reports whether a client with c's identity is registered.
func (b *Bank) Contains(c *domain.Client) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.index[c.Key()]
	return ok
}

func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Listeners returns the listeners in invocation order.
func (b *Bank) Listeners() []Listener {
	out := make([]Listener, len(b.listeners))
	copy(out, b.listeners)
	return out
}

// Invocations sums the counters of the listeners with the given name.
func (b *Bank) Invocations(name string) int64 {
	var n int64
	for _, l := range b.listeners {
		if l.Name() == name {
			n += l.Invocations()
		}
	}
	return n
}

func (b *Bank) PrintedClients() int64  { return b.Invocations(PrintListenerName) }
func (b *Bank) EmailedClients() int64  { return b.Invocations(EmailListenerName) }
func (b *Bank) DebuggedClients() int64 { return b.Invocations(DebugListenerName) }
