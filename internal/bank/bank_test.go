package bank_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notifyhub/bankapp/internal/bank"
	"github.com/notifyhub/bankapp/internal/domain"
	"github.com/notifyhub/bankapp/internal/provider"
	"github.com/notifyhub/bankapp/internal/worker"
)

// orderListener records, into a shared log, every time it is called.
type orderListener struct {
	name string
	log  *[]string
	n    int64
}

func (l *orderListener) Name() string { return l.name }
func (l *orderListener) OnClientAdded(c *domain.Client) {
	*l.log = append(*l.log, l.name+":"+c.Name)
	l.n++
}
func (l *orderListener) Invocations() int64 { return l.n }

// submitterFunc adapts a function to bank.EmailSubmitter.
type submitterFunc func(domain.Email) error

func (f submitterFunc) Submit(e domain.Email) error { return f(e) }

func newEmailWorker(t *testing.T) *worker.EmailWorker {
	t.Helper()
	w := worker.New(provider.Func(func(context.Context, domain.Email) error { return nil }), zap.NewNop())
	t.Cleanup(w.Shutdown)
	return w
}

func TestBank_ListenersCalledInRegistrationOrder(t *testing.T) {
	var calls []string
	b := bank.New(
		&orderListener{name: "first", log: &calls},
		&orderListener{name: "second", log: &calls},
		&orderListener{name: "third", log: &calls},
	)

	require.NoError(t, b.AddClient(domain.NewClient("John", domain.GenderMale)))
	require.NoError(t, b.AddClient(domain.NewClient("Jane", domain.GenderFemale)))

	assert.Equal(t, []string{
		"first:John", "second:John", "third:John",
		"first:Jane", "second:Jane", "third:Jane",
	}, calls)
}

// TestBank_DuplicateClient covers two clients with identical name and
// gender: the second add fails and no listener fires again.
func TestBank_DuplicateClient(t *testing.T) {
	w := newEmailWorker(t)
	b := bank.NewDefault(io.Discard, w, zap.NewNop())

	require.NoError(t, b.AddClient(domain.NewClient("John", domain.GenderMale)))

	twin := domain.NewClient("John", domain.GenderMale)
	twin.AddAccount(domain.NewSavingAccount(7, 10))
	err := b.AddClient(twin)

	assert.ErrorIs(t, err, domain.ErrClientExists)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, int64(1), b.PrintedClients())
	assert.Equal(t, int64(1), b.EmailedClients())
	assert.Equal(t, int64(1), b.DebuggedClients())

	// Same name, other gender is another client.
	require.NoError(t, b.AddClient(domain.NewClient("John", domain.GenderFemale)))
	assert.Equal(t, 2, b.Len())
}

func TestBank_InvalidClient(t *testing.T) {
	var calls []string
	b := bank.New(&orderListener{name: "only", log: &calls})

	assert.ErrorIs(t, b.AddClient(domain.NewClient("", domain.GenderMale)), domain.ErrInvalidClient)
	assert.ErrorIs(t, b.AddClient(nil), domain.ErrInvalidClient)
	assert.Empty(t, calls)
	assert.Equal(t, 0, b.Len())
}

// TestBank_FanOutCompleteness checks the print and debug reactions are
// visible as soon as AddClient returns, while the email shows up only once
// the worker has delivered it.
func TestBank_FanOutCompleteness(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var delivered []domain.Email
	w := worker.New(provider.Func(func(ctx context.Context, e domain.Email) error {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		mu.Lock()
		delivered = append(delivered, e)
		mu.Unlock()
		return nil
	}), zap.NewNop())
	t.Cleanup(w.Shutdown)

	b := bank.NewDefault(io.Discard, w, zap.NewNop())
	require.NoError(t, b.AddClient(domain.NewClient("John", domain.GenderMale)))

	assert.Equal(t, int64(1), b.PrintedClients())
	assert.Equal(t, int64(1), b.EmailedClients())
	assert.Equal(t, int64(1), b.DebuggedClients())
	assert.Equal(t, int64(0), w.Delivered(), "delivery must not happen on the AddClient goroutine")

	close(release)
	require.Eventually(t, func() bool { return w.Delivered() == 1 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.Email{{From: "John", To: bank.EmailRecipient}}, delivered)
}

func TestBank_Transcript(t *testing.T) {
	var out bytes.Buffer
	var queued []domain.Email
	b := bank.NewDefault(&out, submitterFunc(func(e domain.Email) error {
		queued = append(queued, e)
		return nil
	}), zap.NewNop())

	require.NoError(t, b.AddClient(domain.NewClient("John", domain.GenderMale)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Client added: John", lines[0])
	assert.Equal(t, "Notification email for client John to be sent", lines[1])
	assert.Regexp(t, regexp.MustCompile(`^Client John added on: \w+day, \w+ \d{1,2}, \d{4}$`), lines[2])
	assert.Equal(t, []domain.Email{{From: "John", To: "Friend"}}, queued)
}

// TestBank_EmailServiceClosed verifies a closed email service does not
// fail the registration.
func TestBank_EmailServiceClosed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := newEmailWorker(t)
	w.Shutdown()

	b := bank.NewDefault(io.Discard, w, zap.New(core))
	require.NoError(t, b.AddClient(domain.NewClient("John", domain.GenderMale)))

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, int64(1), b.EmailedClients())

	entries := logs.FilterMessage("welcome email not queued").All()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ErrServiceClosed.Error(), entries[0].ContextMap()["error"])
}

func TestBank_ClientsIsASnapshot(t *testing.T) {
	b := bank.New()
	john := domain.NewClient("John", domain.GenderMale)
	require.NoError(t, b.AddClient(john))

	clients := b.Clients()
	clients[0] = domain.NewClient("Mallory", domain.GenderFemale)
	_ = append(clients, domain.NewClient("Eve", domain.GenderFemale))

	assert.Equal(t, []*domain.Client{john}, b.Clients())
	assert.True(t, b.Contains(domain.NewClient("John", domain.GenderMale)))
	assert.False(t, b.Contains(domain.NewClient("Mallory", domain.GenderFemale)))
}

func TestBank_ConcurrentAddClient(t *testing.T) {
	w := newEmailWorker(t)
	b := bank.NewDefault(io.Discard, w, zap.NewNop())

	const goroutines = 8
	const clients = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Every goroutine tries every client; only one add per client wins.
			for i := 0; i < clients; i++ {
				_ = b.AddClient(domain.NewClient(fmt.Sprintf("client-%d", i), domain.GenderMale))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, clients, b.Len())
	assert.Equal(t, int64(clients), b.PrintedClients())
	assert.Equal(t, int64(clients), b.EmailedClients())
	assert.Equal(t, int64(clients), b.DebuggedClients())
	require.Eventually(t, func() bool { return w.Delivered() == clients }, 2*time.Second, 5*time.Millisecond)
}

func TestBank_Listeners(t *testing.T) {
	b := bank.NewDefault(io.Discard, submitterFunc(func(domain.Email) error { return nil }), zap.NewNop())

	var names []string
	for _, l := range b.Listeners() {
		names = append(names, l.Name())
	}
	assert.Equal(t, []string{bank.PrintListenerName, bank.EmailListenerName, bank.DebugListenerName}, names)
}
