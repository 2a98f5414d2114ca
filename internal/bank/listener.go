package bank

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/domain"
)

// Listener names, used as metric labels and for Bank.Invocations.
const (
	PrintListenerName = "print"
	EmailListenerName = "email"
	DebugListenerName = "debug"
)

// Listener reacts to a client being added to a bank. OnClientAdded runs on
// the goroutine that called AddClient and must return quickly; the client
// must be treated as read-only.
type Listener interface {
	Name() string
	OnClientAdded(c *domain.Client)
	// Invocations counts OnClientAdded calls. It is never reset.
	Invocations() int64
}

// EmailSubmitter queues an email for asynchronous delivery.
// *worker.EmailWorker satisfies it.
type EmailSubmitter interface {
	Submit(e domain.Email) error
}

// PrintListener writes a line for every new client.
type PrintListener struct {
	out   io.Writer
	count atomic.Int64
}

func NewPrintListener(out io.Writer) *PrintListener {
	return &PrintListener{out: out}
}

func (l *PrintListener) Name() string { return PrintListenerName }

func (l *PrintListener) OnClientAdded(c *domain.Client) {
	fmt.Fprintf(l.out, "Client added: %s\n", c.Name)
	l.count.Add(1)
}

func (l *PrintListener) Invocations() int64 { return l.count.Load() }

// EmailRecipient is the destination of every welcome email.
const EmailRecipient = "Friend"

// EmailListener hands a welcome email to the email service. It only
// enqueues: delivery happens later on the service's own goroutine.
type EmailListener struct {
	out    io.Writer
	emails EmailSubmitter
	logger *zap.Logger
	count  atomic.Int64
}

func NewEmailListener(out io.Writer, emails EmailSubmitter, logger *zap.Logger) *EmailListener {
	return &EmailListener{out: out, emails: emails, logger: logger}
}

func (l *EmailListener) Name() string { return EmailListenerName }

// OnClientAdded never fails the registration: a rejected submission (the
// service is already shut down) is logged and the email is lost.
func (l *EmailListener) OnClientAdded(c *domain.Client) {
	fmt.Fprintf(l.out, "Notification email for client %s to be sent\n", c.Name)

	if err := l.emails.Submit(domain.Email{From: c.Name, To: EmailRecipient}); err != nil {
		l.logger.Warn("welcome email not queued",
			zap.String("client", c.Name),
			zap.Error(err),
		)
	}
	l.count.Add(1)
}

func (l *EmailListener) Invocations() int64 { return l.count.Load() }

// DebugListener writes the registration date of every new client.
type DebugListener struct {
	out   io.Writer
	now   func() time.Time
	count atomic.Int64
}

func NewDebugListener(out io.Writer) *DebugListener {
	return &DebugListener{out: out, now: time.Now}
}

func (l *DebugListener) Name() string { return DebugListenerName }

func (l *DebugListener) OnClientAdded(c *domain.Client) {
	fmt.Fprintf(l.out, "Client %s added on: %s\n", c.Name, l.now().Format("Monday, January 2, 2006"))
	l.count.Add(1)
}

func (l *DebugListener) Invocations() int64 { return l.count.Load() }

// compile-time checks
var (
	_ Listener = (*PrintListener)(nil)
	_ Listener = (*EmailListener)(nil)
	_ Listener = (*DebugListener)(nil)
)
