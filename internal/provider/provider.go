package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/domain"
)

// Provider delivers a single email. Implementations must honour ctx: the
// email worker cancels it on shutdown to interrupt an in-flight delivery.
// Mocking this interface in tests gives full control over delivery outcome.
type Provider interface {
	Send(ctx context.Context, e domain.Email) error
}

// Func adapts a plain function to Provider.
type Func func(ctx context.Context, e domain.Email) error

func (f Func) Send(ctx context.Context, e domain.Email) error { return f(ctx, e) }

// DefaultSendDelay stands in for the network round trip of a real mail server.
const DefaultSendDelay = 100 * time.Millisecond

// LogProvider does not talk to any server. It prints the delivery line to
// out and waits for delay, which is how emails are "sent" in the demo.
type LogProvider struct {
	out    io.Writer
	delay  time.Duration
	logger *zap.Logger
}

func NewLogProvider(out io.Writer, delay time.Duration, logger *zap.Logger) *LogProvider {
	if out == nil {
		out = io.Discard
	}
	if delay < 0 {
		delay = 0
	}
	return &LogProvider{out: out, delay: delay, logger: logger}
}

func (p *LogProvider) Send(ctx context.Context, e domain.Email) error {
	fmt.Fprintf(p.out, "Sending email to %s\n", e.To)
	p.logger.Debug("simulating email delivery",
		zap.String("from", e.From),
		zap.String("to", e.To),
		zap.Duration("delay", p.delay),
	)

	if p.delay == 0 {
		return ctx.Err()
	}

	t := time.NewTimer(p.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// compile-time checks
var (
	_ Provider = (*LogProvider)(nil)
	_ Provider = Func(nil)
)
