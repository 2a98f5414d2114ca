package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/notifyhub/bankapp/internal/domain"
)

// ErrCircuitOpen is returned while the webhook breaker rejects calls.
var ErrCircuitOpen = errors.New("webhook circuit breaker is open")

// WebhookRequest is the JSON body posted to the mail gateway.
type WebhookRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
}

// WebhookProvider delivers emails by POSTing them to an HTTP mail gateway.
// Calls go through a circuit breaker so a dead gateway fails fast instead
// of holding the single email worker for the full timeout on every item.
type WebhookProvider struct {
	url        string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[struct{}]
}

func NewWebhookProvider(url string, timeout time.Duration) *WebhookProvider {
	return &WebhookProvider{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "email-webhook",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Send posts the email and expects any 2xx status.
func (p *WebhookProvider) Send(ctx context.Context, e domain.Email) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.post(ctx, e)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return err
}

// State exposes the breaker state ("closed", "half-open", "open").
func (p *WebhookProvider) State() string {
	return p.cb.State().String()
}

func (p *WebhookProvider) post(ctx context.Context, e domain.Email) error {
	body, err := json.Marshal(WebhookRequest{
		From:    e.From,
		To:      e.To,
		Subject: "Welcome " + e.From,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected gateway status: %d", resp.StatusCode)
	}
	return nil
}

var _ Provider = (*WebhookProvider)(nil)
