package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// SecondaryNotifier is the optional second channel the webhook path fans out
// to (an email relay). Its failures never affect the delivery outcome.
type SecondaryNotifier interface {
	Send(ctx context.Context, rec *leads.LeadRecord) error
}

// WebhookDeliverer posts the lead as JSON to the configured CRM webhook in
// fire-and-forget mode: the upstream status and body are deliberately not
// inspected, so success means "dispatched without a transport error". This is a
// known blind spot in the delivery guarantee, not a bug.
type WebhookDeliverer struct {
	url        string
	httpClient *http.Client
	secondary  SecondaryNotifier
	logger     *logging.Logger
}

// NewWebhookDeliverer creates a webhook deliverer. secondary may be nil.
func NewWebhookDeliverer(url string, secondary SecondaryNotifier, logger *logging.Logger) *WebhookDeliverer {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookDeliverer{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		secondary:  secondary,
		logger:     logger,
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func (d *WebhookDeliverer) WithHTTPClient(client *http.Client) *WebhookDeliverer {
	if client != nil {
		d.httpClient = client
	}
	return d
}

func (d *WebhookDeliverer) Method() config.DeliveryMethod {
	return config.DeliveryWebhook
}

// Deliver dispatches the primary webhook POST and the optional secondary
// notification concurrently and waits for both to settle. Only a primary
// transport error fails the delivery.
func (d *WebhookDeliverer) Deliver(ctx context.Context, rec *leads.LeadRecord) (*leads.Outcome, error) {
	var wg sync.WaitGroup
	var primaryErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		primaryErr = d.post(ctx, rec)
	}()

	if d.secondary != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.secondary.Send(ctx, rec); err != nil {
				// Best-effort channel: swallow the failure.
				d.logger.Warn("secondary notification failed", "error", err)
			}
		}()
	}

	wg.Wait()

	if primaryErr != nil {
		return nil, primaryErr
	}
	return &leads.Outcome{
		Success: true,
		Message: "Data submitted successfully",
	}, nil
}

func (d *WebhookDeliverer) post(ctx context.Context, rec *leads.LeadRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("delivery: encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("delivery: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery: webhook dispatch failed: %w", err)
	}
	// Response visibility is deliberately discarded; drain and move on.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()

	d.logger.Info("webhook dispatched", "district", rec.District, "service", rec.Service)
	return nil
}
