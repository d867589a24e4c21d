// Package crm wraps the upstream CRM's lead intake API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

var tracer = otel.Tracer("urjavolt.internal.crm")

const defaultUserAgent = "urjavolt-lead-relay/0.1"

// Config controls how the CRM client behaves.
type Config struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
}

// Client posts lead records to the CRM intake endpoint with bearer
// authentication. The credential never leaves the server side.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
}

// LeadPayload is the normalized subset of lead fields the CRM accepts.
type LeadPayload struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Service   string `json:"service"`
	District  string `json:"district"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// UpstreamError describes a non-2xx response from the CRM API. The body is kept
// for server-side logging; it must not be shown to end users in production.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("crm: API returned %d", e.Status)
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("crm: endpoint is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("crm: API key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// SubmitLead forwards one lead payload to the CRM. On success the parsed JSON
// response body is returned so the relay can echo it back to the client.
func (c *Client) SubmitLead(ctx context.Context, payload LeadPayload) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "crm.submit_lead")
	defer span.End()
	span.SetAttributes(
		attribute.String("urjavolt.service", payload.Service),
		attribute.String("urjavolt.district", payload.District),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("crm: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("crm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("crm: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("CRM API error", "status", resp.StatusCode, "body", string(respBody))
		upstreamErr := &UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
		span.RecordError(upstreamErr)
		return nil, upstreamErr
	}

	if len(respBody) == 0 || !json.Valid(respBody) {
		// Some CRMs acknowledge with an empty or non-JSON body.
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(respBody), nil
}
