package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// ServerlessDeliverer posts the lead as JSON to the relay endpoint, which holds
// the CRM credential. Unlike the webhook path the response is fully inspected.
type ServerlessDeliverer struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewServerlessDeliverer creates a serverless deliverer targeting the relay
// submit URL.
func NewServerlessDeliverer(url string, logger *logging.Logger) *ServerlessDeliverer {
	if logger == nil {
		logger = logging.Default()
	}
	return &ServerlessDeliverer{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func (d *ServerlessDeliverer) WithHTTPClient(client *http.Client) *ServerlessDeliverer {
	if client != nil {
		d.httpClient = client
	}
	return d
}

func (d *ServerlessDeliverer) Method() config.DeliveryMethod {
	return config.DeliveryServerless
}

// Deliver posts the record to the relay and maps its response: a non-2xx status
// is a failure whose message comes from the JSON error body when parseable,
// falling back to the HTTP status text.
func (d *ServerlessDeliverer) Deliver(ctx context.Context, rec *leads.LeadRecord) (*leads.Outcome, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("delivery: encode relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("delivery: build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delivery: relay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("delivery: read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Message string `json:"message"`
		}
		message := http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			message = errResp.Message
		}
		return nil, fmt.Errorf("delivery: relay submission failed: %s", message)
	}

	var parsed struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(respBody, &parsed)

	d.logger.Info("relay submission accepted", "district", rec.District, "service", rec.Service)
	return &leads.Outcome{
		Success: true,
		Message: parsed.Message,
		Data:    json.RawMessage(respBody),
	}, nil
}
