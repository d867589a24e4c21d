package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// FormRelaySender posts lead fields to a FormSubmit-style email relay as a
// multipart form. It is the secondary notification channel used by the webhook
// delivery path; callers treat its failures as best-effort.
type FormRelaySender struct {
	endpoint   string
	to         string
	subject    string
	redirect   string
	httpClient *http.Client
	logger     *logging.Logger
}

// FormRelayConfig holds configuration for the form relay channel.
type FormRelayConfig struct {
	Endpoint string
	To       string
	Subject  string
	Redirect string
	Timeout  time.Duration
}

// NewFormRelaySender creates a form relay sender. Returns nil when no endpoint
// is configured.
func NewFormRelaySender(cfg FormRelayConfig, logger *logging.Logger) *FormRelaySender {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "New enquiry from the website"
	}
	return &FormRelaySender{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		to:         strings.TrimSpace(cfg.To),
		subject:    subject,
		redirect:   strings.TrimSpace(cfg.Redirect),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts one lead to the relay. The relay renders the fields into an email;
// the `_`-prefixed fields are relay metadata, everything else is lead data.
func (s *FormRelaySender) Send(ctx context.Context, rec *leads.LeadRecord) error {
	if s == nil {
		return errors.New("notify: form relay not configured")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"_to":       s.to,
		"_subject":  s.subject,
		"_template": "table",
		"_captcha":  "false",
		"_next":     s.redirect,
		"name":      rec.Name,
		"phone":     rec.Phone,
		"email":     rec.Email,
		"service":   rec.Service,
		"district":  rec.District,
		"message":   rec.Message,
		"timestamp": rec.Timestamp.Format(time.RFC3339),
		"source":    rec.Source,
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return fmt.Errorf("notify: form relay encode: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("notify: form relay encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("notify: form relay request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("form relay send failed", "error", err)
		return fmt.Errorf("notify: form relay send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		s.logger.Warn("form relay returned error status", "status", resp.StatusCode)
		return fmt.Errorf("notify: form relay returned status %d", resp.StatusCode)
	}

	s.logger.Info("form relay notified", "district", rec.District, "service", rec.Service)
	return nil
}
