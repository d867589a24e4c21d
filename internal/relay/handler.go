// Package relay implements the server-side relay that forwards form
// submissions to the CRM while keeping the API credential off the client.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/urjavolt/solar-leads-platform/internal/crm"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/internal/notify"
	"github.com/urjavolt/solar-leads-platform/internal/observability/metrics"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// Request is the submission payload accepted by the relay. Only name and phone
// are enforced here; the full field validation happens client-side before the
// pipeline ever reaches this endpoint.
type Request struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Service   string `json:"service"`
	District  string `json:"district"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// Response is the relay's structured JSON body.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Handler receives lead submissions over HTTP, attaches the CRM credential and
// forwards them upstream. It is also deployable as a standalone serverless
// function, see cmd/relay-lambda.
type Handler struct {
	client     *crm.Client // nil when CRM endpoint/key are not configured
	notifier   *notify.Service
	metrics    *metrics.LeadMetrics
	production bool
	logger     *logging.Logger
}

// NewHandler creates the relay handler. client may be nil; requests then fail
// with a configuration fault.
func NewHandler(client *crm.Client, notifier *notify.Service, m *metrics.LeadMetrics, production bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		client:     client,
		notifier:   notifier,
		metrics:    m,
		production: production,
		logger:     logger,
	}
}

// ServeHTTP implements the relay HTTP contract: POST only, structured JSON
// responses for every path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respond(w, http.StatusMethodNotAllowed, Response{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	status, resp := h.Process(r.Context(), req)
	h.respond(w, status, resp)
}

// Process runs the relay logic for one decoded payload and returns the HTTP
// status plus response body. Shared by the HTTP handler and the Lambda entry.
func (h *Handler) Process(ctx context.Context, req Request) (int, Response) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return http.StatusBadRequest, Response{
			Success: false,
			Message: "Name and phone number are required",
		}
	}

	if h.client == nil {
		h.logger.Error("CRM configuration missing")
		return http.StatusInternalServerError, Response{
			Success: false,
			Message: "CRM integration not configured properly",
		}
	}

	payload := h.normalize(req)

	start := time.Now()
	data, err := h.client.SubmitLead(ctx, payload)
	h.metrics.ObserveUpstreamLatency(err == nil, time.Since(start).Seconds())
	if err != nil {
		h.logger.Error("CRM forwarding failed", "error", err)

		resp := Response{
			Success: false,
			Message: "Failed to submit form. Please try again later.",
		}
		if !h.production {
			resp.Error = upstreamDetail(err)
		}
		return http.StatusInternalServerError, resp
	}

	h.notifyOperators(payload)

	h.logger.Info("lead forwarded to CRM", "service", payload.Service, "district", payload.District)
	return http.StatusOK, Response{
		Success: true,
		Message: "Form submitted successfully",
		Data:    data,
	}
}

// normalize applies the relay-side defaults before forwarding.
func (h *Handler) normalize(req Request) crm.LeadPayload {
	service := req.Service
	if strings.TrimSpace(service) == "" {
		service = "Not specified"
	}
	source := req.Source
	if strings.TrimSpace(source) == "" {
		source = leads.SourceWebsite
	}
	timestamp := strings.TrimSpace(req.Timestamp)
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return crm.LeadPayload{
		Name:      strings.TrimSpace(req.Name),
		Phone:     leads.NormalizePhone(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Service:   service,
		District:  req.District,
		Message:   req.Message,
		Timestamp: timestamp,
		Source:    source,
	}
}

// notifyOperators emails the configured operators in the background.
// Notification failures never affect the relay response.
func (h *Handler) notifyOperators(payload crm.LeadPayload) {
	if h.notifier == nil {
		return
	}
	rec := &leads.LeadRecord{
		Name:     payload.Name,
		Phone:    payload.Phone,
		Email:    payload.Email,
		Service:  payload.Service,
		District: payload.District,
		Message:  payload.Message,
		Source:   payload.Source,
	}
	if parsed, err := time.Parse(time.RFC3339, payload.Timestamp); err == nil {
		rec.Timestamp = parsed
	} else {
		rec.Timestamp = time.Now().UTC()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.notifier.LeadReceived(ctx, rec); err != nil {
			h.logger.Warn("operator notification failed", "error", err)
		}
	}()
}

func (h *Handler) respond(w http.ResponseWriter, status int, body Response) {
	h.metrics.ObserveRelayRequest(strconv.Itoa(status))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func upstreamDetail(err error) string {
	var upstream *crm.UpstreamError
	if errors.As(err, &upstream) && upstream.Body != "" {
		return upstream.Body
	}
	return err.Error()
}
