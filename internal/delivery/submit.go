package delivery

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/internal/observability/metrics"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

var submitTracer = otel.Tracer("urjavolt.internal.delivery")

// NotConfiguredMessage is surfaced when no CRM delivery mechanism is set up.
const NotConfiguredMessage = "No CRM integration configured. Please contact the administrator."

// genericFailureMessage hides transient delivery detail from end users.
const genericFailureMessage = "Failed to submit form. Please try again later."

// MethodSelector resolves the active delivery mechanism. In production this is
// config.Config.DeliveryMethod; tests substitute synthetic selectors.
type MethodSelector func() config.DeliveryMethod

// Submitter wraps a Deliverer call with bounded retry. Submit never fails with
// an error: it always resolves to a terminal tagged Outcome.
type Submitter struct {
	selector    MethodSelector
	adapters    map[config.DeliveryMethod]Deliverer
	maxAttempts int
	baseDelay   time.Duration
	metrics     *metrics.LeadMetrics
	logger      *logging.Logger
}

// NewSubmitter creates the retry orchestrator over the given adapters.
func NewSubmitter(selector MethodSelector, adapters []Deliverer, m *metrics.LeadMetrics, logger *logging.Logger) *Submitter {
	if logger == nil {
		logger = logging.Default()
	}
	byMethod := make(map[config.DeliveryMethod]Deliverer, len(adapters))
	for _, a := range adapters {
		byMethod[a.Method()] = a
	}
	return &Submitter{
		selector:    selector,
		adapters:    byMethod,
		maxAttempts: 4,
		baseDelay:   2 * time.Second,
		metrics:     m,
		logger:      logger,
	}
}

// WithMaxAttempts overrides the total attempt budget (first try included).
func (s *Submitter) WithMaxAttempts(n int) *Submitter {
	if n > 0 {
		s.maxAttempts = n
	}
	return s
}

// WithBaseDelay overrides the backoff base delay.
func (s *Submitter) WithBaseDelay(d time.Duration) *Submitter {
	if d > 0 {
		s.baseDelay = d
	}
	return s
}

// Submit resolves the active delivery mechanism and invokes it, retrying on
// failure with linear backoff: the wait before attempt n is baseDelay * (n-1),
// i.e. 2s, 4s, 6s at the defaults. Retries re-invoke the same adapter with the
// same unmodified record, strictly sequentially.
func (s *Submitter) Submit(ctx context.Context, rec *leads.LeadRecord) *leads.Outcome {
	method := s.selector()
	if method == config.DeliveryNone {
		s.logger.Error("lead submission with no CRM integration configured")
		return &leads.Outcome{Success: false, Error: NotConfiguredMessage}
	}

	adapter, ok := s.adapters[method]
	if !ok {
		s.logger.Error("no adapter registered for delivery method", "method", method)
		return &leads.Outcome{Success: false, Error: NotConfiguredMessage}
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := s.baseDelay * time.Duration(attempt-1)
			s.logger.Info("retrying lead delivery",
				"method", method,
				"attempt", attempt,
				"max_attempts", s.maxAttempts,
				"wait", wait,
			)
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				return s.failure(method, lastErr)
			case <-time.After(wait):
			}
		}

		attemptCtx, span := submitTracer.Start(ctx, "delivery.attempt")
		span.SetAttributes(
			attribute.String("urjavolt.delivery.method", string(method)),
			attribute.Int("urjavolt.delivery.attempt", attempt),
		)

		outcome, err := adapter.Deliver(attemptCtx, rec)
		s.metrics.ObserveDeliveryAttempt(string(method), err)
		if err == nil {
			span.End()
			s.metrics.ObserveSubmission(string(method), true)
			return outcome
		}
		span.RecordError(err)
		span.End()

		lastErr = err
		s.logger.Warn("lead delivery attempt failed", "method", method, "attempt", attempt, "error", err)
	}

	return s.failure(method, lastErr)
}

func (s *Submitter) failure(method config.DeliveryMethod, lastErr error) *leads.Outcome {
	s.metrics.ObserveSubmission(string(method), false)

	message := genericFailureMessage
	if lastErr != nil && lastErr.Error() != "" {
		message = lastErr.Error()
	}
	s.logger.Error("lead delivery exhausted retries", "method", method, "error", message)
	return &leads.Outcome{Success: false, Error: message}
}

var _ leads.Submitter = (*Submitter)(nil)
