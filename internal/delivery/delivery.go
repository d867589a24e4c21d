// Package delivery implements the CRM delivery mechanisms and the retry
// orchestration around them.
package delivery

import (
	"context"

	"github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
)

// Deliverer delivers one lead record to the CRM through a single mechanism.
// A non-nil error signals a delivery failure the orchestrator may retry.
type Deliverer interface {
	Method() config.DeliveryMethod
	Deliver(ctx context.Context, rec *leads.LeadRecord) (*leads.Outcome, error)
}
