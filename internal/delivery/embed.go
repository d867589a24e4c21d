package delivery

import (
	"context"
	"errors"

	"github.com/urjavolt/solar-leads-platform/internal/config"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
)

// ErrEmbedDelivery is returned whenever the embed deliverer is invoked. The
// embedded CRM widget owns the whole submission flow in the browser; reaching
// this adapter programmatically is a caller error, not a transient failure.
var ErrEmbedDelivery = errors.New("delivery: embedded form submission is handled by the CRM widget")

// EmbedDeliverer is the deliberate dead-end branch of the strategy surface. It
// exists so the three configured mechanisms are all representable; it never
// succeeds.
type EmbedDeliverer struct{}

// NewEmbedDeliverer creates the embed deliverer.
func NewEmbedDeliverer() *EmbedDeliverer {
	return &EmbedDeliverer{}
}

func (d *EmbedDeliverer) Method() config.DeliveryMethod {
	return config.DeliveryEmbed
}

// Deliver always fails. See ErrEmbedDelivery.
func (d *EmbedDeliverer) Deliver(_ context.Context, _ *leads.LeadRecord) (*leads.Outcome, error) {
	return nil, ErrEmbedDelivery
}
