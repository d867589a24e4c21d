package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// Service emails operators when a lead is accepted. Notification failures are
// logged and reported but never block lead delivery.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

// LeadReceived notifies every configured operator about a new lead.
func (s *Service) LeadReceived(ctx context.Context, rec *leads.LeadRecord) error {
	if s == nil || s.email == nil || len(s.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("New lead: %s - %s", rec.Name, rec.Service)

	optional := ""
	if rec.Email != "" {
		optional += fmt.Sprintf("\nEmail: %s", rec.Email)
	}
	if rec.Message != "" {
		optional += fmt.Sprintf("\nMessage: %s", rec.Message)
	}

	body := fmt.Sprintf(`A new enquiry came in from the website.

Name: %s
Phone: %s
Service: %s
District: %s%s
Received: %s

Please respond within 24 hours.`,
		rec.Name, rec.Phone, rec.Service, rec.District, optional,
		rec.Timestamp.Format(time.RFC1123))

	var errs []error
	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send lead email", "error", err, "to", recipient)
			errs = append(errs, err)
			continue
		}
		s.logger.Info("notify: lead email sent", "to", recipient, "district", rec.District)
	}

	return errors.Join(errs...)
}
