package notify

import (
	"context"
	"testing"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "noreply@urjavolt.in",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "noreply@urjavolt.in",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "UrjaVolt Energy" {
		t.Errorf("expected default from name, got %q", sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "ops@urjavolt.in",
		Subject: "Test",
		Body:    "Test body",
	})
	if err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	sender := NewSESSender(nil, SESConfig{FromEmail: "noreply@urjavolt.in"}, nil)
	if sender != nil {
		t.Error("expected nil sender when client is nil")
	}
}

func TestStubEmailSender(t *testing.T) {
	sender := NewStubEmailSender(nil)
	if err := sender.Send(context.Background(), EmailMessage{To: "ops@urjavolt.in"}); err != nil {
		t.Fatalf("stub sender must not fail: %v", err)
	}
}
