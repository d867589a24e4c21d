package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

func testLead() *leads.LeadRecord {
	return &leads.LeadRecord{
		Service:   "Solar Installation",
		Name:      "Asha Patil",
		Phone:     "+919876543210",
		Email:     "asha@example.com",
		District:  "Pune",
		Message:   "Rooftop quote please",
		Timestamp: time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Source:    leads.SourceWebsite,
	}
}

func TestFormRelaySender_NilWithoutEndpoint(t *testing.T) {
	sender := NewFormRelaySender(FormRelayConfig{Endpoint: "  "}, nil)
	if sender != nil {
		t.Fatal("expected nil sender when endpoint is empty")
	}
}

func TestFormRelaySender_SendsMultipartFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got = make(map[string]string)
		for key, values := range r.MultipartForm.Value {
			got[key] = values[0]
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewFormRelaySender(FormRelayConfig{
		Endpoint: srv.URL,
		To:       "ops@urjavolt.in",
		Subject:  "New enquiry",
		Redirect: "https://urjavolt.in/thanks",
	}, logging.New("error"))
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), testLead())
	require.NoError(t, err)

	assert.Equal(t, "ops@urjavolt.in", got["_to"])
	assert.Equal(t, "New enquiry", got["_subject"])
	assert.Equal(t, "table", got["_template"])
	assert.Equal(t, "false", got["_captcha"])
	assert.Equal(t, "https://urjavolt.in/thanks", got["_next"])
	assert.Equal(t, "Asha Patil", got["name"])
	assert.Equal(t, "+919876543210", got["phone"])
	assert.Equal(t, "Pune", got["district"])
	assert.Equal(t, "2026-08-01T10:30:00Z", got["timestamp"])
	assert.Equal(t, "website", got["source"])
}

func TestFormRelaySender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	sender := NewFormRelaySender(FormRelayConfig{Endpoint: srv.URL}, logging.New("error"))
	err := sender.Send(context.Background(), testLead())
	assert.Error(t, err)
}
