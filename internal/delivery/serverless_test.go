package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urjavolt/solar-leads-platform/internal/leads"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

func TestServerlessDeliverSuccess(t *testing.T) {
	var got leads.LeadRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Form submitted successfully","data":{"id":"lead-42"}}`))
	}))
	defer srv.Close()

	d := NewServerlessDeliverer(srv.URL, logging.New("error"))
	outcome, err := d.Deliver(context.Background(), testRecord())

	require.NoError(t, err)
	require.True(t, outcome.Success)
	assert.Equal(t, "Form submitted successfully", outcome.Message)
	assert.Contains(t, string(outcome.Data), "lead-42")
	assert.Equal(t, "Asha Patil", got.Name)
}

func TestServerlessDeliverErrorBodyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"CRM integration not configured properly"}`))
	}))
	defer srv.Close()

	d := NewServerlessDeliverer(srv.URL, logging.New("error"))
	outcome, err := d.Deliver(context.Background(), testRecord())

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Contains(t, err.Error(), "CRM integration not configured properly")
}

func TestServerlessDeliverErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	d := NewServerlessDeliverer(srv.URL, logging.New("error"))
	_, err := d.Deliver(context.Background(), testRecord())

	require.Error(t, err)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusBadGateway))
}
