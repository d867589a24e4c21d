package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

func testPayload() LeadPayload {
	return LeadPayload{
		Name:      "Asha Patil",
		Phone:     "+919876543210",
		Email:     "asha@example.com",
		Service:   "Solar Installation",
		District:  "Pune",
		Timestamp: "2026-08-01T10:30:00Z",
		Source:    "website",
	}
}

func TestNewRequiresEndpointAndKey(t *testing.T) {
	_, err := New(Config{APIKey: "k"})
	assert.Error(t, err)

	_, err = New(Config{Endpoint: "https://crm.example.com"})
	assert.Error(t, err)

	c, err := New(Config{Endpoint: "https://crm.example.com", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestSubmitLeadSendsBearerAuth(t *testing.T) {
	var gotAuth, gotContentType string
	var gotPayload LeadPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"lead-42","status":"created"}`))
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL, APIKey: "secret", Logger: logging.New("error")})
	require.NoError(t, err)

	data, err := client.SubmitLead(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Asha Patil", gotPayload.Name)
	assert.JSONEq(t, `{"id":"lead-42","status":"created"}`, string(data))
}

func TestSubmitLeadUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL, APIKey: "secret", Logger: logging.New("error")})
	require.NoError(t, err)

	_, err = client.SubmitLead(context.Background(), testPayload())
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.Contains(t, upstream.Body, "quota exceeded")
}

func TestSubmitLeadNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	client, err := New(Config{Endpoint: srv.URL, APIKey: "secret", Logger: logging.New("error")})
	require.NoError(t, err)

	data, err := client.SubmitLead(context.Background(), testPayload())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
