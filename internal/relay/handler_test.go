package relay

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urjavolt/solar-leads-platform/internal/crm"
	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

func newTestHandler(t *testing.T, upstream http.HandlerFunc, production bool) (*Handler, *httptest.Server) {
	t.Helper()
	var client *crm.Client
	var srv *httptest.Server
	if upstream != nil {
		srv = httptest.NewServer(upstream)
		t.Cleanup(srv.Close)
		var err error
		client, err = crm.New(crm.Config{Endpoint: srv.URL, APIKey: "secret", Logger: logging.New("error")})
		require.NoError(t, err)
	}
	return NewHandler(client, nil, nil, production, logging.New("error")), srv
}

func postJSON(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/submit", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestRelayRejectsNonPost(t *testing.T) {
	handler, _ := newTestHandler(t, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/submit", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Method not allowed", resp.Message)
}

func TestRelayRequiresNameAndPhone(t *testing.T) {
	handler, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, false)

	w := postJSON(t, handler, Request{Phone: "9876543210"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)

	w = postJSON(t, handler, Request{Name: "Asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelayConfigurationFault(t *testing.T) {
	handler, _ := newTestHandler(t, nil, false) // no CRM client

	w := postJSON(t, handler, Request{Name: "A", Phone: "123"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "CRM integration not configured properly", resp.Message)
}

func TestRelayForwardsWithDefaults(t *testing.T) {
	var got crm.LeadPayload
	var gotAuth string
	handler, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"lead-7"}`))
	}, false)

	w := postJSON(t, handler, Request{
		Name:     "Asha Patil",
		Phone:    "098765 43210",
		District: "Pune",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Form submitted successfully", resp.Message)
	assert.Contains(t, string(resp.Data), "lead-7")

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "Not specified", got.Service, "service defaults when absent")
	assert.Equal(t, "website", got.Source, "source defaults when absent")
	assert.Equal(t, "", got.Email)
	assert.Equal(t, "+919876543210", got.Phone, "phone is normalized to E.164")
	assert.NotEmpty(t, got.Timestamp)
}

func TestRelayUpstreamFailureIsGeneric(t *testing.T) {
	handler, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"internal crm crash"}`, http.StatusBadGateway)
	}, true)

	w := postJSON(t, handler, Request{Name: "Asha", Phone: "9876543210"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to submit form. Please try again later.", resp.Message)
	assert.Empty(t, resp.Error, "production responses must not leak upstream detail")
}

func TestRelayUpstreamFailureDetailInDevelopment(t *testing.T) {
	handler, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"internal crm crash"}`, http.StatusBadGateway)
	}, false)

	w := postJSON(t, handler, Request{Name: "Asha", Phone: "9876543210"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Contains(t, resp.Error, "internal crm crash")
}

func TestRelayMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/submit", bytes.NewReader([]byte("{oops")))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
