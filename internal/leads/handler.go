package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/urjavolt/solar-leads-platform/pkg/logging"
)

// Submitter runs the delivery pipeline for one validated lead. It never fails;
// the outcome is always a terminal tagged result.
type Submitter interface {
	Submit(ctx context.Context, rec *LeadRecord) *Outcome
}

// Handler handles HTTP requests for the lead enquiry form.
type Handler struct {
	submitter Submitter
	logger    *logging.Logger
}

// NewHandler creates a new lead form handler.
func NewHandler(submitter Submitter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		submitter: submitter,
		logger:    logger,
	}
}

type submitResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SubmitLead handles POST /leads: validate the record, run the delivery
// pipeline, and return the terminal outcome. Validation failures stop the
// pipeline before any I/O.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var rec LeadRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.logger.Error("failed to decode lead", "error", err)
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if result := Validate(&rec); !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{
			Success: false,
			Message: "Please correct the highlighted fields",
			Errors:  result.Errors,
		})
		return
	}

	rec.ApplyDefaults(time.Now().UTC())

	outcome := h.submitter.Submit(r.Context(), &rec)
	if !outcome.Success {
		h.logger.Error("lead delivery failed", "error", outcome.Error, "district", rec.District)
		writeJSON(w, http.StatusBadGateway, submitResponse{
			Success: false,
			Error:   outcome.Error,
		})
		return
	}

	h.logger.Info("lead submitted", "name", rec.Name, "service", rec.Service, "district", rec.District)
	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: outcome.Message,
		Data:    outcome.Data,
	})
}

// Options handles GET /leads/options: the fixed service and district lists the
// form renders from.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"services":  Services,
		"districts": Districts,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
