package leads

import (
	"encoding/json"
	"time"
)

// SourceWebsite tags leads originating from the public website.
const SourceWebsite = "website"

// Services offered on the website. "Other" covers free-text enquiries.
var Services = []string{
	"Solar Installation",
	"Electrification",
	"EV Charger Installation",
	"Industrial Electrical Planning",
	"Other",
}

// Districts is the fixed set of Maharashtra districts we serve. District
// validation is an exact, case-sensitive membership test against this list.
var Districts = []string{
	"Ahmednagar", "Akola", "Amravati", "Aurangabad", "Beed", "Bhandara", "Buldhana",
	"Chandrapur", "Dhule", "Gadchiroli", "Gondia", "Hingoli", "Jalgaon", "Jalna",
	"Kolhapur", "Latur", "Mumbai City", "Mumbai Suburban", "Nagpur", "Nanded",
	"Nandurbar", "Nashik", "Osmanabad", "Palghar", "Parbhani", "Pune", "Raigad",
	"Ratnagiri", "Sangli", "Satara", "Sindhudurg", "Solapur", "Thane", "Wardha",
	"Washim", "Yavatmal",
}

var districtSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Districts))
	for _, d := range Districts {
		set[d] = struct{}{}
	}
	return set
}()

// LeadRecord is the unit of work flowing through the submission pipeline. It is
// created when a visitor fills the enquiry form, validated before any network
// call, and never mutated once submission begins.
type LeadRecord struct {
	Service   string    `json:"service"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	District  string    `json:"district"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// ApplyDefaults stamps the record for submission: the timestamp is set once, at
// submission time, and the source defaults to the website channel.
func (r *LeadRecord) ApplyDefaults(now time.Time) {
	if r.Timestamp.IsZero() {
		r.Timestamp = now
	}
	if r.Source == "" {
		r.Source = SourceWebsite
	}
}

// Outcome is the terminal, tagged result of a submission attempt sequence. It is
// the only value that crosses back to the presentation layer: callers never see
// partial-retry state.
type Outcome struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
