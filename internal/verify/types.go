// Package verify talks to the remote verification workflow: a black-box HTTP
// endpoint that performs the actual deliverability and MX checks. This package
// submits batches and normalizes whatever envelope the workflow responds with;
// it never inspects DNS itself.
package verify

import (
	"encoding/json"
	"strings"
	"time"
)

// Verification statuses assigned by the remote workflow. Treated as opaque
// classifications here; comparisons are case-insensitive at the filter layer.
const (
	StatusValid      = "VALID"
	StatusInvalid    = "INVALID"
	StatusDisposable = "DISPOSABLE"
	StatusRisky      = "RISKY"
)

// Domain type classifications reported by the workflow.
const (
	DomainBusiness    = "business"
	DomainPersonal    = "personal"
	DomainEducational = "educational"
	DomainGovernment  = "government"
)

// Result is one verified address as reported by the workflow. Records are
// immutable once received; the results store owns them after Load.
// VerifiedAt is kept as the workflow's own timestamp string (RFC 3339 in
// practice) rather than parsed eagerly, since export and sorting only need
// the lexical form.
type Result struct {
	Email       string `json:"email"`
	Status      string `json:"status"`
	Domain      string `json:"domain"`
	DomainType  string `json:"domainType,omitempty"`
	HasMXRecord bool   `json:"hasMXRecord"`
	VerifiedAt  string `json:"verifiedAt"`
}

// VerifiedTime parses the workflow timestamp. Returns the zero time when the
// workflow sent something unparseable.
func (r Result) VerifiedTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, r.VerifiedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Summary holds the workflow's aggregate figures for one submission.
// Some workflow versions embed the per-address results inside the summary
// object instead of the top level; Results captures that variant.
type Summary struct {
	TotalProcessed        int      `json:"totalProcessed"`
	Valid                 int      `json:"valid"`
	ValidRate             float64  `json:"validRate"`
	AverageProcessingTime float64  `json:"averageProcessingTime"`
	Results               []Result `json:"results,omitempty"`
}

// Outcome is the normalized response of one verification submission.
type Outcome struct {
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
	Warning string   `json:"warning,omitempty"`
}

// nodeItem is the array-wrapper element some workflow deployments emit:
// [{"json": {...actual outcome...}}].
type nodeItem struct {
	JSON json.RawMessage `json:"json"`
}

// dataEnvelope is the {"data": {...}} variant.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// DecodeOutcome unwraps a workflow response body into an Outcome. The
// workflow has shipped three envelope shapes over time, unwrapped in
// priority order: first-array-element wrapper, then a "data" field, then
// the raw body itself.
func DecodeOutcome(body []byte) (*Outcome, error) {
	payload := body

	var items []nodeItem
	if err := json.Unmarshal(body, &items); err == nil && len(items) > 0 && len(items[0].JSON) > 0 {
		payload = items[0].JSON
	} else {
		var env dataEnvelope
		if err := json.Unmarshal(body, &env); err == nil && isJSONObject(env.Data) {
			payload = env.Data
		}
	}

	var out Outcome
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func isJSONObject(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "{")
}
