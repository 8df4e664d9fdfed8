package results

import (
	"strings"

	"github.com/jeditech/verify-hub/internal/verify"
)

// FilterState holds the active filter criteria. Zero values ("" or "all")
// mean the criterion is inactive; active criteria combine with AND.
type FilterState struct {
	Search     string
	Status     string
	DomainType string
	MXRecord   string // "all", "valid" (has MX record), or "invalid"
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, "all")
}

// Matches reports whether a record passes every active criterion.
func (f FilterState) Matches(r verify.Result) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Email), q) &&
			!strings.Contains(strings.ToLower(r.Domain), q) {
			return false
		}
	}
	if active(f.Status) && !strings.EqualFold(r.Status, f.Status) {
		return false
	}
	if active(f.DomainType) && !strings.EqualFold(r.DomainType, f.DomainType) {
		return false
	}
	if active(f.MXRecord) {
		want := strings.EqualFold(f.MXRecord, "valid")
		if r.HasMXRecord != want {
			return false
		}
	}
	return true
}

// Apply returns the records passing the filter, in their original order.
// The input slice is never modified.
func Apply(records []verify.Result, f FilterState) []verify.Result {
	out := make([]verify.Result, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Counts tallies records per status, keyed by the upper-cased status value.
func Counts(records []verify.Result) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[strings.ToUpper(r.Status)]++
	}
	return counts
}
