package results

import (
	"sort"
	"strings"

	"github.com/jeditech/verify-hub/internal/verify"
)

// Sort directions.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// Sortable record fields.
const (
	ByEmail       = "email"
	ByStatus      = "status"
	ByDomain      = "domain"
	ByDomainType  = "domainType"
	ByHasMXRecord = "hasMXRecord"
	ByVerifiedAt  = "verifiedAt"
)

// SortConfig names the field to order by and the direction. An empty or
// unknown Key leaves the records in their current order.
type SortConfig struct {
	Key       string
	Direction string
}

// SortRecords returns a sorted copy of records. The sort is stable and the
// input is never modified. String fields compare case-insensitively; for
// hasMXRecord, true sorts before false ascending.
func SortRecords(records []verify.Result, cfg SortConfig) []verify.Result {
	out := make([]verify.Result, len(records))
	copy(out, records)

	less := lessFunc(cfg.Key)
	if less == nil {
		return out
	}

	desc := strings.EqualFold(cfg.Direction, Descending)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key string) func(a, b verify.Result) bool {
	switch key {
	case ByEmail:
		return func(a, b verify.Result) bool { return lessFold(a.Email, b.Email) }
	case ByStatus:
		return func(a, b verify.Result) bool { return lessFold(a.Status, b.Status) }
	case ByDomain:
		return func(a, b verify.Result) bool { return lessFold(a.Domain, b.Domain) }
	case ByDomainType:
		return func(a, b verify.Result) bool { return lessFold(a.DomainType, b.DomainType) }
	case ByHasMXRecord:
		return func(a, b verify.Result) bool { return a.HasMXRecord && !b.HasMXRecord }
	case ByVerifiedAt:
		return func(a, b verify.Result) bool { return a.VerifiedAt < b.VerifiedAt }
	default:
		return nil
	}
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
