package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeditech/verify-hub/internal/verify"
)

var sample = []verify.Result{
	{Email: "alice@acme.com", Status: "VALID", Domain: "acme.com", DomainType: "business", HasMXRecord: true},
	{Email: "bob@gmail.com", Status: "VALID", Domain: "gmail.com", DomainType: "personal", HasMXRecord: true},
	{Email: "carol@mailinator.com", Status: "DISPOSABLE", Domain: "mailinator.com", DomainType: "personal", HasMXRecord: true},
	{Email: "dave@dead.org", Status: "INVALID", Domain: "dead.org", DomainType: "business", HasMXRecord: false},
	{Email: "erin@uni.edu", Status: "RISKY", Domain: "uni.edu", DomainType: "educational", HasMXRecord: true},
}

func emails(records []verify.Result) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Email
	}
	return out
}

func TestFilterInactivePassesEverything(t *testing.T) {
	for _, f := range []FilterState{
		{},
		{Status: "all", DomainType: "all", MXRecord: "all"},
		{Status: "ALL"},
	} {
		got := Apply(sample, f)
		assert.Len(t, got, len(sample), "filter %+v", f)
	}
}

func TestFilterSearchMatchesEmailOrDomain(t *testing.T) {
	got := Apply(sample, FilterState{Search: "GMAIL"})
	assert.Equal(t, []string{"bob@gmail.com"}, emails(got))

	got = Apply(sample, FilterState{Search: ".edu"})
	assert.Equal(t, []string{"erin@uni.edu"}, emails(got))

	got = Apply(sample, FilterState{Search: "nobody"})
	assert.Empty(t, got)
}

func TestFilterStatusCaseInsensitive(t *testing.T) {
	got := Apply(sample, FilterState{Status: "valid"})
	assert.Equal(t, []string{"alice@acme.com", "bob@gmail.com"}, emails(got))
}

func TestFilterMXRecord(t *testing.T) {
	got := Apply(sample, FilterState{MXRecord: "invalid"})
	assert.Equal(t, []string{"dave@dead.org"}, emails(got))

	got = Apply(sample, FilterState{MXRecord: "valid"})
	assert.Len(t, got, 4)
	for _, r := range got {
		assert.True(t, r.HasMXRecord, "record %s", r.Email)
	}
}

func TestFilterCriteriaCombineWithAND(t *testing.T) {
	f := FilterState{Search: "com", Status: "VALID", DomainType: "personal", MXRecord: "valid"}
	got := Apply(sample, f)
	assert.Equal(t, []string{"bob@gmail.com"}, emails(got))

	// Every returned record must satisfy each criterion on its own.
	for _, r := range got {
		assert.True(t, FilterState{Search: f.Search}.Matches(r))
		assert.True(t, FilterState{Status: f.Status}.Matches(r))
		assert.True(t, FilterState{DomainType: f.DomainType}.Matches(r))
		assert.True(t, FilterState{MXRecord: f.MXRecord}.Matches(r))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	before := emails(sample)
	Apply(sample, FilterState{Status: "VALID"})
	assert.Equal(t, before, emails(sample))
}

func TestCounts(t *testing.T) {
	counts := Counts(sample)
	assert.Equal(t, 2, counts["VALID"])
	assert.Equal(t, 1, counts["INVALID"])
	assert.Equal(t, 1, counts["DISPOSABLE"])
	assert.Equal(t, 1, counts["RISKY"])
}
