package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeditech/verify-hub/internal/verify"
)

func TestSortByEmailCaseInsensitive(t *testing.T) {
	records := []verify.Result{
		{Email: "Zed@x.com"},
		{Email: "alice@x.com"},
		{Email: "Bob@x.com"},
	}

	got := SortRecords(records, SortConfig{Key: ByEmail, Direction: Ascending})
	assert.Equal(t, []string{"alice@x.com", "Bob@x.com", "Zed@x.com"}, emails(got))

	got = SortRecords(records, SortConfig{Key: ByEmail, Direction: Descending})
	assert.Equal(t, []string{"Zed@x.com", "Bob@x.com", "alice@x.com"}, emails(got))
}

func TestSortByMXRecord(t *testing.T) {
	records := []verify.Result{
		{Email: "a@x.com", HasMXRecord: false},
		{Email: "b@x.com", HasMXRecord: true},
		{Email: "c@x.com", HasMXRecord: false},
	}

	got := SortRecords(records, SortConfig{Key: ByHasMXRecord, Direction: Ascending})
	assert.True(t, got[0].HasMXRecord)
	assert.Equal(t, "b@x.com", got[0].Email)
}

func TestSortByVerifiedAtLexical(t *testing.T) {
	records := []verify.Result{
		{Email: "b@x.com", VerifiedAt: "2026-08-30T12:00:00Z"},
		{Email: "a@x.com", VerifiedAt: "2026-08-29T12:00:00Z"},
	}

	got := SortRecords(records, SortConfig{Key: ByVerifiedAt, Direction: Descending})
	assert.Equal(t, []string{"b@x.com", "a@x.com"}, emails(got))
}

func TestSortIsStable(t *testing.T) {
	records := []verify.Result{
		{Email: "first@x.com", Status: "VALID"},
		{Email: "second@x.com", Status: "VALID"},
		{Email: "third@x.com", Status: "INVALID"},
	}

	got := SortRecords(records, SortConfig{Key: ByStatus, Direction: Descending})
	// Equal keys keep their original relative order.
	assert.Equal(t, []string{"first@x.com", "second@x.com", "third@x.com"}, emails(got))
}

func TestSortUnknownKeyLeavesOrder(t *testing.T) {
	records := []verify.Result{
		{Email: "z@x.com"},
		{Email: "a@x.com"},
	}

	for _, key := range []string{"", "bogus"} {
		got := SortRecords(records, SortConfig{Key: key, Direction: Ascending})
		assert.Equal(t, []string{"z@x.com", "a@x.com"}, emails(got), "key %q", key)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	records := []verify.Result{
		{Email: "z@x.com"},
		{Email: "a@x.com"},
	}

	SortRecords(records, SortConfig{Key: ByEmail, Direction: Ascending})
	assert.Equal(t, "z@x.com", records[0].Email)
}
