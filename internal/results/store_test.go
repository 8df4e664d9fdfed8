package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeditech/verify-hub/internal/verify"
)

func TestStoreLoadReplacesAll(t *testing.T) {
	s := NewStore()
	s.Load(&verify.Outcome{
		Results: []verify.Result{{Email: "old@x.com", Status: verify.StatusValid}},
		Summary: verify.Summary{TotalProcessed: 1, Valid: 1},
	})
	require.Equal(t, 1, s.Len())

	s.Load(&verify.Outcome{
		Results: []verify.Result{
			{Email: "a@x.com", Status: verify.StatusValid},
			{Email: "b@x.com", Status: verify.StatusInvalid},
		},
		Summary: verify.Summary{TotalProcessed: 2, Valid: 1},
		Warning: "partial batch",
	})

	assert.Equal(t, 2, s.Len())
	all := s.All()
	assert.Equal(t, "a@x.com", all[0].Email)

	summary, warning := s.Summary()
	assert.Equal(t, 2, summary.TotalProcessed)
	assert.Equal(t, "partial batch", warning)
}

func TestStoreFallsBackToSummaryResults(t *testing.T) {
	s := NewStore()
	s.Load(&verify.Outcome{
		Summary: verify.Summary{
			TotalProcessed: 1,
			Results:        []verify.Result{{Email: "embedded@x.com", Status: verify.StatusRisky}},
		},
	})

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "embedded@x.com", all[0].Email)
}

func TestStoreAllReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Load(&verify.Outcome{
		Results: []verify.Result{{Email: "a@x.com", Status: verify.StatusValid}},
	})

	got := s.All()
	got[0].Email = "mutated@x.com"
	assert.Equal(t, "a@x.com", s.All()[0].Email)
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Load(&verify.Outcome{
		Results: []verify.Result{{Email: "a@x.com"}},
		Summary: verify.Summary{TotalProcessed: 1},
		Warning: "w",
	})
	s.Clear()

	assert.Zero(t, s.Len())
	summary, warning := s.Summary()
	assert.Zero(t, summary.TotalProcessed)
	assert.Empty(t, warning)
}
