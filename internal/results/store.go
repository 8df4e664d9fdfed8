// Package results holds the most recent verification outcome in memory and
// provides filtering and sorting over its records. State is replaced
// wholesale on each load; nothing is persisted.
package results

import (
	"sync"

	"github.com/jeditech/verify-hub/internal/verify"
)

// Store keeps the records, summary, and warning from the latest verification
// run. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []verify.Result
	summary verify.Summary
	warning string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the store's contents with the given outcome. When the
// outcome's top-level results are empty, results embedded in the summary are
// used instead (older workflow deployments reported them there).
func (s *Store) Load(out *verify.Outcome) {
	records := out.Results
	if len(records) == 0 && len(out.Summary.Results) > 0 {
		records = out.Summary.Results
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]verify.Result, len(records))
	copy(s.records, records)
	s.summary = out.Summary
	s.warning = out.Warning
}

// Clear discards all records and the summary.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.summary = verify.Summary{}
	s.warning = ""
}

// All returns a copy of the stored records.
func (s *Store) All() []verify.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]verify.Result, len(s.records))
	copy(out, s.records)
	return out
}

// Summary returns the stored summary and warning.
func (s *Store) Summary() (verify.Summary, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary, s.warning
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
