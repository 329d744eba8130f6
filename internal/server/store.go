package server

import (
	"sync"

	"posrecon/internal"
	"posrecon/internal/recon"
)

// ResultStore owns the single in-memory result of the most recent successful
// run. Each new run replaces it wholesale; a failed run leaves it untouched,
// so prior artifacts stay downloadable.
type ResultStore struct {
	mu      sync.RWMutex
	result  *recon.Result
	summary internal.RunSummary
}

func (s *ResultStore) Replace(res *recon.Result, summary internal.RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = res
	s.summary = summary
}

func (s *ResultStore) Current() (*recon.Result, internal.RunSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.summary, s.result != nil
}
