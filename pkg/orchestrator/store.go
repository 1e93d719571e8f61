package orchestrator

import (
	"sync"

	"github.com/gocrane/insight-report/pkg/report"
)

// serverOutcome is the result of processing one server.
type serverOutcome struct {
	Name      string
	Succeeded bool
	Result    report.ServerResult
}

// outcomeStore collects server outcomes written by concurrent workers.
type outcomeStore struct {
	mu       sync.Mutex // protects outcomes
	outcomes map[int]*serverOutcome
}

func newOutcomeStore() *outcomeStore {
	return &outcomeStore{outcomes: make(map[int]*serverOutcome)}
}

func (s *outcomeStore) set(index int, outcome *serverOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[index] = outcome
}

func (s *outcomeStore) get(index int) (*serverOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outcomes[index]
	return o, ok
}

// ordered returns the outcomes of servers 0..n-1. Servers that never reported are
// returned as failed.
func (s *outcomeStore) ordered(names []string) []*serverOutcome {
	out := make([]*serverOutcome, len(names))
	for i, name := range names {
		o, ok := s.get(i)
		if !ok {
			o = &serverOutcome{Name: name}
		}
		out[i] = o
	}
	return out
}
