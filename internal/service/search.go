package service

import (
	"sync"
	"time"

	"github.com/pageza/flavorfind/backend/internal/types"
)

// SearchTracker records the search lifecycle of each session:
// idle, searching, then results or failed. Overlapping searches of one
// session are not prevented; whichever finishes last is what State reports.
type SearchTracker struct {
	mu       sync.Mutex
	sessions map[string]*searchEntry
	ttl      time.Duration
	now      func() time.Time
}

type searchEntry struct {
	phase   types.SearchPhase
	query   string
	errMsg  string
	outcome types.SearchOutcome
	updated time.Time
}

// NewSearchTracker creates an empty tracker. Entries not updated for
// SessionTTL are dropped by Sweep.
func NewSearchTracker() *SearchTracker {
	return &SearchTracker{
		sessions: make(map[string]*searchEntry),
		ttl:      SessionTTL,
		now:      time.Now,
	}
}

// Begin marks a search for query as in flight. The previous outcome stays
// visible until the search finishes.
func (t *SearchTracker) Begin(session, query string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entry(session)
	entry.updated = t.now()
	entry.phase = types.PhaseSearching
	entry.query = query
	entry.errMsg = ""
}

// Finish records the result of a search for query.
func (t *SearchTracker) Finish(session, query string, results []types.Recipe, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entry(session)
	entry.updated = t.now()
	entry.query = query
	if err != nil {
		entry.phase = types.PhaseFailed
		entry.errMsg = err.Error()
		entry.outcome = types.SearchOutcome{State: types.SearchNotSearched, Results: []types.Recipe{}}
		return
	}
	entry.phase = types.PhaseResults
	entry.errMsg = ""
	entry.outcome = types.NewSearchOutcome(query, results)
}

// State returns the session's current status. Sessions that never searched
// are idle with a not_searched outcome.
func (t *SearchTracker) State(session string) types.SearchStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.sessions[session]
	if !ok {
		return types.SearchStatus{
			Phase:   types.PhaseIdle,
			Outcome: types.SearchOutcome{State: types.SearchNotSearched, Results: []types.Recipe{}},
		}
	}
	outcome := entry.outcome
	outcome.Results = append([]types.Recipe{}, outcome.Results...)
	return types.SearchStatus{Phase: entry.phase, Error: entry.errMsg, Outcome: outcome}
}

// Forget drops a session's search state.
func (t *SearchTracker) Forget(session string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, session)
}

// Sweep drops the state of sessions whose last search is older than the
// session lifetime and returns how many were dropped.
func (t *SearchTracker) Sweep() int {
	cutoff := t.now().Add(-t.ttl)

	t.mu.Lock()
	defer t.mu.Unlock()

	dropped := 0
	for session, entry := range t.sessions {
		if entry.updated.Before(cutoff) {
			delete(t.sessions, session)
			dropped++
		}
	}
	return dropped
}

func (t *SearchTracker) entry(session string) *searchEntry {
	entry, ok := t.sessions[session]
	if !ok {
		entry = &searchEntry{
			phase:   types.PhaseIdle,
			outcome: types.SearchOutcome{State: types.SearchNotSearched, Results: []types.Recipe{}},
		}
		t.sessions[session] = entry
	}
	return entry
}
