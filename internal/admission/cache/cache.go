// Package cache holds the process-lifetime membership sets of identities
// that already passed or failed the admission checks.
package cache

import "sync"

// State is the membership cache lookup result.
type State int

const (
	Unknown State = iota
	PreviouslyPassed
	PreviouslyFailed
)

// String returns the state name for logs and metrics labels.
func (s State) String() string {
	switch s {
	case PreviouslyPassed:
		return "passed"
	case PreviouslyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Memberlist is a concurrency-safe pair of disjoint pass/fail sets keyed by
// identity. Each kind of recording is independently toggleable; a disabled
// kind records nothing and can never be reported by Lookup. There is no
// expiry and no size bound; Reset ties the lifetime to process (re)init.
type Memberlist struct {
	mu     sync.RWMutex
	passed map[string]struct{}
	failed map[string]struct{}

	recordPassed bool
	recordFailed bool
}

// New creates an empty Memberlist with the given recording toggles.
func New(recordPassed, recordFailed bool) *Memberlist {
	return &Memberlist{
		passed:       make(map[string]struct{}),
		failed:       make(map[string]struct{}),
		recordPassed: recordPassed,
		recordFailed: recordFailed,
	}
}

// Lookup reports what is already known about an identity.
func (m *Memberlist) Lookup(steamID string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.passed[steamID]; ok {
		return PreviouslyPassed
	}
	if _, ok := m.failed[steamID]; ok {
		return PreviouslyFailed
	}
	return Unknown
}

// RecordPass marks an identity as passed. A no-op when pass caching is off.
// The identity leaves the failed set so it is never in both.
func (m *Memberlist) RecordPass(steamID string) {
	if !m.recordPassed {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failed, steamID)
	m.passed[steamID] = struct{}{}
}

// RecordFail marks an identity as failed. A no-op when fail caching is off.
func (m *Memberlist) RecordFail(steamID string) {
	if !m.recordFailed {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.passed, steamID)
	m.failed[steamID] = struct{}{}
}

// Reset drops both sets, as on process reinitialization.
func (m *Memberlist) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passed = make(map[string]struct{})
	m.failed = make(map[string]struct{})
}
