package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type entry struct {
	machine  *Machine
	lastSeen time.Time
}

// Store keeps one machine per browser session, keyed by the sid cookie.
// Machines are dropped on logout and reaped by the janitor once idle,
// so abandoned browsers do not pile up.
type Store struct {
	auth      AuthProvider
	whitelist Whitelist
	log       zerolog.Logger

	mu      sync.RWMutex
	entries map[string]*entry

	// now is swapped out in tests.
	now func() time.Time
}

func NewStore(auth AuthProvider, whitelist Whitelist, log zerolog.Logger) *Store {
	return &Store{
		auth:      auth,
		whitelist: whitelist,
		log:       log,
		entries:   make(map[string]*entry),
		now:       time.Now,
	}
}

// Get returns the machine for sid, refreshing its idle clock.
func (s *Store) Get(sid string) (*Machine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sid]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.machine, true
}

// Create mints a fresh sid and machine.
func (s *Store) Create() (string, *Machine) {
	sid := uuid.NewString()
	m := NewMachine(s.auth, s.whitelist, s.log)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = &entry{machine: m, lastSeen: s.now()}
	return sid, m
}

// GetOrCreate resolves sid to its machine, minting one when the sid is
// unknown or empty. The returned sid should go back to the browser.
func (s *Store) GetOrCreate(sid string) (string, *Machine) {
	if sid != "" {
		if m, ok := s.Get(sid); ok {
			return sid, m
		}
	}
	return s.Create()
}

// Remove forgets the machine for sid. Called on logout; the tokens are
// stateless so nothing else needs tearing down.
func (s *Store) Remove(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
}

// PruneIdle drops every machine untouched for longer than maxIdle and
// reports how many went.
func (s *Store) PruneIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, sid)
			removed++
		}
	}
	return removed
}

// Len reports how many machines are live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Janitor prunes idle machines every interval until ctx ends. Run it as
// a goroutine alongside the HTTP server.
func (s *Store) Janitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.PruneIdle(maxIdle); n > 0 {
				s.log.Debug().Int("count", n).Msg("pruned idle sessions")
			}
		}
	}
}
