// Package registry provides an explicit store of agent profiles.
// The store is constructed once and passed by handle to every call
// site; there is no package-level registry state.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAgentExists indicates a profile name is already registered.
var ErrAgentExists = errors.New("agent already registered")

// Profile describes an agent that can receive tasks.
type Profile struct {
	// Name is the unique agent name used as a task recipient.
	Name string `json:"name" yaml:"name"`
	// Role is the agent's job description.
	Role string `json:"role" yaml:"role"`
	// Goal is what the agent optimizes for.
	Goal string `json:"goal" yaml:"goal"`
}

// Store holds registered agent profiles. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	order    []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]Profile),
	}
}

// Register adds a profile. Duplicate names are rejected.
func (s *Store) Register(p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("agent name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.Name]; ok {
		return fmt.Errorf("register %q: %w", p.Name, ErrAgentExists)
	}
	s.profiles[p.Name] = p
	s.order = append(s.order, p.Name)
	return nil
}

// Get returns the profile for a name.
func (s *Store) Get(name string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	return p, ok
}

// Has reports whether a name resolves to a registered agent.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.profiles[name]
	return ok
}

// List returns all profiles in registration order.
func (s *Store) List() []Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.profiles[name])
	}
	return out
}

// Len returns the number of registered profiles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
