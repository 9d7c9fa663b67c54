package planner

import "sync"

// Store keeps one planner per user
type Store struct {
	mu       sync.Mutex
	planners map[string]*Planner
	factory  func() *Planner
}

// NewStore creates a store that builds planners with factory
func NewStore(factory func() *Planner) *Store {
	return &Store{
		planners: make(map[string]*Planner),
		factory:  factory,
	}
}

// For returns the planner for user, creating it on first use
func (s *Store) For(user string) *Planner {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.planners[user]
	if !ok {
		p = s.factory()
		s.planners[user] = p
	}
	return p
}

// Forget drops a user's planner, for example on logout
func (s *Store) Forget(user string) {
	s.mu.Lock()
	delete(s.planners, user)
	s.mu.Unlock()
}
