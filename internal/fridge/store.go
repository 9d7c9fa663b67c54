package fridge

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id is unknown
var ErrSessionNotFound = errors.New("fridge session not found")

type storedGame struct {
	game    *Game
	touched time.Time
}

// Store keeps the live games in memory, keyed by session id. Games idle for
// longer than Options.SessionTTL are evicted, and at most Options.MaxSessions
// are kept; a zero value disables either limit.
type Store struct {
	mu    sync.RWMutex
	games map[string]*storedGame
	opts  Options
	now   func() time.Time
}

// NewStore creates an empty store that deals games with opts
func NewStore(opts Options) *Store {
	return &Store{
		games: make(map[string]*storedGame),
		opts:  opts,
		now:   time.Now,
	}
}

// Create starts a new game and returns it. Expired games are swept first;
// when the store is still full the least recently used game makes room.
func (s *Store) Create() *Game {
	game := NewGame(uuid.New().String(), s.opts, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	if s.opts.MaxSessions > 0 {
		for len(s.games) >= s.opts.MaxSessions {
			s.evictOldestLocked()
		}
	}
	s.games[game.Snapshot().ID] = &storedGame{game: game, touched: now}
	return game
}

// Get returns the game for id and marks it as used
func (s *Store) Get(id string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sg, ok := s.games[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.expired(sg, now) {
		delete(s.games, id)
		return nil, ErrSessionNotFound
	}
	sg.touched = now
	return sg.game, nil
}

// Touch marks id as used without returning it
func (s *Store) Touch(id string) {
	s.mu.Lock()
	if sg, ok := s.games[id]; ok {
		sg.touched = s.now()
	}
	s.mu.Unlock()
}

// Delete drops a game
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()
}

// Len returns the number of live games
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Sweep evicts idle games and returns how many were dropped
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Run sweeps every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if s.opts.SessionTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("Evicted %d idle fridge sessions", n)
			}
		}
	}
}

func (s *Store) expired(sg *storedGame, now time.Time) bool {
	return s.opts.SessionTTL > 0 && now.Sub(sg.touched) > s.opts.SessionTTL
}

func (s *Store) sweepLocked(now time.Time) int {
	n := 0
	for id, sg := range s.games {
		if s.expired(sg, now) {
			delete(s.games, id)
			n++
		}
	}
	return n
}

func (s *Store) evictOldestLocked() {
	var oldest string
	var at time.Time
	for id, sg := range s.games {
		if oldest == "" || sg.touched.Before(at) {
			oldest, at = id, sg.touched
		}
	}
	delete(s.games, oldest)
}
