package fridge

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Options configures the fridge dimensions, how many items a reset deals and
// how long a Store keeps games around.
type Options struct {
	Rows        int           `yaml:"rows"`
	Cols        int           `yaml:"cols"`
	MinItems    int           `yaml:"min_items"`
	MaxItems    int           `yaml:"max_items"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	MaxSessions int           `yaml:"max_sessions"`
}

// DefaultOptions matches the reference fridge: 10 rows, 6 columns, 5 to 9 items.
// Sessions idle for 30 minutes are dropped and at most 1000 are live.
func DefaultOptions() Options {
	return Options{Rows: 10, Cols: 6, MinItems: 5, MaxItems: 9, SessionTTL: 30 * time.Minute, MaxSessions: 1000}
}

// Validate checks that the options describe a usable game
func (o Options) Validate() error {
	if o.Rows <= 0 || o.Cols <= 0 {
		return errors.New("fridge dimensions must be positive")
	}
	if o.MinItems < 0 || o.MaxItems < o.MinItems {
		return errors.New("fridge item range is invalid")
	}
	if o.SessionTTL < 0 || o.MaxSessions < 0 {
		return errors.New("fridge session limits must not be negative")
	}
	return nil
}

// Game owns one session and serializes every action applied to it.
type Game struct {
	mu      sync.Mutex
	session Session
	opts    Options
	rng     *rand.Rand
	nextID  int64
}

// NewGame creates a game with a freshly dealt session. A nil rng seeds one from the clock.
func NewGame(id string, opts Options, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Game{
		session: Session{ID: id},
		opts:    opts,
		rng:     rng,
	}
	g.Reset()
	return g
}

// Snapshot returns the current session
func (g *Game) Snapshot() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Select marks an available item as selected
func (g *Game) Select(id int64) (Session, error) {
	return g.dispatch(Select{ID: id})
}

// Place attempts to place the selected item at (row, col)
func (g *Game) Place(row, col int) (Session, error) {
	return g.dispatch(PlaceAt{Row: row, Col: col})
}

// Reset clears the fridge and deals a new random set of items
func (g *Game) Reset() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, _ := Reduce(g.session, Reset{Rows: g.opts.Rows, Cols: g.opts.Cols, Items: g.deal()})
	g.session = next
	return next
}

func (g *Game) dispatch(a Action) (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := Reduce(g.session, a)
	g.session = next
	return next, err
}

// deal draws between MinItems and MaxItems shapes uniformly with replacement.
// Must be called with g.mu held.
func (g *Game) deal() []Item {
	n := g.opts.MinItems
	if span := g.opts.MaxItems - g.opts.MinItems; span > 0 {
		n += g.rng.Intn(span + 1)
	}
	shapes := Catalog()
	items := make([]Item, n)
	for i := range items {
		g.nextID++
		items[i] = Item{ID: g.nextID, Shape: shapes[g.rng.Intn(len(shapes))]}
	}
	return items
}
