package fridge

import (
	"errors"
	"fmt"
)

// Phase is the coarse state of a packing session
type Phase string

const (
	PhaseInitialized  Phase = "initialized"
	PhaseItemSelected Phase = "item_selected"
	PhaseAllPlaced    Phase = "all_placed"
)

// Non-fatal outcomes of a session action. The session message carries the
// user-facing text; these let callers branch without string matching.
var (
	ErrItemNotAvailable = errors.New("item not available")
	ErrNothingSelected  = errors.New("no item selected")
	ErrCannotPlace      = errors.New("item does not fit at that position")
)

const (
	msgStart         = "Select an item and click on the fridge to place it!"
	msgSelectFirst   = "Please select an item first!"
	msgCannotPlace   = "Cannot place item here! Try another spot or rotate if applicable."
	msgSelectedFmt   = "Selected %s. Now click on the fridge to place it."
	msgPlacedFmt     = "Placed %s! Choose another item."
	msgNotAvailFmt   = "Item %d is not available."
	msgAllPlacedTail = " All items are in the fridge."
)

// Item is one placeable instance of a catalog shape. IDs are unique within a
// game and never reused.
type Item struct {
	ID int64 `json:"id"`
	Shape
}

// Session is the complete state of one fridge-packing game. Values are
// treated as snapshots: Reduce returns a new Session and never mutates the
// slices or grid of its input.
type Session struct {
	ID          string  `json:"id"`
	Grid        Grid    `json:"grid"`
	Score       int     `json:"score"`
	Available   []Item  `json:"available"`
	Selected    int64   `json:"selected,omitempty"`
	Phase       Phase   `json:"phase"`
	Message     string  `json:"message"`
	Utilization float64 `json:"utilization"`
}

// SelectedItem returns the currently selected item, if any
func (s Session) SelectedItem() (Item, bool) {
	if s.Selected == 0 {
		return Item{}, false
	}
	for _, it := range s.Available {
		if it.ID == s.Selected {
			return it, true
		}
	}
	return Item{}, false
}

// Action is a user event applied to a session through Reduce.
type Action interface {
	apply(Session) (Session, error)
}

// Select marks an available item as the one to place next.
type Select struct {
	ID int64
}

// PlaceAt places the selected item with its top-left corner at (Row, Col).
type PlaceAt struct {
	Row int
	Col int
}

// Reset empties the grid and replaces the available items. The items are
// drawn by the caller so the reducer stays deterministic.
type Reset struct {
	Rows  int
	Cols  int
	Items []Item
}

// Reduce applies a to s and returns the next session. A non-nil error is one
// of the non-fatal outcomes above; the returned session then differs from s
// only in its Message.
func Reduce(s Session, a Action) (Session, error) {
	next, err := a.apply(s)
	next.Utilization = Utilization(next.Grid)
	return next, err
}

func (a Select) apply(s Session) (Session, error) {
	for _, it := range s.Available {
		if it.ID == a.ID {
			s.Selected = it.ID
			s.Phase = PhaseItemSelected
			s.Message = fmt.Sprintf(msgSelectedFmt, it.Name)
			return s, nil
		}
	}
	s.Message = fmt.Sprintf(msgNotAvailFmt, a.ID)
	return s, ErrItemNotAvailable
}

func (a PlaceAt) apply(s Session) (Session, error) {
	item, ok := s.SelectedItem()
	if !ok {
		s.Message = msgSelectFirst
		return s, ErrNothingSelected
	}
	// The selection may have been made against an older grid.
	if !CanPlace(s.Grid, item.Shape, a.Row, a.Col) {
		s.Message = msgCannotPlace
		return s, ErrCannotPlace
	}

	grid, filled := Place(s.Grid, item.Shape, a.Row, a.Col, item.CellMeta())
	remaining := make([]Item, 0, len(s.Available))
	for _, it := range s.Available {
		if it.ID != item.ID {
			remaining = append(remaining, it)
		}
	}

	s.Grid = grid
	s.Score += filled
	s.Available = remaining
	s.Selected = 0
	s.Message = fmt.Sprintf(msgPlacedFmt, item.Name)
	s.Phase = PhaseInitialized
	if len(remaining) == 0 {
		s.Phase = PhaseAllPlaced
		s.Message += msgAllPlacedTail
	}
	return s, nil
}

func (a Reset) apply(s Session) (Session, error) {
	items := make([]Item, len(a.Items))
	copy(items, a.Items)
	return Session{
		ID:        s.ID,
		Grid:      NewGrid(a.Rows, a.Cols),
		Available: items,
		Phase:     PhaseInitialized,
		Message:   msgStart,
	}, nil
}
