// Package planner holds the state behind the forecasting page: the current
// event, its forecast and dish breakdown, and the three suggestion panels.
//
// Every asynchronous slot carries a sequence number. A request records the
// number it was issued under and its result is applied only while that number
// is still the slot's latest, so a slow response can never overwrite the
// result of a newer request.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"smartserve/internal/dish"
	"smartserve/internal/forecast"
	"smartserve/internal/suggest"
)

// ErrSuperseded is returned when a newer request for the same slot was issued
// while this one was in flight. Its result has been discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Slot is the status of one asynchronous operation
type Slot struct {
	Loading bool   `json:"loading"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Seq     uint64 `json:"seq"`
}

// begin starts a new request on the slot and returns its sequence number
func (s *Slot) begin() uint64 {
	s.Seq++
	s.Loading = true
	s.Text = ""
	s.Error = ""
	return s.Seq
}

// invalidate clears the slot and orphans any request in flight
func (s *Slot) invalidate() {
	s.Seq++
	s.Loading = false
	s.Text = ""
	s.Error = ""
}

// State is a snapshot of the forecasting page
type State struct {
	Event    *forecast.EventDetails `json:"event,omitempty"`
	Result   *forecast.Response     `json:"result,omitempty"`
	Dish     *dish.Recommendation   `json:"dish,omitempty"`
	Forecast Slot                   `json:"forecast"`

	Recipes       Slot `json:"recipes"`
	Substitutions Slot `json:"substitutions"`
	Leftovers     Slot `json:"leftovers"`
}

func (s *State) slot(k suggest.Kind) *Slot {
	switch k {
	case suggest.KindRecipes:
		return &s.Recipes
	case suggest.KindSubstitutions:
		return &s.Substitutions
	default:
		return &s.Leftovers
	}
}

// HistorySource supplies the past events sent along with a forecast request
type HistorySource interface {
	Records(ctx context.Context) ([]forecast.HistoricalRecord, error)
}

// Observer is told about every finished request. Any method may be a no-op.
type Observer interface {
	ForecastDone(err error)
	SuggestionDone(kind suggest.Kind, err error)
	Discarded(slot string)
}

type nopObserver struct{}

func (nopObserver) ForecastDone(error)                 {}
func (nopObserver) SuggestionDone(suggest.Kind, error) {}
func (nopObserver) Discarded(string)                   {}

// Planner owns one user's page state
type Planner struct {
	mu         sync.Mutex
	state      State
	forecaster forecast.Forecaster
	completer  suggest.Completer
	history    HistorySource
	observer   Observer
}

// New creates a planner. history and observer may be nil.
func New(forecaster forecast.Forecaster, completer suggest.Completer, history HistorySource, observer Observer) *Planner {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Planner{
		forecaster: forecaster,
		completer:  completer,
		history:    history,
		observer:   observer,
	}
}

// Snapshot returns the current state
func (p *Planner) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// RequestForecast forecasts ev and derives the dish breakdown. Starting a
// forecast clears every suggestion panel and orphans suggestions in flight.
func (p *Planner) RequestForecast(ctx context.Context, ev forecast.EventDetails) (State, error) {
	if err := forecast.Validate(ev); err != nil {
		p.mu.Lock()
		p.state.Forecast.Error = forecast.MsgMissingFields
		st := p.state
		p.mu.Unlock()
		return st, err
	}

	p.mu.Lock()
	seq := p.state.Forecast.begin()
	event := ev
	p.state.Event = &event
	p.state.Result = nil
	p.state.Dish = nil
	p.state.Recipes.invalidate()
	p.state.Substitutions.invalidate()
	p.state.Leftovers.invalidate()
	p.mu.Unlock()

	resp, err := p.forecast(ctx, ev)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Forecast.Seq != seq {
		p.observer.Discarded("forecast")
		return p.state, ErrSuperseded
	}

	p.state.Forecast.Loading = false
	p.observer.ForecastDone(err)
	if err != nil {
		log.Printf("Forecast failed: %v", err)
		p.state.Forecast.Error = fmt.Sprintf("Failed to get forecast. Error: %v", err)
		return p.state, err
	}

	rec := dish.Scale(resp.PredictedFoodQuantity, ev.EventType)
	p.state.Result = resp
	p.state.Dish = &rec
	return p.state, nil
}

func (p *Planner) forecast(ctx context.Context, ev forecast.EventDetails) (*forecast.Response, error) {
	req := forecast.Request{EventDetails: ev, HistoricalData: []forecast.HistoricalRecord{}}
	if p.history != nil {
		records, err := p.history.Records(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		req.HistoricalData = records
	}
	return p.forecaster.Forecast(ctx, req)
}

// SuggestRecipes asks for recipe ideas for the current forecast
func (p *Planner) SuggestRecipes(ctx context.Context) (State, error) {
	return p.suggest(ctx, suggest.KindRecipes, func(s State) (string, error) {
		if s.Event == nil || s.Result == nil {
			return "", suggest.ErrNoForecast
		}
		return suggest.RecipePrompt(*s.Event, s.Result.Quantity()), nil
	})
}

// SuggestSubstitutions asks for alternatives to ingredient for the current event
func (p *Planner) SuggestSubstitutions(ctx context.Context, ingredient string) (State, error) {
	ingredient = strings.TrimSpace(ingredient)
	return p.suggest(ctx, suggest.KindSubstitutions, func(s State) (string, error) {
		if ingredient == "" {
			return "", suggest.ErrNoIngredient
		}
		if s.Event == nil {
			return "", suggest.ErrNoContext
		}
		return suggest.SubstitutionPrompt(*s.Event, ingredient), nil
	})
}

// SuggestLeftovers asks for leftover ideas for the current forecast
func (p *Planner) SuggestLeftovers(ctx context.Context) (State, error) {
	return p.suggest(ctx, suggest.KindLeftovers, func(s State) (string, error) {
		if s.Event == nil || s.Result == nil {
			return "", suggest.ErrNoForecast
		}
		return suggest.LeftoverPrompt(*s.Event, s.Result.Quantity()), nil
	})
}

func (p *Planner) suggest(ctx context.Context, kind suggest.Kind, prompt func(State) (string, error)) (State, error) {
	p.mu.Lock()
	text, err := prompt(p.state)
	if err != nil {
		p.state.slot(kind).Error = err.Error()
		st := p.state
		p.mu.Unlock()
		return st, err
	}
	seq := p.state.slot(kind).begin()
	p.mu.Unlock()

	out, err := p.completer.Complete(ctx, text)

	p.mu.Lock()
	defer p.mu.Unlock()
	slot := p.state.slot(kind)
	if slot.Seq != seq {
		p.observer.Discarded(string(kind))
		return p.state, ErrSuperseded
	}

	slot.Loading = false
	p.observer.SuggestionDone(kind, err)
	if err != nil {
		log.Printf("Suggestion %s failed: %v", kind, err)
		slot.Error = suggest.UserMessage(kind, err)
		return p.state, err
	}
	slot.Text = out
	return p.state, nil
}

// IsValidation reports whether err is a user input problem rather than a service failure
func IsValidation(err error) bool {
	return errors.Is(err, forecast.ErrMissingFields) ||
		errors.Is(err, suggest.ErrNoForecast) ||
		errors.Is(err, suggest.ErrNoContext) ||
		errors.Is(err, suggest.ErrNoIngredient)
}
