package planner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartserve/internal/forecast"
	"smartserve/internal/suggest"
)

var lunch = forecast.EventDetails{
	EventType:       "Corporate Lunch",
	AudienceProfile: "Professionals",
	Footfall:        100,
	Date:            "2025-03-01",
}

type fixedForecaster struct {
	resp *forecast.Response
	err  error
	got  forecast.Request
}

func (f *fixedForecaster) Forecast(ctx context.Context, req forecast.Request) (*forecast.Response, error) {
	f.got = req
	return f.resp, f.err
}

type historyFunc func(ctx context.Context) ([]forecast.HistoricalRecord, error)

func (h historyFunc) Records(ctx context.Context) ([]forecast.HistoricalRecord, error) { return h(ctx) }

// pendingCall is a completion the test answers by hand
type pendingCall struct {
	prompt string
	reply  chan string
}

type manualCompleter struct {
	calls chan pendingCall
}

func newManualCompleter() *manualCompleter {
	return &manualCompleter{calls: make(chan pendingCall)}
}

func (m *manualCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	call := pendingCall{prompt: prompt, reply: make(chan string)}
	m.calls <- call
	return <-call.reply, nil
}

type countingObserver struct {
	mu        sync.Mutex
	discarded []string
	done      int
}

func (o *countingObserver) ForecastDone(error) { o.mu.Lock(); o.done++; o.mu.Unlock() }
func (o *countingObserver) SuggestionDone(suggest.Kind, error) {
	o.mu.Lock()
	o.done++
	o.mu.Unlock()
}
func (o *countingObserver) Discarded(slot string) {
	o.mu.Lock()
	o.discarded = append(o.discarded, slot)
	o.mu.Unlock()
}

func predicted(q float64) *forecast.Response {
	waste := 200 - q
	return &forecast.Response{PredictedFoodQuantity: q, WasteReductionPotential: &waste}
}

func TestRequestForecastBuildsDish(t *testing.T) {
	fc := &fixedForecaster{resp: predicted(100)}
	history := historyFunc(func(context.Context) ([]forecast.HistoricalRecord, error) {
		return []forecast.HistoricalRecord{{Date: "2024-01-01", Footfall: 150, FoodConsumed: 180}}, nil
	})
	p := New(fc, suggest.StaticCompleter{}, history, nil)

	st, err := p.RequestForecast(context.Background(), lunch)
	require.NoError(t, err)

	assert.False(t, st.Forecast.Loading)
	assert.Empty(t, st.Forecast.Error)
	require.NotNil(t, st.Result)
	assert.Equal(t, 100.0, st.Result.PredictedFoodQuantity)
	require.NotNil(t, st.Dish)
	assert.Equal(t, "Chicken and Vegetable Stir-fry with Noodles", st.Dish.DishName)
	assert.Equal(t, 7.0, st.Dish.Ingredients[0].QuantityKg)
	assert.Len(t, fc.got.HistoricalData, 1)
}

func TestRequestForecastValidation(t *testing.T) {
	fc := &fixedForecaster{resp: predicted(1)}
	p := New(fc, suggest.StaticCompleter{}, nil, nil)

	st, err := p.RequestForecast(context.Background(), forecast.EventDetails{EventType: "Other"})
	assert.ErrorIs(t, err, forecast.ErrMissingFields)
	assert.True(t, IsValidation(err))
	assert.Equal(t, forecast.MsgMissingFields, st.Forecast.Error)
	assert.Nil(t, st.Event)
	assert.Zero(t, st.Forecast.Seq)
}

func TestRequestForecastFailure(t *testing.T) {
	boom := errors.New("connection refused")
	p := New(&fixedForecaster{err: boom}, suggest.StaticCompleter{}, nil, nil)

	st, err := p.RequestForecast(context.Background(), lunch)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
	assert.False(t, st.Forecast.Loading)
	assert.Contains(t, st.Forecast.Error, "Failed to get forecast")
	assert.Contains(t, st.Forecast.Error, "connection refused")
	assert.Nil(t, st.Result)
	require.NotNil(t, st.Event)
}

func TestHistoryFailureIsForecastFailure(t *testing.T) {
	history := historyFunc(func(context.Context) ([]forecast.HistoricalRecord, error) {
		return nil, errors.New("db closed")
	})
	p := New(&fixedForecaster{resp: predicted(1)}, suggest.StaticCompleter{}, history, nil)

	st, err := p.RequestForecast(context.Background(), lunch)
	assert.Error(t, err)
	assert.Contains(t, st.Forecast.Error, "db closed")
}

func TestFractionalForecast(t *testing.T) {
	var prompt string
	completer := suggest.CompleterFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return "1. Idea", nil
	})
	p := New(&fixedForecaster{resp: predicted(123.5)}, completer, nil, nil)
	ctx := context.Background()

	st, err := p.RequestForecast(ctx, lunch)
	require.NoError(t, err)
	require.NotNil(t, st.Dish)
	assert.InDelta(t, 61.75, st.Dish.TotalWeightKg, 1e-9, "the dish scales by the exact quantity")

	_, err = p.SuggestRecipes(ctx)
	require.NoError(t, err)
	assert.Contains(t, prompt, "forecasted food quantity of '124' units")
}

func TestSuggestPrerequisites(t *testing.T) {
	p := New(&fixedForecaster{resp: predicted(112)}, suggest.StaticCompleter{}, nil, nil)
	ctx := context.Background()

	st, err := p.SuggestRecipes(ctx)
	assert.ErrorIs(t, err, suggest.ErrNoForecast)
	assert.Equal(t, "Please get a forecast first.", st.Recipes.Error)

	st, err = p.SuggestLeftovers(ctx)
	assert.ErrorIs(t, err, suggest.ErrNoForecast)
	assert.Equal(t, "Please get a forecast first.", st.Leftovers.Error)

	st, err = p.SuggestSubstitutions(ctx, "   ")
	assert.ErrorIs(t, err, suggest.ErrNoIngredient)
	assert.Equal(t, "Please enter an ingredient to substitute.", st.Substitutions.Error)

	st, err = p.SuggestSubstitutions(ctx, "butter")
	assert.ErrorIs(t, err, suggest.ErrNoContext)
	assert.True(t, IsValidation(err))
	assert.False(t, st.Substitutions.Loading)
}

func TestSuggestAfterForecast(t *testing.T) {
	var prompts []string
	completer := suggest.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "1. Idea", nil
	})
	p := New(&fixedForecaster{resp: predicted(112)}, completer, nil, nil)
	ctx := context.Background()

	_, err := p.RequestForecast(ctx, lunch)
	require.NoError(t, err)

	st, err := p.SuggestRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1. Idea", st.Recipes.Text)
	assert.False(t, st.Recipes.Loading)

	st, err = p.SuggestSubstitutions(ctx, " butter ")
	require.NoError(t, err)
	assert.Equal(t, "1. Idea", st.Substitutions.Text)

	_, err = p.SuggestLeftovers(ctx)
	require.NoError(t, err)

	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "'112' units")
	assert.Contains(t, prompts[1], "substitutions for 'butter'")
	assert.Contains(t, prompts[2], "leftovers")
}

func TestSuggestFailureMessages(t *testing.T) {
	ctx := context.Background()

	empty := suggest.CompleterFunc(func(context.Context, string) (string, error) {
		return "", suggest.ErrUnexpectedResponse
	})
	p := New(&fixedForecaster{resp: predicted(50)}, empty, nil, nil)
	_, err := p.RequestForecast(ctx, lunch)
	require.NoError(t, err)
	st, err := p.SuggestRecipes(ctx)
	assert.Error(t, err)
	assert.Equal(t, "Failed to generate recipes. Please try again.", st.Recipes.Error)
	assert.False(t, st.Recipes.Loading)

	down := suggest.CompleterFunc(func(context.Context, string) (string, error) {
		return "", errors.New("timeout")
	})
	p = New(&fixedForecaster{resp: predicted(50)}, down, nil, nil)
	_, err = p.RequestForecast(ctx, lunch)
	require.NoError(t, err)
	st, _ = p.SuggestLeftovers(ctx)
	assert.Equal(t, "An error occurred while generating leftover suggestions.", st.Leftovers.Error)
}

func TestStaleSuggestionIsDiscarded(t *testing.T) {
	completer := newManualCompleter()
	obs := &countingObserver{}
	p := New(&fixedForecaster{resp: predicted(112)}, completer, nil, obs)
	ctx := context.Background()
	_, err := p.RequestForecast(ctx, lunch)
	require.NoError(t, err)

	type result struct {
		st  State
		err error
	}
	first := make(chan result, 1)
	go func() {
		st, err := p.SuggestRecipes(ctx)
		first <- result{st, err}
	}()
	callA := <-completer.calls

	second := make(chan result, 1)
	go func() {
		st, err := p.SuggestRecipes(ctx)
		second <- result{st, err}
	}()
	callB := <-completer.calls

	assert.True(t, p.Snapshot().Recipes.Loading)

	callB.reply <- "newer"
	r := <-second
	require.NoError(t, r.err)
	assert.Equal(t, "newer", r.st.Recipes.Text)

	callA.reply <- "older"
	r = <-first
	assert.ErrorIs(t, r.err, ErrSuperseded)

	st := p.Snapshot()
	assert.Equal(t, "newer", st.Recipes.Text)
	assert.False(t, st.Recipes.Loading)
	assert.Equal(t, []string{"recipes"}, obs.discarded)
}

func TestNewForecastInvalidatesSuggestions(t *testing.T) {
	completer := newManualCompleter()
	fc := &fixedForecaster{resp: predicted(112)}
	p := New(fc, completer, nil, nil)
	ctx := context.Background()
	_, err := p.RequestForecast(ctx, lunch)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := p.SuggestLeftovers(ctx)
		done <- err
	}()
	call := <-completer.calls

	brunch := lunch
	brunch.EventType = "Weekend Brunch"
	fc.resp = predicted(90)
	st, err := p.RequestForecast(ctx, brunch)
	require.NoError(t, err)
	assert.False(t, st.Leftovers.Loading)
	assert.Empty(t, st.Leftovers.Text)

	call.reply <- "ideas for the old lunch"
	assert.ErrorIs(t, <-done, ErrSuperseded)

	st = p.Snapshot()
	assert.Empty(t, st.Leftovers.Text)
	assert.Equal(t, "Weekend Brunch", st.Event.EventType)
	assert.Equal(t, "Hearty Breakfast Burrito Bar", st.Dish.DishName)
}

func TestNewForecastClearsFinishedSuggestions(t *testing.T) {
	p := New(&fixedForecaster{resp: predicted(112)}, suggest.StaticCompleter{Text: "1. Soup"}, nil, nil)
	ctx := context.Background()
	_, _ = p.RequestForecast(ctx, lunch)
	st, err := p.SuggestRecipes(ctx)
	require.NoError(t, err)
	require.Equal(t, "1. Soup", st.Recipes.Text)
	before := st.Recipes.Seq

	st, err = p.RequestForecast(ctx, lunch)
	require.NoError(t, err)
	assert.Empty(t, st.Recipes.Text)
	assert.Greater(t, st.Recipes.Seq, before)
}

func TestStore(t *testing.T) {
	built := 0
	s := NewStore(func() *Planner {
		built++
		return New(&fixedForecaster{resp: predicted(1)}, suggest.StaticCompleter{}, nil, nil)
	})

	a := s.For("alice")
	assert.Same(t, a, s.For("alice"))
	assert.NotSame(t, a, s.For("bob"))
	assert.Equal(t, 2, built)

	s.Forget("alice")
	assert.NotSame(t, a, s.For("alice"))
}
