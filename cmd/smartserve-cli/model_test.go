package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartserve/internal/forecast"
	"smartserve/internal/fridge"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	client := &ApiClient{forecaster: forecast.NewService(nil), Local: true}
	return initialModel(client, fridge.DefaultOptions())
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	right = tea.KeyMsg{Type: tea.KeyRight}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestFridgeKeys(t *testing.T) {
	m := press(t, newTestModel(t), enter)
	require.Equal(t, viewFridge, m.current)

	first := m.game.Snapshot().Available[0]
	m = press(t, m, runes("1"))
	s := m.game.Snapshot()
	assert.Equal(t, first.ID, s.Selected)
	assert.Equal(t, fridge.PhaseItemSelected, s.Phase)

	m = press(t, m, enter)
	s = m.game.Snapshot()
	assert.Equal(t, first.CellCount(), s.Score)
	assert.Equal(t, first.CellCount(), s.Grid.Occupied())
	assert.Contains(t, m.View(), "Score:")

	m = press(t, m, runes("r"))
	assert.Zero(t, m.game.Snapshot().Score)

	for i := 0; i < 20; i++ {
		m = press(t, m, right, down)
	}
	assert.Equal(t, 5, m.cursorCol, "the cursor stays inside the grid")
	assert.Equal(t, 9, m.cursorRow)

	m = press(t, m, esc)
	assert.Equal(t, viewMenu, m.current)
}

func TestForecastForm(t *testing.T) {
	m := newTestModel(t)
	m.current = viewForecast

	assert.Contains(t, m.View(), "Weekend Brunch", "event types are offered")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, m.View(), "Young Adults", "audience profiles are offered")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})

	ev, err := m.eventDetails()
	require.NoError(t, err, "placeholders make a complete form")
	assert.Equal(t, "Corporate Lunch", ev.EventType)
	assert.Equal(t, 100, ev.Footfall)

	msg := requestForecast(m.client, ev)()
	fm, ok := msg.(forecastMsg)
	require.True(t, ok, "%#v", msg)
	assert.Equal(t, 112, fm.result.Response.Quantity())

	next, _ := m.Update(fm)
	m = next.(Model)
	assert.False(t, m.loading)
	assert.Len(t, m.ingredients.Rows(), len(fm.result.Dish.Ingredients))
	assert.Contains(t, m.View(), "Predicted food quantity: 112")

	m.inputs[fieldFootfall].SetValue("lots")
	m = press(t, m, enter)
	assert.Equal(t, forecast.MsgMissingFields, m.error)
	assert.False(t, m.loading)
}

func TestLocalClientUsesSeededHistory(t *testing.T) {
	client, err := NewLocalClient()
	require.NoError(t, err)

	res, err := client.Forecast(context.Background(), forecast.EventDetails{
		EventType: "Holiday Party", AudienceProfile: "Mixed", Footfall: 150, Date: "2025-12-20",
	})
	require.NoError(t, err)
	assert.Equal(t, 237, res.Response.Quantity())
	assert.InDelta(t, 118.5, res.Dish.TotalWeightKg, 1e-9)

	_, err = client.Forecast(context.Background(), forecast.EventDetails{})
	assert.ErrorIs(t, err, forecast.ErrMissingFields)
}
