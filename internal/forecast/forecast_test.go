package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockHistory = []HistoricalRecord{
	{Date: "2024-01-01", EventType: "Holiday Party", AudienceProfile: "Mixed", Footfall: 150, FoodPrepared: 200, FoodConsumed: 180},
	{Date: "2024-01-15", EventType: "Corporate Lunch", AudienceProfile: "Professionals", Footfall: 80, FoodPrepared: 100, FoodConsumed: 90},
	{Date: "2024-02-01", EventType: "Weekend Brunch", AudienceProfile: "Families", Footfall: 120, FoodPrepared: 150, FoodConsumed: 140},
	{Date: "2024-02-10", EventType: "Birthday Celebration", AudienceProfile: "Young Adults", Footfall: 60, FoodPrepared: 70, FoodConsumed: 65},
}

type recorderFunc func(ctx context.Context, ev EventDetails, resp Response) error

func (f recorderFunc) RecordForecast(ctx context.Context, ev EventDetails, resp Response) error {
	return f(ctx, ev, resp)
}

func TestValidate(t *testing.T) {
	ok := EventDetails{EventType: "Corporate Lunch", AudienceProfile: "Professionals", Footfall: 100, Date: "2025-03-01"}
	assert.NoError(t, Validate(ok))

	for name, ev := range map[string]EventDetails{
		"no event":    {AudienceProfile: "Mixed", Footfall: 10, Date: "2025-03-01"},
		"no audience": {EventType: "Other", Footfall: 10, Date: "2025-03-01"},
		"no footfall": {EventType: "Other", AudienceProfile: "Mixed", Date: "2025-03-01"},
		"negative":    {EventType: "Other", AudienceProfile: "Mixed", Footfall: -5, Date: "2025-03-01"},
		"no date":     {EventType: "Other", AudienceProfile: "Mixed", Footfall: 10},
	} {
		assert.ErrorIs(t, Validate(ev), ErrMissingFields, name)
	}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name      string
		event     EventDetails
		history   []HistoricalRecord
		predicted int
		waste     int
	}{
		{
			name:      "corporate lunch without history",
			event:     EventDetails{EventType: "Corporate Lunch", AudienceProfile: "Professionals", Footfall: 100, Date: "2025-03-01"},
			predicted: 112,
			waste:     88,
		},
		{
			name:      "holiday party with seeded history",
			event:     EventDetails{EventType: "Holiday Party", AudienceProfile: "Mixed", Footfall: 150, Date: "2025-12-20"},
			history:   mockHistory,
			predicted: 237,
			waste:     63,
		},
		{
			name:      "unknown event type is neutral",
			event:     EventDetails{EventType: "Other", AudienceProfile: "Students", Footfall: 50, Date: "2025-04-01"},
			predicted: 66,
			waste:     34,
		},
		{
			name:      "waste never negative",
			event:     EventDetails{EventType: "Holiday Party", AudienceProfile: "Families", Footfall: 1000, Date: "2025-12-24"},
			history:   []HistoricalRecord{{Footfall: 100, FoodConsumed: 200}},
			predicted: 2953,
			waste:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Predict(tt.event, tt.history)
			assert.Equal(t, tt.predicted, got)
			assert.Equal(t, tt.waste, WasteReduction(tt.event.Footfall, got))
		})
	}
}

func TestConsumptionRateSkipsZeroFootfall(t *testing.T) {
	assert.Equal(t, 1.0, ConsumptionRate(nil))
	assert.Equal(t, 1.0, ConsumptionRate([]HistoricalRecord{{Footfall: 0, FoodConsumed: 10}}))
	assert.InDelta(t, 1.5, ConsumptionRate([]HistoricalRecord{
		{Footfall: 0, FoodConsumed: 10},
		{Footfall: 10, FoodConsumed: 15},
	}), 1e-9)
}

func TestServiceRecordsForecast(t *testing.T) {
	var recorded []Response
	svc := NewService(recorderFunc(func(_ context.Context, ev EventDetails, resp Response) error {
		assert.Equal(t, "Corporate Lunch", ev.EventType)
		recorded = append(recorded, resp)
		return nil
	}))

	resp, err := svc.Forecast(context.Background(), Request{
		EventDetails: EventDetails{EventType: "Corporate Lunch", AudienceProfile: "Professionals", Footfall: 100, Date: "2025-03-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, 112.0, resp.PredictedFoodQuantity)
	require.NotNil(t, resp.WasteReductionPotential)
	assert.Equal(t, 88.0, *resp.WasteReductionPotential)
	require.Len(t, recorded, 1)
	assert.Equal(t, 112, recorded[0].Quantity())
}

func TestServiceRejectsIncompleteEvent(t *testing.T) {
	svc := NewService(recorderFunc(func(context.Context, EventDetails, Response) error {
		t.Fatal("incomplete events must not be recorded")
		return nil
	}))

	_, err := svc.Forecast(context.Background(), Request{EventDetails: EventDetails{EventType: "Other"}})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestServiceRecorderFailure(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewService(recorderFunc(func(context.Context, EventDetails, Response) error { return boom }))

	_, err := svc.Forecast(context.Background(), Request{
		EventDetails: EventDetails{EventType: "Other", AudienceProfile: "Mixed", Footfall: 10, Date: "2025-03-01"},
	})
	assert.ErrorIs(t, err, boom)
}

func TestClientForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 150, req.EventDetails.Footfall)
		assert.Len(t, req.HistoricalData, 4)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictedFoodQuantity": 237}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	resp, err := client.Forecast(context.Background(), Request{
		EventDetails:   EventDetails{EventType: "Holiday Party", AudienceProfile: "Mixed", Footfall: 150, Date: "2025-12-20"},
		HistoricalData: mockHistory,
	})
	require.NoError(t, err)
	assert.Equal(t, 237.0, resp.PredictedFoodQuantity)
	assert.Nil(t, resp.WasteReductionPotential)
}

func TestClientForecastFractionalQuantity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictedFoodQuantity": 123.5, "wasteReductionPotential": 10.25}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, 0).Forecast(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 123.5, resp.PredictedFoodQuantity)
	assert.Equal(t, 124, resp.Quantity())
	require.NotNil(t, resp.WasteReductionPotential)
	assert.Equal(t, 10.25, *resp.WasteReductionPotential)
}

func TestClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Forecast(context.Background(), Request{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model offline")
}

func TestClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Forecast(context.Background(), Request{})
	assert.Error(t, err)
}
