package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smartserve/internal/database"
	"smartserve/internal/dish"
	"smartserve/internal/forecast"
	"smartserve/internal/history"
)

// ApiClient fetches forecasts either from a SmartServe server or, in local
// mode, from the built-in forecaster
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	forecaster forecast.Forecaster
	history    *history.Store
	Local      bool
}

// NewApiClient creates a client talking to the server at baseURL
func NewApiClient(baseURL string) *ApiClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &ApiClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		forecaster: forecast.NewClient(baseURL+"/api/forecast", 10*time.Second),
	}
}

// NewLocalClient creates a client that forecasts in-process against the
// seeded sample history
func NewLocalClient() (*ApiClient, error) {
	db, err := database.OpenMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	store, err := history.NewStore(db)
	if err != nil {
		return nil, err
	}
	return &ApiClient{
		forecaster: forecast.NewService(nil),
		history:    store,
		Local:      true,
	}, nil
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth(ctx context.Context) error {
	if c.Local {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}
	return nil
}

// ForecastResult is a forecast with its dish breakdown
type ForecastResult struct {
	Response forecast.Response
	Dish     dish.Recommendation
}

// Forecast predicts the quantity for ev and scales the matching dish. A
// server fills in its own history when none is sent.
func (c *ApiClient) Forecast(ctx context.Context, ev forecast.EventDetails) (*ForecastResult, error) {
	if err := forecast.Validate(ev); err != nil {
		return nil, err
	}

	req := forecast.Request{EventDetails: ev}
	if c.history != nil {
		records, err := c.history.Records(ctx)
		if err != nil {
			return nil, err
		}
		req.HistoricalData = records
	}

	resp, err := c.forecaster.Forecast(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ForecastResult{
		Response: *resp,
		Dish:     dish.Scale(resp.PredictedFoodQuantity, ev.EventType),
	}, nil
}
