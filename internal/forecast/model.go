package forecast

import (
	"context"
	"errors"
	"math"
	"strings"
)

// MsgMissingFields is shown when an event form is incomplete
const MsgMissingFields = "Please fill in all fields."

// ErrMissingFields is returned by Validate
var ErrMissingFields = errors.New("event details are incomplete")

// EventDetails describes an upcoming event
type EventDetails struct {
	EventType       string `json:"eventType"`
	AudienceProfile string `json:"audienceProfile"`
	Footfall        int    `json:"footfall"`
	Date            string `json:"date"`
}

// HistoricalRecord is one past event with what was prepared and eaten
type HistoricalRecord struct {
	Date            string `json:"date"`
	EventType       string `json:"eventType"`
	AudienceProfile string `json:"audienceProfile"`
	Footfall        int    `json:"footfall"`
	FoodPrepared    int    `json:"foodPrepared"`
	FoodConsumed    int    `json:"foodConsumed"`
}

// Request is the body sent to a forecasting service
type Request struct {
	EventDetails   EventDetails       `json:"eventDetails"`
	HistoricalData []HistoricalRecord `json:"historicalData"`
}

// Response is what a forecasting service returns. Quantities are plain JSON
// numbers and may carry a fraction. WasteReductionPotential is optional on the wire.
type Response struct {
	PredictedFoodQuantity   float64  `json:"predictedFoodQuantity"`
	WasteReductionPotential *float64 `json:"wasteReductionPotential,omitempty"`
}

// Quantity is the predicted food quantity rounded to whole units
func (r Response) Quantity() int {
	return int(math.Round(r.PredictedFoodQuantity))
}

// Forecaster predicts the food quantity for an event
type Forecaster interface {
	Forecast(ctx context.Context, req Request) (*Response, error)
}

// Validate reports ErrMissingFields unless every field is set and footfall is positive
func Validate(ev EventDetails) error {
	if strings.TrimSpace(ev.EventType) == "" ||
		strings.TrimSpace(ev.AudienceProfile) == "" ||
		strings.TrimSpace(ev.Date) == "" ||
		ev.Footfall <= 0 {
		return ErrMissingFields
	}
	return nil
}

// AudienceProfiles lists the audience options offered by the event form
func AudienceProfiles() []string {
	return []string{"Mixed", "Families", "Professionals", "Young Adults", "Students"}
}
