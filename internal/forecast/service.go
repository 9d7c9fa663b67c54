package forecast

import (
	"context"
	"fmt"
	"log"
	"math"
)

const (
	// baseMultiplier is the margin over footfall every forecast starts from
	baseMultiplier = 1.2
	// naiveMultiplier is the unoptimized estimate waste reduction is measured against
	naiveMultiplier = 2.0
)

var eventMultipliers = map[string]float64{
	"Holiday Party":        1.15,
	"Corporate Lunch":      0.95,
	"Weekend Brunch":       1.08,
	"Birthday Celebration": 1.0,
}

var audienceMultipliers = map[string]float64{
	"Families":      1.07,
	"Professionals": 0.98,
	"Young Adults":  1.05,
	"Students":      1.10,
}

// Recorder stores forecasts once they are produced
type Recorder interface {
	RecordForecast(ctx context.Context, ev EventDetails, resp Response) error
}

// Service is the rule-based forecaster
type Service struct {
	recorder Recorder
}

// NewService creates a rule-based forecaster. recorder may be nil.
func NewService(recorder Recorder) *Service {
	return &Service{recorder: recorder}
}

// Forecast predicts the quantity for req.EventDetails, adjusted by the
// average consumption rate of req.HistoricalData.
func (s *Service) Forecast(ctx context.Context, req Request) (*Response, error) {
	ev := req.EventDetails
	if err := Validate(ev); err != nil {
		return nil, err
	}

	log.Printf("Forecast request: event=%s audience=%s footfall=%d date=%s history=%d",
		ev.EventType, ev.AudienceProfile, ev.Footfall, ev.Date, len(req.HistoricalData))

	predicted := Predict(ev, req.HistoricalData)
	waste := float64(WasteReduction(ev.Footfall, predicted))
	resp := &Response{
		PredictedFoodQuantity:   float64(predicted),
		WasteReductionPotential: &waste,
	}

	if s.recorder != nil {
		if err := s.recorder.RecordForecast(ctx, ev, *resp); err != nil {
			return nil, fmt.Errorf("failed to record forecast: %w", err)
		}
	}
	return resp, nil
}

// Predict applies the event and audience multipliers and the historical
// consumption rate to footfall, rounded to a whole quantity.
func Predict(ev EventDetails, history []HistoricalRecord) int {
	q := float64(ev.Footfall) * baseMultiplier
	if m, ok := eventMultipliers[ev.EventType]; ok {
		q *= m
	}
	if m, ok := audienceMultipliers[ev.AudienceProfile]; ok {
		q *= m
	}
	q *= ConsumptionRate(history)
	return int(math.Round(q))
}

// ConsumptionRate averages consumed/footfall over history. Records with no
// footfall are skipped; with nothing left the rate is 1.
func ConsumptionRate(history []HistoricalRecord) float64 {
	sum, n := 0.0, 0
	for _, h := range history {
		if h.Footfall == 0 {
			continue
		}
		sum += float64(h.FoodConsumed) / float64(h.Footfall)
		n++
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}

// WasteReduction compares predicted to the naive footfall estimate
func WasteReduction(footfall, predicted int) int {
	naive := int(math.Round(float64(footfall) * naiveMultiplier))
	if naive < predicted {
		return 0
	}
	return naive - predicted
}
