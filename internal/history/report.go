package history

import (
	"math"
	"sort"
)

// EventWaste is the waste for one past event
type EventWaste struct {
	Date         string  `json:"date"`
	EventType    string  `json:"eventType"`
	Prepared     int     `json:"prepared"`
	Consumed     int     `json:"consumed"`
	Waste        int     `json:"waste"`
	WastePercent float64 `json:"wastePercent"`
}

// WasteReport summarises prepared versus consumed food
type WasteReport struct {
	Events        []EventWaste `json:"events"`
	TotalPrepared int          `json:"totalPrepared"`
	TotalConsumed int          `json:"totalConsumed"`
	TotalWaste    int          `json:"totalWaste"`
	WastePercent  float64      `json:"wastePercent"`
}

// AccuracyEntry compares one forecast with the feedback for the same event
type AccuracyEntry struct {
	EventType    string  `json:"eventType"`
	Date         string  `json:"date"`
	Forecast     int     `json:"forecast"`
	Actual       int     `json:"actual"`
	AbsError     int     `json:"absError"`
	ErrorPercent float64 `json:"errorPercent"`
}

// AccuracyReport lists forecast against actual consumption
type AccuracyReport struct {
	Entries      []AccuracyEntry `json:"entries"`
	MeanAbsError float64         `json:"meanAbsError"`
}

// Popularity counts how often an event type appears
type Popularity struct {
	EventType string `json:"eventType"`
	Count     int    `json:"count"`
}

// Report is the analytics page
type Report struct {
	Waste    WasteReport    `json:"waste"`
	Accuracy AccuracyReport `json:"accuracy"`
	Popular  []Popularity   `json:"popularEventTypes"`
}

// BuildReport computes the report. Forecasts are matched to feedback by
// event type and date; when an event was forecast more than once the first
// entry in forecasts wins, so callers pass them newest first.
func BuildReport(records []Record, forecasts []ForecastRecord, feedback []Feedback) Report {
	var rep Report

	rep.Waste.Events = make([]EventWaste, 0, len(records))
	for _, r := range records {
		waste := r.FoodPrepared - r.FoodConsumed
		rep.Waste.Events = append(rep.Waste.Events, EventWaste{
			Date:         r.Date,
			EventType:    r.EventType,
			Prepared:     r.FoodPrepared,
			Consumed:     r.FoodConsumed,
			Waste:        waste,
			WastePercent: percent(waste, r.FoodPrepared),
		})
		rep.Waste.TotalPrepared += r.FoodPrepared
		rep.Waste.TotalConsumed += r.FoodConsumed
	}
	rep.Waste.TotalWaste = rep.Waste.TotalPrepared - rep.Waste.TotalConsumed
	rep.Waste.WastePercent = percent(rep.Waste.TotalWaste, rep.Waste.TotalPrepared)

	type key struct{ eventType, date string }
	latest := make(map[key]ForecastRecord, len(forecasts))
	for _, f := range forecasts {
		k := key{f.ItemName, f.Date}
		if _, seen := latest[k]; !seen {
			latest[k] = f
		}
	}

	rep.Accuracy.Entries = []AccuracyEntry{}
	total := 0
	for _, fb := range feedback {
		f, ok := latest[key{fb.EventType, fb.Date}]
		if !ok {
			continue
		}
		abs := f.QuantityRecommended - fb.ActualConsumed
		if abs < 0 {
			abs = -abs
		}
		total += abs
		rep.Accuracy.Entries = append(rep.Accuracy.Entries, AccuracyEntry{
			EventType:    fb.EventType,
			Date:         fb.Date,
			Forecast:     f.QuantityRecommended,
			Actual:       fb.ActualConsumed,
			AbsError:     abs,
			ErrorPercent: percent(abs, fb.ActualConsumed),
		})
	}
	if n := len(rep.Accuracy.Entries); n > 0 {
		rep.Accuracy.MeanAbsError = round1(float64(total) / float64(n))
	}

	counts := map[string]int{}
	for _, r := range records {
		counts[r.EventType]++
	}
	for _, f := range forecasts {
		counts[f.ItemName]++
	}
	rep.Popular = make([]Popularity, 0, len(counts))
	for et, n := range counts {
		rep.Popular = append(rep.Popular, Popularity{EventType: et, Count: n})
	}
	sort.Slice(rep.Popular, func(i, j int) bool {
		if rep.Popular[i].Count != rep.Popular[j].Count {
			return rep.Popular[i].Count > rep.Popular[j].Count
		}
		return rep.Popular[i].EventType < rep.Popular[j].EventType
	})

	return rep
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(100 * float64(part) / float64(whole))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
