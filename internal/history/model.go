package history

import (
	"time"

	"smartserve/internal/forecast"
)

// Record is a past event kept in the history table
type Record struct {
	ID              uint      `gorm:"primary_key" json:"id"`
	Date            string    `gorm:"index" json:"date"`
	EventType       string    `gorm:"index" json:"eventType"`
	AudienceProfile string    `json:"audienceProfile"`
	Footfall        int       `json:"footfall"`
	FoodPrepared    int       `json:"foodPrepared"`
	FoodConsumed    int       `json:"foodConsumed"`
	CreatedAt       time.Time `json:"-"`
}

// Historical converts the row to the forecast wire type
func (r Record) Historical() forecast.HistoricalRecord {
	return forecast.HistoricalRecord{
		Date:            r.Date,
		EventType:       r.EventType,
		AudienceProfile: r.AudienceProfile,
		Footfall:        r.Footfall,
		FoodPrepared:    r.FoodPrepared,
		FoodConsumed:    r.FoodConsumed,
	}
}

// ForecastRecord is a forecast that was served
type ForecastRecord struct {
	ID                  uint      `gorm:"primary_key" json:"id"`
	ItemName            string    `gorm:"index" json:"itemName"`
	AudienceProfile     string    `json:"audienceProfile"`
	ExpectedFootfall    int       `json:"expectedFootfall"`
	QuantityRecommended int       `json:"quantityRecommended"`
	Date                string    `json:"date"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Feedback is what actually happened at an event
type Feedback struct {
	ID             uint      `gorm:"primary_key" json:"id"`
	EventType      string    `gorm:"index" json:"eventType"`
	Date           string    `json:"date"`
	ActualFootfall int       `json:"actualFootfall"`
	ActualConsumed int       `json:"actualConsumed"`
	SubmittedBy    string    `json:"submittedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

var seedRecords = []Record{
	{Date: "2024-01-01", EventType: "Holiday Party", AudienceProfile: "Mixed", Footfall: 150, FoodPrepared: 200, FoodConsumed: 180},
	{Date: "2024-01-15", EventType: "Corporate Lunch", AudienceProfile: "Professionals", Footfall: 80, FoodPrepared: 100, FoodConsumed: 90},
	{Date: "2024-02-01", EventType: "Weekend Brunch", AudienceProfile: "Families", Footfall: 120, FoodPrepared: 150, FoodConsumed: 140},
	{Date: "2024-02-10", EventType: "Birthday Celebration", AudienceProfile: "Young Adults", Footfall: 60, FoodPrepared: 70, FoodConsumed: 65},
}
