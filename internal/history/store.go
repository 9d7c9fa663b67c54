package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"

	"smartserve/internal/database"
	"smartserve/internal/forecast"
)

const (
	MsgFeedbackThanks  = "Thank you for your feedback! This data helps improve our forecasts."
	MsgFeedbackMissing = "Please fill all fields."
)

// ErrIncompleteFeedback is returned when a feedback field is missing
var ErrIncompleteFeedback = errors.New("feedback is incomplete")

// Store keeps event history, served forecasts and feedback
type Store struct {
	db *gorm.DB
}

// NewStore migrates the history tables and seeds the sample events
func NewStore(db *gorm.DB) (*Store, error) {
	if err := database.Migrate(db, &Record{}, &ForecastRecord{}, &Feedback{}); err != nil {
		return nil, err
	}
	err := database.SeedIfEmpty(db, &Record{}, func(tx *gorm.DB) error {
		for _, r := range seedRecords {
			r := r
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed history: %w", err)
	}
	return &Store{db: db}, nil
}

// List returns every history row in date order
func (s *Store) List(ctx context.Context) ([]Record, error) {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var rows []Record
	if err := db.Order("date asc, id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return rows, nil
}

// Records returns the history in the form sent with a forecast request
func (s *Store) Records(ctx context.Context) ([]forecast.HistoricalRecord, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]forecast.HistoricalRecord, len(rows))
	for i, r := range rows {
		out[i] = r.Historical()
	}
	return out, nil
}

// RecordForecast stores a served forecast
func (s *Store) RecordForecast(ctx context.Context, ev forecast.EventDetails, resp forecast.Response) error {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return err
	}
	row := ForecastRecord{
		ItemName:            ev.EventType,
		AudienceProfile:     ev.AudienceProfile,
		ExpectedFootfall:    ev.Footfall,
		QuantityRecommended: resp.Quantity(),
		Date:                ev.Date,
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save forecast: %w", err)
	}
	return nil
}

// Forecasts returns the served forecasts, newest first
func (s *Store) Forecasts(ctx context.Context) ([]ForecastRecord, error) {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var rows []ForecastRecord
	if err := db.Order("id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	return rows, nil
}

// AddFeedback validates and stores fb
func (s *Store) AddFeedback(ctx context.Context, fb Feedback) (*Feedback, error) {
	if strings.TrimSpace(fb.EventType) == "" || strings.TrimSpace(fb.Date) == "" ||
		fb.ActualFootfall <= 0 || fb.ActualConsumed <= 0 {
		return nil, ErrIncompleteFeedback
	}
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	fb.ID = 0
	if err := db.Create(&fb).Error; err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return &fb, nil
}

// Feedback returns all submitted feedback in submission order
func (s *Store) Feedback(ctx context.Context) ([]Feedback, error) {
	db, err := database.Conn(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var rows []Feedback
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return rows, nil
}

// Report builds the analytics report from everything stored
func (s *Store) Report(ctx context.Context) (*Report, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	forecasts, err := s.Forecasts(ctx)
	if err != nil {
		return nil, err
	}
	feedback, err := s.Feedback(ctx)
	if err != nil {
		return nil, err
	}
	r := BuildReport(records, forecasts, feedback)
	return &r, nil
}
