package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartserve/internal/auth"
	"smartserve/internal/dish"
	"smartserve/internal/forecast"
	"smartserve/internal/planner"
)

// SubstitutionRequest names the ingredient to replace
type SubstitutionRequest struct {
	Ingredient string `json:"ingredient"`
}

// ForecastOptions lists the choices offered by the event form
type ForecastOptions struct {
	EventTypes       []string `json:"eventTypes"`
	AudienceProfiles []string `json:"audienceProfiles"`
}

func (s *Server) handleForecastOptions(c *gin.Context) {
	c.JSON(http.StatusOK, ForecastOptions{
		EventTypes:       dish.EventTypes(),
		AudienceProfiles: forecast.AudienceProfiles(),
	})
}

// handleForecast is the public forecasting endpoint
func (s *Server) handleForecast(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.HistoricalData == nil && s.History != nil {
		records, err := s.History.Records(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		req.HistoricalData = records
	}

	resp, err := s.Forecaster.Forecast(c.Request.Context(), req)
	if errors.Is(err, forecast.ErrMissingFields) {
		c.JSON(http.StatusBadRequest, gin.H{"error": forecast.MsgMissingFields})
		return
	}
	if err != nil {
		log.Printf("Forecast failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.Metrics.RecordPrediction(resp.PredictedFoodQuantity)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) planner(c *gin.Context) *planner.Planner {
	user, _ := auth.CurrentUser(c)
	return s.Planners.For(user.Username)
}

// respondState maps a planner outcome to a status code. The state is always
// returned so the client can render slot errors.
func respondState(c *gin.Context, st planner.State, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, st)
	case planner.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "state": st})
	case errors.Is(err, planner.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": st})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "state": st})
	}
}

func (s *Server) handlePlannerState(c *gin.Context) {
	c.JSON(http.StatusOK, s.planner(c).Snapshot())
}

func (s *Server) handlePlannerForecast(c *gin.Context) {
	var ev forecast.EventDetails
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := s.planner(c).RequestForecast(c.Request.Context(), ev)
	if err == nil && st.Result != nil {
		s.Metrics.RecordPrediction(st.Result.PredictedFoodQuantity)
		s.Monitor.RecordMetric("last_prediction", st.Result.PredictedFoodQuantity)
	}
	respondState(c, st, err)
}

func (s *Server) handleRecipes(c *gin.Context) {
	st, err := s.planner(c).SuggestRecipes(c.Request.Context())
	respondState(c, st, err)
}

func (s *Server) handleSubstitutions(c *gin.Context) {
	var req SubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := s.planner(c).SuggestSubstitutions(c.Request.Context(), req.Ingredient)
	respondState(c, st, err)
}

func (s *Server) handleLeftovers(c *gin.Context) {
	st, err := s.planner(c).SuggestLeftovers(c.Request.Context())
	respondState(c, st, err)
}
