package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartserve/internal/auth"
	"smartserve/internal/history"
	"smartserve/internal/inventory"
)

// FeedbackRequest reports what actually happened at an event
type FeedbackRequest struct {
	EventType      string `json:"eventType"`
	Date           string `json:"date"`
	ActualFootfall int    `json:"actualFootfall"`
	ActualConsumed int    `json:"actualConsumed"`
}

func (s *Server) handleHistory(c *gin.Context) {
	rows, err := s.History.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := auth.CurrentUser(c)
	fb, err := s.History.AddFeedback(c.Request.Context(), history.Feedback{
		EventType:      req.EventType,
		Date:           req.Date,
		ActualFootfall: req.ActualFootfall,
		ActualConsumed: req.ActualConsumed,
		SubmittedBy:    user.Username,
	})
	if errors.Is(err, history.ErrIncompleteFeedback) {
		c.JSON(http.StatusBadRequest, gin.H{"error": history.MsgFeedbackMissing})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.Monitor.Increment("feedback_submitted")
	c.JSON(http.StatusCreated, gin.H{"message": history.MsgFeedbackThanks, "feedback": fb})
}

func (s *Server) handleListFeedback(c *gin.Context) {
	rows, err := s.History.Feedback(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleListForecasts(c *gin.Context) {
	rows, err := s.History.Forecasts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) handleReport(c *gin.Context) {
	report, err := s.History.Report(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListInventory(c *gin.Context) {
	items, err := s.Inventory.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleLowStock(c *gin.Context) {
	items, err := s.Inventory.LowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleSearchInventory(c *gin.Context) {
	matches, err := s.Inventory.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (s *Server) handleAddItem(c *gin.Context) {
	var item inventory.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	added, err := s.Inventory.Add(c.Request.Context(), item)
	if errors.Is(err, inventory.ErrInvalidItem) {
		c.JSON(http.StatusBadRequest, gin.H{"error": inventory.MsgAddMissing})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": inventory.MsgAdded, "item": added})
}

func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var item inventory.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.ID = id

	updated, err := s.Inventory.Update(c.Request.Context(), item)
	switch {
	case errors.Is(err, inventory.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": inventory.MsgUpdateMissing})
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": inventory.MsgUpdated, "item": updated})
	}
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	err := s.Inventory.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": inventory.MsgDeleted})
	}
}
