package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartserve/internal/fridge"
)

// SelectRequest picks an available item
type SelectRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// PlaceRequest places the selected item with its top-left cell at row, col
type PlaceRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// ActionResult is the session after an action. Accepted is false when the
// action was refused; the session message says why.
type ActionResult struct {
	Session  fridge.Session `json:"session"`
	Accepted bool           `json:"accepted"`
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, fridge.Catalog())
}

func (s *Server) handleCreateSession(c *gin.Context) {
	game := s.Fridge.Create()
	c.JSON(http.StatusCreated, game.Snapshot())
}

func (s *Server) game(c *gin.Context) (*fridge.Game, bool) {
	game, err := s.Fridge.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return game, true
}

func (s *Server) handleGetSession(c *gin.Context) {
	game, ok := s.game(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, game.Snapshot())
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if _, ok := s.game(c); !ok {
		return
	}
	s.Fridge.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelect(c *gin.Context) {
	game, ok := s.game(c)
	if !ok {
		return
	}
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := game.Select(req.ID)
	s.respondAction(c, session, err)
}

func (s *Server) handlePlace(c *gin.Context) {
	game, ok := s.game(c)
	if !ok {
		return
	}
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := game.Place(*req.Row, *req.Col)
	s.Metrics.RecordPlacement(session, err)
	s.respondAction(c, session, err)
}

func (s *Server) handleReset(c *gin.Context) {
	game, ok := s.game(c)
	if !ok {
		return
	}
	s.respondAction(c, game.Reset(), nil)
}

// respondAction reports the session whether or not the action was accepted.
// Refused actions are part of normal play and are not HTTP errors.
func (s *Server) respondAction(c *gin.Context, session fridge.Session, err error) {
	if err != nil && !isRefusal(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.hub.Broadcast(session)
	c.JSON(http.StatusOK, ActionResult{Session: session, Accepted: err == nil})
}

func isRefusal(err error) bool {
	return errors.Is(err, fridge.ErrItemNotAvailable) ||
		errors.Is(err, fridge.ErrNothingSelected) ||
		errors.Is(err, fridge.ErrCannotPlace)
}
