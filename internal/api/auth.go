package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartserve/internal/auth"
)

// LoginRequest is the body of a login
type LoginRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := s.Auth.Login(req.Username, req.Password, req.Role)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.MsgMissingCredentials})
		return
	case errors.Is(err, auth.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.Monitor.Increment("logins")
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    user,
		"message": fmt.Sprintf("Welcome, %s (%s)!", user.Username, user.Role),
	})
}

// handleLogout drops the caller's planner state. The token itself is
// discarded by the client.
func (s *Server) handleLogout(c *gin.Context) {
	header := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if header != "" {
		if user, err := s.Auth.Parse(header); err == nil {
			s.Planners.Forget(user.Username)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": auth.MsgLoggedOut})
}

func (s *Server) handleMe(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}
