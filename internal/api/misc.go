package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weekmenu/internal/apperr"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleLogin exchanges the configured password for a bearer token.
func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, apperr.InvalidInput("invalid request body: %v", err))
		return
	}

	token, err := s.auth.Login(body.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleWeather returns the current cached snapshot with its derived tags.
func (s *Server) handleWeather(c *gin.Context) {
	snap, err := s.provider.Current(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": snap, "tags": snap.Tags()})
}

func (s *Server) handleUsage(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 {
		days = 30
	}
	usage, err := s.usage.GetDailyUsage(c.Request.Context(), days)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": usage})
}
