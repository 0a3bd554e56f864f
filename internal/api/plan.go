package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"weekmenu/internal/apperr"
	"weekmenu/internal/clock"
	"weekmenu/internal/shopping"
)

func (s *Server) handleSuggestionToday(c *gin.Context) {
	result, err := s.engine.GetToday(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAcceptSuggestion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.respondError(c, apperr.InvalidInput("invalid suggestion id"))
		return
	}
	result, err := s.engine.Accept(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRejectSuggestion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.respondError(c, apperr.InvalidInput("invalid suggestion id"))
		return
	}
	result, err := s.engine.Reject(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleClearSuggestion(c *gin.Context) {
	if err := s.engine.Clear(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleWeek(c *gin.Context) {
	days, err := s.resolver.ResolveWeek(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (s *Server) handleSetDay(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var body struct {
		RecipeID string `json:"recipeId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, apperr.InvalidInput("invalid request body: %v", err))
		return
	}

	if err := s.resolver.SetDay(c.Request.Context(), date, body.RecipeID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearDay(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.resolver.ClearDay(c.Request.Context(), date); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRegenerateDay(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	rec, err := s.resolver.RegenerateDay(c.Request.Context(), date)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": rec})
}

// handleShoppingList derives the list from the resolved week on every call;
// nothing is stored.
func (s *Server) handleShoppingList(c *gin.Context) {
	days, err := s.resolver.ResolveWeek(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	list := shopping.Build(days, s.clk.Today(), s.clk.Now())
	c.JSON(http.StatusOK, list)
}

func parseDate(raw string) (string, error) {
	if _, err := time.Parse(clock.DateFormat, raw); err != nil {
		return "", apperr.InvalidInput("invalid date %q, want YYYY-MM-DD", raw)
	}
	return raw, nil
}
