package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"weekmenu/internal/apperr"
	"weekmenu/internal/history"
)

func (s *Server) handleListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := s.historyRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// handleLogMeal records a meal eaten outside the suggestion flow.
func (s *Server) handleLogMeal(c *gin.Context) {
	var body struct {
		RecipeID string     `json:"recipeId"`
		EatenAt  *time.Time `json:"eatenAt"`
		Servings int        `json:"servings"`
		Notes    string     `json:"notes"`
		Rating   *int       `json:"rating"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, apperr.InvalidInput("invalid request body: %v", err))
		return
	}

	if body.RecipeID == "" {
		s.respondError(c, apperr.InvalidInput("recipeId is required"))
		return
	}

	// The entry must reference an existing recipe.
	if _, err := s.recipes.GetByID(c.Request.Context(), body.RecipeID); err != nil {
		s.respondError(c, err)
		return
	}

	entry := &history.Entry{
		RecipeID: body.RecipeID,
		Servings: body.Servings,
		Notes:    body.Notes,
		Rating:   body.Rating,
	}
	if body.EatenAt != nil {
		entry.EatenAt = *body.EatenAt
	}
	if err := s.historyRepo.Insert(c.Request.Context(), entry); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.respondError(c, apperr.InvalidInput("invalid history id"))
		return
	}
	if err := s.historyRepo.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
