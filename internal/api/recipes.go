package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weekmenu/internal/apperr"
	"weekmenu/internal/recipe"
)

// recipePayload is the request body for creating and updating recipes.
type recipePayload struct {
	Name         string              `json:"name"`
	Category     recipe.Category     `json:"category"`
	Ingredients  []recipe.Ingredient `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	Servings     int                 `json:"servings"`
	ImageURL     string              `json:"imageUrl"`
	SourceURL    string              `json:"sourceUrl"`
	SeasonTags   []recipe.Season     `json:"seasonTags"`
	WeatherTags  []recipe.WeatherTag `json:"weatherTags"`
}

func (p *recipePayload) toRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		Name:         p.Name,
		Category:     p.Category,
		Ingredients:  p.Ingredients,
		Instructions: p.Instructions,
		Servings:     p.Servings,
		ImageURL:     p.ImageURL,
		SourceURL:    p.SourceURL,
		SeasonTags:   p.SeasonTags,
		WeatherTags:  p.WeatherTags,
	}
}

// handleListRecipes supports ?category= and ?q= filters; q wins when both are
// present.
func (s *Server) handleListRecipes(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		recipes, err := s.recipes.Search(ctx, q)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": recipes})
		return
	}

	if cat := c.Query("category"); cat != "" {
		category := recipe.Category(cat)
		if !category.Valid() {
			s.respondError(c, apperr.InvalidInput("unknown category %q", cat))
			return
		}
		recipes, err := s.recipes.ListByCategory(ctx, category)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": recipes})
		return
	}

	recipes, err := s.recipes.List(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (s *Server) handleCreateRecipe(c *gin.Context) {
	var payload recipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.respondError(c, apperr.InvalidInput("invalid request body: %v", err))
		return
	}

	rec := payload.toRecipe()
	if err := s.recipes.Create(c.Request.Context(), rec); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// handleGetRecipe looks the id up first, then falls back to the slug so
// bookmarkable URLs keep working after renames of other recipes.
func (s *Server) handleGetRecipe(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	rec, err := s.recipes.GetByID(ctx, id)
	if apperr.CodeOf(err) == apperr.CodeNotFound {
		rec, err = s.recipes.GetBySlug(ctx, id)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleUpdateRecipe(c *gin.Context) {
	var payload recipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.respondError(c, apperr.InvalidInput("invalid request body: %v", err))
		return
	}

	rec := payload.toRecipe()
	rec.ID = c.Param("id")
	if err := s.recipes.Update(c.Request.Context(), rec); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	if err := s.recipes.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.imageStore.Remove(id); err != nil {
		s.logger.Warn("failed to remove recipe image",
			zap.String("recipe_id", id), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}
