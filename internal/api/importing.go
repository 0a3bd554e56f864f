package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"weekmenu/internal/apperr"
)

// handleImportURL scrapes a recipe page and returns the extracted recipe as a
// preview; the client edits and saves it through the normal create endpoint.
func (s *Server) handleImportURL(c *gin.Context) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.URL == "" {
		s.respondError(c, apperr.InvalidInput("url is required"))
		return
	}

	rec, err := s.scraper.ScrapeURL(c.Request.Context(), body.URL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": rec, "sourceUrl": body.URL})
}

// handleImportCaption extracts a recipe from free-form text like an Instagram
// caption.
func (s *Server) handleImportCaption(c *gin.Context) {
	if s.captions == nil {
		s.respondError(c, apperr.Upstream(nil, "caption import requires a configured LLM"))
		return
	}

	var body struct {
		Caption string `json:"caption"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, apperr.InvalidInput("invalid request body: %v", err))
		return
	}

	rec, err := s.captions.ParseCaption(c.Request.Context(), body.Caption)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": rec})
}

// handleGenerateImage generates a dish image for a recipe and stores it,
// replacing the recipe's image URL.
func (s *Server) handleGenerateImage(c *gin.Context) {
	if s.imageGen == nil {
		s.respondError(c, apperr.Upstream(nil, "image generation requires a configured LLM"))
		return
	}

	ctx := c.Request.Context()
	rec, err := s.recipes.GetByID(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	prompt := fmt.Sprintf(
		"A photorealistic, appetizing photo of the home-cooked dish %q, plated simply, natural light, no text.",
		rec.Name)
	data, err := s.imageGen.GenerateImage(ctx, prompt)
	if err != nil {
		s.respondError(c, err)
		return
	}

	filename, err := s.imageStore.Save(rec.ID, data)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec.ImageURL = "/images/" + filename
	if err := s.recipes.Update(ctx, rec); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
