package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"weekmenu/internal/apperr"
)

// Scraper fetches a recipe page and extracts the structured recipe. JSON-LD
// metadata is tried first; pages without it fall back to DOM heuristics.
type Scraper struct {
	client *resty.Client
	logger *zap.Logger
}

// NewScraper creates a Scraper.
func NewScraper(logger *zap.Logger) *Scraper {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; weekmenu/1.0)")
	return &Scraper{client: client, logger: logger}
}

// ScrapeURL fetches the page and extracts a recipe from it.
func (s *Scraper) ScrapeURL(ctx context.Context, url string) (*Recipe, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, apperr.Upstream(err, "failed to fetch %s", url)
	}
	if resp.IsError() {
		return nil, apperr.Upstream(fmt.Errorf("status %d", resp.StatusCode()),
			"failed to fetch %s", url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return nil, apperr.Upstream(err, "failed to parse page")
	}

	if rec := s.fromJSONLD(doc); rec != nil {
		s.logger.Debug("recipe extracted from JSON-LD", zap.String("url", url))
		return rec, nil
	}

	rec := s.fromDOM(doc)
	if rec.Name == "" || len(rec.Ingredients) == 0 {
		return nil, apperr.InvalidInput("no recipe found on %s", url)
	}
	s.logger.Debug("recipe extracted from DOM heuristics", zap.String("url", url))
	return rec, nil
}

// fromJSONLD scans the page's ld+json scripts for a schema.org Recipe node.
func (s *Scraper) fromJSONLD(doc *goquery.Document) *Recipe {
	var found *Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return true
		}
		if node := findRecipeNode(raw); node != nil {
			found = recipeFromNode(node)
			return false
		}
		return true
	})
	if found != nil && found.Name != "" && len(found.Ingredients) > 0 {
		return found
	}
	return nil
}

// findRecipeNode walks a decoded ld+json document, which may be a single
// object, a list, or an object with an @graph list.
func findRecipeNode(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	case []any:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	}
	return nil
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func recipeFromNode(node map[string]any) *Recipe {
	rec := &Recipe{
		Name:        asString(node["name"]),
		Description: asString(node["description"]),
	}

	for _, line := range asStringList(node["recipeIngredient"]) {
		rec.Ingredients = append(rec.Ingredients, ParseIngredientLine(line))
	}
	rec.Instructions = instructionsFromNode(node["recipeInstructions"])
	rec.Servings = servingsFromNode(node["recipeYield"])
	rec.PrepTimeMinutes = parseISODurationMinutes(asString(node["prepTime"]))
	rec.CookTimeMinutes = parseISODurationMinutes(asString(node["cookTime"]))
	rec.ImageURL = imageFromNode(node["image"])
	return rec
}

// instructionsFromNode handles the three shapes recipeInstructions takes in
// the wild: a string, a list of strings, or a list of HowToStep objects.
func instructionsFromNode(raw any) []string {
	switch v := raw.(type) {
	case string:
		return splitInstructionText(v)
	case []any:
		var steps []string
		for _, item := range v {
			switch step := item.(type) {
			case string:
				steps = append(steps, strings.TrimSpace(step))
			case map[string]any:
				if text := asString(step["text"]); text != "" {
					steps = append(steps, strings.TrimSpace(text))
				}
			}
		}
		return steps
	}
	return nil
}

func splitInstructionText(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

func servingsFromNode(raw any) int {
	switch v := raw.(type) {
	case string:
		return parseServings(v)
	case float64:
		return int(v)
	case []any:
		if len(v) > 0 {
			return servingsFromNode(v[0])
		}
	}
	return 0
}

func imageFromNode(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		return asString(v["url"])
	case []any:
		if len(v) > 0 {
			return imageFromNode(v[0])
		}
	}
	return ""
}

func asString(raw any) string {
	s, _ := raw.(string)
	return s
}

func asStringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// fromDOM is the fallback for pages without structured data: the first h1 as
// the name, list items under ingredient-ish containers as ingredients, and
// ordered-list items as instructions.
func (s *Scraper) fromDOM(doc *goquery.Document) *Recipe {
	rec := &Recipe{}
	rec.Name = strings.TrimSpace(doc.Find("h1").First().Text())

	doc.Find(`[class*="ingredient"] li, [itemprop="recipeIngredient"]`).Each(func(_ int, sel *goquery.Selection) {
		if line := strings.TrimSpace(sel.Text()); line != "" {
			rec.Ingredients = append(rec.Ingredients, ParseIngredientLine(line))
		}
	})

	doc.Find(`[class*="instruction"] li, [class*="bereiding"] li, ol li`).Each(func(_ int, sel *goquery.Selection) {
		if line := strings.TrimSpace(sel.Text()); line != "" {
			rec.Instructions = append(rec.Instructions, line)
		}
	})

	return rec
}
