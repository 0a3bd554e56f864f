package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"weekmenu/internal/apperr"
	"weekmenu/internal/llm"
	"weekmenu/internal/metrics"
)

// CaptionParser extracts a structured recipe from free-form text like an
// Instagram caption, using the LLM.
type CaptionParser struct {
	textGen llm.TextGenerator
	store   *metrics.Store
	model   string
	logger  *zap.Logger
}

// NewCaptionParser creates a CaptionParser. The metrics store may be nil.
func NewCaptionParser(textGen llm.TextGenerator, store *metrics.Store, model string, logger *zap.Logger) *CaptionParser {
	return &CaptionParser{textGen: textGen, store: store, model: model, logger: logger}
}

// ParseCaption asks the LLM to extract a recipe from the caption.
func (p *CaptionParser) ParseCaption(ctx context.Context, caption string) (*Recipe, error) {
	if caption == "" {
		return nil, apperr.InvalidInput("caption is required")
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe from the following
social media caption. The caption is usually Dutch; keep ingredient and step
text in the original language.

Return the result strictly as a JSON object with this structure:
{
  "name": "Recipe name",
  "description": "One-sentence description",
  "ingredients": [{"name": "olijfolie", "amount": 2, "unit": "el"}, ...],
  "instructions": ["Step 1", "Step 2", ...],
  "servings": 4,
  "prepTimeMinutes": 15,
  "cookTimeMinutes": 30
}

Omit amount and unit when the caption does not state them. Use null for
unknown numbers. Return ONLY the raw JSON string, without markdown fences.

Caption:
%s
`, caption)

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if p.store != nil {
		if err := p.store.RecordUsage(ctx, "caption-parser", p.model, resp.Usage, time.Since(start)); err != nil {
			p.logger.Warn("failed to record LLM usage", zap.Error(err))
		}
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(resp.Content), &rec); err != nil {
		return nil, apperr.Upstream(err, "LLM returned malformed recipe JSON")
	}
	if rec.Name == "" || len(rec.Ingredients) == 0 {
		return nil, apperr.Upstream(nil, "LLM found no recipe in the caption")
	}

	p.logger.Info("caption parsed",
		zap.String("recipe", rec.Name),
		zap.Int("ingredients", len(rec.Ingredients)))
	return &rec, nil
}
