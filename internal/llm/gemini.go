package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"weekmenu/internal/apperr"
	"weekmenu/internal/config"
)

// Gemini is a client for the Google Gemini API, covering both text and image
// generation.
type Gemini struct {
	client     *genai.Client
	textModel  *genai.GenerativeModel
	imageModel *genai.GenerativeModel
}

// NewGemini creates a new Gemini API client.
func NewGemini(ctx context.Context, cfg *config.Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	textModel := client.GenerativeModel(cfg.Gemini.TextModel)
	textModel.GenerationConfig.ResponseMIMEType = "application/json"

	imageModel := client.GenerativeModel(cfg.Gemini.ImageModel)

	return &Gemini{client: client, textModel: textModel, imageModel: imageModel}, nil
}

// GenerateContent sends a prompt to the text model and returns the generated
// JSON string.
func (g *Gemini) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := g.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, apperr.Upstream(err, "LLM request failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, apperr.Upstream(nil, "LLM generated no content")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ContentResponse{}, apperr.Upstream(nil, "LLM generated non-text content")
	}

	out := ContentResponse{Content: string(text)}
	if resp.UsageMetadata != nil {
		out.Usage = TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// GenerateImage asks the image model for a single picture and returns the raw
// bytes of the first image part.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.imageModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, apperr.Upstream(err, "image generation failed")
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return blob.Data, nil
			}
		}
	}
	return nil, apperr.Upstream(nil, "image model returned no image")
}

// Close closes the underlying Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
