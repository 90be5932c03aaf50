package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const defaultChatModelName = "gemini-1.5-flash-latest"

// FallbackModels is tried in order when the configured model is reported as
// unavailable. The resolver moves to the entry after the current one.
var FallbackModels = []string{
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash",
	"gemini-1.5-pro-latest",
	"gemini-pro",
}

// Generator is the external text/image completion endpoint.
type Generator interface {
	Generate(ctx context.Context, prompt string, image *Image) (string, error)
	// Reinitialize points subsequent calls at another model.
	Reinitialize(model string) error
	Model() string
	Close() error
}

// GeminiGenerator talks to Gemini through the generative-ai-go SDK.
type GeminiGenerator struct {
	client *genai.Client
	logger zerolog.Logger

	mu        sync.RWMutex
	modelName string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if model == "" {
		model = defaultChatModelName
	}
	return &GeminiGenerator{
		client:    client,
		logger:    logger.With().Str("component", "gemini").Logger(),
		modelName: model,
	}, nil
}

func (g *GeminiGenerator) Model() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.modelName
}

func (g *GeminiGenerator) Reinitialize(model string) error {
	if model == "" {
		return fmt.Errorf("gemini: empty model name")
	}
	g.mu.Lock()
	prev := g.modelName
	g.modelName = model
	g.mu.Unlock()

	g.logger.Info().Str("from", prev).Str("to", model).Msg("Switched Gemini model")
	return nil
}

func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("closing GenAI client: %w", err)
	}
	g.logger.Info().Msg("GenAI client closed.")
	return nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, image *Image) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("gemini: prompt must not be empty")
	}

	model := g.client.GenerativeModel(g.Model())

	temp := float32(0.4)
	maxTokens := int32(1024)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     &temp,
		MaxOutputTokens: &maxTokens,
	}

	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		// The SDK base64-encodes blob data on the wire.
		parts = append(parts, genai.Blob{MIMEType: image.MIMEType, Data: image.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: response had no candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			g.logger.Debug().Str("type", fmt.Sprintf("%T", part)).Msg("Ignoring non-text response part")
		}
	}

	text := strings.TrimSpace(responseText.String())
	if text == "" {
		return "", fmt.Errorf("gemini: response contained no text")
	}
	return text, nil
}

// nextModel returns the fallback entry after current, or "" when none is left.
func nextModel(current string) string {
	for i, m := range FallbackModels {
		if m == current {
			if i+1 < len(FallbackModels) {
				return FallbackModels[i+1]
			}
			return ""
		}
	}
	if len(FallbackModels) > 0 && FallbackModels[0] != current {
		return FallbackModels[0]
	}
	return ""
}
