package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// GeminiAdapter implements ports.LLMService using the Gemini API.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a Gemini adapter.
func NewGeminiAdapter(ctx context.Context, apiKey, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("Google API key is not set")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiAdapter{client: client, model: model}, nil
}

func userContent(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

// Generate returns the concatenated text of the first candidate.
func (a *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, userContent(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}

// GenerateStream streams response chunks as tokens.
func (a *GeminiAdapter) GenerateStream(ctx context.Context, prompt string) (<-chan ports.StreamToken, error) {
	ch := make(chan ports.StreamToken, 100)

	go func() {
		defer close(ch)
		for resp, err := range a.client.Models.GenerateContentStream(ctx, a.model, userContent(prompt), nil) {
			if err != nil {
				ch <- ports.StreamToken{Done: true, Error: fmt.Errorf("Gemini API error: %w", err)}
				return
			}
			ch <- ports.StreamToken{Content: resp.Text()}
		}
		ch <- ports.StreamToken{Done: true}
	}()
	return ch, nil
}
