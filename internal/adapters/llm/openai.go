package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// OpenAIAdapter implements ports.LLMService with chat completions.
type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

// NewOpenAIAdapter creates an OpenAI chat adapter. baseURL may point at any
// OpenAI-compatible server.
func NewOpenAIAdapter(apiKey, baseURL, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (a *OpenAIAdapter) request(prompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: stream,
	}
}

// Generate returns the first choice of a chat completion.
func (a *OpenAIAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, a.request(prompt, false))
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream streams completion deltas.
func (a *OpenAIAdapter) GenerateStream(ctx context.Context, prompt string) (<-chan ports.StreamToken, error) {
	stream, err := a.client.CreateChatCompletionStream(ctx, a.request(prompt, true))
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	ch := make(chan ports.StreamToken, 100)
	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				ch <- ports.StreamToken{Done: true}
				return
			}
			if err != nil {
				ch <- ports.StreamToken{Done: true, Error: err}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			ch <- ports.StreamToken{Content: resp.Choices[0].Delta.Content}
		}
	}()
	return ch, nil
}
