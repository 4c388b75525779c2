package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// DefaultSuggestK is how many reference bullets ground a rewrite.
const DefaultSuggestK = 5

// Suggestion is an LLM rewrite grounded on retrieved examples.
type Suggestion struct {
	Examples entities.RetrievalResult
	Text     string
}

// SuggestUseCase rewrites resume bullets for a job description using the
// closest reference examples.
type SuggestUseCase struct {
	retriever *RAGRetriever
	generator *Generator
	k         int
}

// NewSuggestUseCase creates the use case. A non-positive k uses DefaultSuggestK.
func NewSuggestUseCase(retriever *RAGRetriever, generator *Generator, k int) *SuggestUseCase {
	if k <= 0 {
		k = DefaultSuggestK
	}
	return &SuggestUseCase{retriever: retriever, generator: generator, k: k}
}

func (uc *SuggestUseCase) prepare(ctx context.Context, resume, jobDescription string) (entities.RetrievalResult, string, error) {
	if strings.TrimSpace(resume) == "" {
		return entities.RetrievalResult{}, "", fmt.Errorf("resume: %w", entities.ErrEmptyInput)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return entities.RetrievalResult{}, "", fmt.Errorf("job description: %w", entities.ErrEmptyInput)
	}

	if uc.generator == nil {
		return entities.RetrievalResult{}, "", ErrGenerationDisabled
	}

	examples, err := uc.retriever.Retrieve(ctx, jobDescription, uc.k)
	if err != nil {
		return examples, "", err
	}
	return examples, buildSuggestPrompt(examples.Texts(), resume, jobDescription), nil
}

// Suggest retrieves examples with the job description as query and generates the rewrite.
func (uc *SuggestUseCase) Suggest(ctx context.Context, resume, jobDescription string) (*Suggestion, error) {
	examples, prompt, err := uc.prepare(ctx, resume, jobDescription)
	if err != nil {
		return nil, err
	}

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return &Suggestion{Examples: examples}, err
	}
	return &Suggestion{Examples: examples, Text: text}, nil
}

// Stream is Suggest with token-by-token output.
func (uc *SuggestUseCase) Stream(ctx context.Context, resume, jobDescription string) (entities.RetrievalResult, <-chan ports.StreamToken, error) {
	examples, prompt, err := uc.prepare(ctx, resume, jobDescription)
	if err != nil {
		return examples, nil, err
	}

	tokens, err := uc.generator.Stream(ctx, prompt)
	if err != nil {
		return examples, nil, err
	}
	return examples, tokens, nil
}
