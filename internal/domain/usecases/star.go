package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// DefaultStarK is how many reference bullets ground a STAR story.
const DefaultStarK = 3

// StarRequest holds the interview question and the user's rough notes.
// Role and Resume are optional.
type StarRequest struct {
	Question string `json:"question"`
	Story    string `json:"story"`
	Role     string `json:"role,omitempty"`
	Resume   string `json:"resume,omitempty"`
	Save     bool   `json:"save,omitempty"`
}

// StarUseCase turns rough notes into a Situation/Task/Action/Result answer.
type StarUseCase struct {
	retriever *RAGRetriever
	generator *Generator
	stories   ports.StoryStore
	k         int
}

// NewStarUseCase creates the use case. stories may be nil to disable saving.
func NewStarUseCase(retriever *RAGRetriever, generator *Generator, stories ports.StoryStore, k int) *StarUseCase {
	if k <= 0 {
		k = DefaultStarK
	}
	return &StarUseCase{retriever: retriever, generator: generator, stories: stories, k: k}
}

// Generate retrieves examples for the combined input and asks the LLM for a STAR story.
// Every field is optional but at least one must be non-blank.
func (uc *StarUseCase) Generate(ctx context.Context, req StarRequest) (*entities.StarStory, entities.RetrievalResult, error) {
	query := strings.Join([]string{req.Question, req.Story, req.Role, req.Resume}, " ")
	if strings.TrimSpace(query) == "" {
		return nil, entities.RetrievalResult{}, fmt.Errorf("star request: %w", entities.ErrEmptyInput)
	}

	if uc.generator == nil {
		return nil, entities.RetrievalResult{}, ErrGenerationDisabled
	}

	examples, err := uc.retriever.Retrieve(ctx, query, uc.k)
	if err != nil {
		return nil, examples, err
	}

	output, err := uc.generator.Generate(ctx, buildStarPrompt(req, examples.Texts()))
	if err != nil {
		return nil, examples, err
	}

	story := &entities.StarStory{
		ID:        uuid.NewString(),
		Question:  req.Question,
		Story:     req.Story,
		Role:      req.Role,
		Resume:    req.Resume,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}

	if req.Save && uc.stories != nil {
		if err := uc.stories.SaveStory(ctx, story); err != nil {
			return story, examples, fmt.Errorf("saving story: %w", err)
		}
	}
	return story, examples, nil
}

// List returns saved stories, newest first.
func (uc *StarUseCase) List(ctx context.Context) ([]entities.StarStory, error) {
	if uc.stories == nil {
		return []entities.StarStory{}, nil
	}
	return uc.stories.ListStories(ctx)
}
