package usecases

import (
	"context"
	"fmt"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/matching"
)

// ResumeSelector ranks candidate resumes against one job description.
type ResumeSelector struct {
	encoder Encoder
	tools   *matching.ToolExtractor
}

// NewResumeSelector creates a selector. tools may be nil to skip tool comparison.
func NewResumeSelector(encoder Encoder, tools *matching.ToolExtractor) *ResumeSelector {
	return &ResumeSelector{encoder: encoder, tools: tools}
}

// SelectBest embeds each candidate as a whole document, scores it against the
// reference and returns the index of the highest score. Ties go to the earliest candidate.
func (s *ResumeSelector) SelectBest(ctx context.Context, candidates []entities.Document, reference entities.Document) (int, []entities.MatchResult, error) {
	if len(candidates) == 0 {
		return -1, nil, entities.ErrNoCandidates
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, reference.Content)
	for _, c := range candidates {
		texts = append(texts, c.Content)
	}

	vectors, err := s.encoder.Encode(ctx, texts)
	if err != nil {
		return -1, nil, fmt.Errorf("encoding candidates: %w", err)
	}

	refVec := vectors[0]
	results := make([]entities.MatchResult, len(candidates))
	best := 0
	for i, c := range candidates {
		score := matching.Score(refVec, []entities.Vector{vectors[i+1]})
		results[i] = entities.MatchResult{
			DocumentID: c.ID,
			Source:     c.Name,
			Score:      score,
		}
		if s.tools != nil {
			results[i].Matched, results[i].Missing = s.tools.Compare(c.Content, reference.Content)
		}
		if score > results[best].Score {
			best = i
		}
	}

	return best, results, nil
}
