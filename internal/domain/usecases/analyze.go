package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/matching"
)

// summaryChunks is how many resume chunks go into the analysis prompt.
const summaryChunks = 6

// AnalyzeRequest is a resume to score against a job description.
type AnalyzeRequest struct {
	Resume         entities.Document
	JobDescription string
	WithFeedback   bool // also ask the LLM for strengths, gaps and suggestions
}

// Analysis is the outcome of AnalyzeUseCase.Analyze.
type Analysis struct {
	Match    entities.MatchResult
	Chunks   []string
	Feedback string
}

// AnalyzeUseCase scores a chunked resume against a job description.
type AnalyzeUseCase struct {
	encoder   Encoder
	tools     *matching.ToolExtractor
	generator *Generator
}

// NewAnalyzeUseCase creates the use case. generator may be nil when no LLM is configured.
func NewAnalyzeUseCase(encoder Encoder, tools *matching.ToolExtractor, generator *Generator) *AnalyzeUseCase {
	return &AnalyzeUseCase{encoder: encoder, tools: tools, generator: generator}
}

// Analyze splits the resume into chunks, mean-pools their vectors and compares
// the result with the job description vector. Both texts are encoded in one call.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	if req.Resume.IsBlank() {
		return nil, fmt.Errorf("resume: %w", entities.ErrEmptyInput)
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, fmt.Errorf("job description: %w", entities.ErrEmptyInput)
	}

	chunks := matching.Texts(matching.SplitDocument(req.Resume))

	texts := append([]string{req.JobDescription}, chunks...)
	vectors, err := uc.encoder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("encoding resume: %w", err)
	}

	result := entities.MatchResult{
		DocumentID: req.Resume.ID,
		Source:     req.Resume.Name,
		Score:      matching.Score(vectors[0], vectors[1:]),
	}
	if uc.tools != nil {
		result.Matched, result.Missing = uc.tools.Compare(req.Resume.Content, req.JobDescription)
	}

	analysis := &Analysis{Match: result, Chunks: chunks}

	if req.WithFeedback && uc.generator != nil {
		top := chunks
		if len(top) > summaryChunks {
			top = top[:summaryChunks]
		}
		feedback, err := uc.generator.Generate(ctx, buildAnalysisPrompt(top, req.JobDescription))
		if err != nil {
			return analysis, fmt.Errorf("generating feedback: %w", err)
		}
		analysis.Feedback = feedback
	}

	return analysis, nil
}
