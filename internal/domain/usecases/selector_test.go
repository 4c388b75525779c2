package usecases

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/matching"
)

var testVocab = []string{"python", "sql", "engineer", "data", "analyst", "barista", "coffee", "excel"}

func newTestSelector() *ResumeSelector {
	svc := &mockEmbeddingService{embedFn: bagOfWords(testVocab...)}
	return NewResumeSelector(NewEmbedder(svc, 8), matching.MustToolExtractor(matching.DefaultTools))
}

func TestResumeSelector_PicksBestMatch(t *testing.T) {
	s := newTestSelector()

	candidates := []entities.Document{
		entities.NewDocument("a.txt", "Python SQL engineer"),
		entities.NewDocument("b.txt", "Barista with no tech skills"),
	}
	reference := entities.NewDocument("job description", "Looking for a Python and SQL data analyst")

	best, results, err := s.SelectBest(context.Background(), candidates, reference)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if best != 0 {
		t.Errorf("expected index 0, got %d", best)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("expected first candidate to score higher: %v vs %v", results[0].Score, results[1].Score)
	}
	if results[0].Source != "a.txt" {
		t.Errorf("expected source a.txt, got %s", results[0].Source)
	}
	if !reflect.DeepEqual(results[0].Matched, []string{"Python", "SQL"}) {
		t.Errorf("unexpected matched tools %v", results[0].Matched)
	}
	if !reflect.DeepEqual(results[1].Missing, []string{"Python", "SQL"}) {
		t.Errorf("unexpected missing tools %v", results[1].Missing)
	}
}

func TestResumeSelector_TiesGoToEarliest(t *testing.T) {
	s := newTestSelector()

	candidates := []entities.Document{
		entities.NewDocument("first.txt", "barista"),
		entities.NewDocument("second.txt", "SQL analyst"),
		entities.NewDocument("third.txt", "SQL analyst"),
	}
	reference := entities.NewDocument("job description", "SQL analyst")

	best, _, err := s.SelectBest(context.Background(), candidates, reference)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if best != 1 {
		t.Errorf("expected earliest of the tied candidates (1), got %d", best)
	}
}

func TestResumeSelector_OneBatchedEncode(t *testing.T) {
	svc := &mockEmbeddingService{embedFn: bagOfWords(testVocab...)}
	enc := &countingEncoder{inner: NewEmbedder(svc, 32)}
	s := NewResumeSelector(enc, nil)

	candidates := []entities.Document{
		entities.NewDocument("a", "python"),
		entities.NewDocument("b", "sql"),
		entities.NewDocument("c", "excel"),
	}
	if _, _, err := s.SelectBest(context.Background(), candidates, entities.NewDocument("jd", "sql")); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if enc.calls != 1 {
		t.Errorf("expected one encode call, got %d", enc.calls)
	}
}

func TestResumeSelector_NoCandidates(t *testing.T) {
	s := newTestSelector()

	_, _, err := s.SelectBest(context.Background(), nil, entities.NewDocument("jd", "SQL"))
	if !errors.Is(err, entities.ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

func TestResumeSelector_BlankCandidateScoresZero(t *testing.T) {
	s := newTestSelector()

	candidates := []entities.Document{
		entities.NewDocument("blank.txt", "   "),
		entities.NewDocument("good.txt", "sql"),
	}
	best, results, err := s.SelectBest(context.Background(), candidates, entities.NewDocument("jd", "sql"))
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if results[0].Score != 0 {
		t.Errorf("blank candidate should score 0, got %v", results[0].Score)
	}
	if best != 1 {
		t.Errorf("expected index 1, got %d", best)
	}
}

func TestResumeSelector_ModelUnavailable(t *testing.T) {
	engine := NewEngine(NewEmbedder(&mockEmbeddingService{}, 8), &mockIndex{})
	s := NewResumeSelector(engine, nil)

	_, _, err := s.SelectBest(context.Background(),
		[]entities.Document{entities.NewDocument("a", "sql")}, entities.NewDocument("jd", "sql"))
	if !errors.Is(err, entities.ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}
