package embedding

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestHashAdapter_Deterministic(t *testing.T) {
	a := NewHashAdapter(0)
	x, _ := a.Embed(context.Background(), "Built Power BI dashboards")
	y, _ := a.Embed(context.Background(), "Built Power BI dashboards")

	if !reflect.DeepEqual(x, y) {
		t.Error("same text should give identical vectors")
	}
	if len(x) != DefaultHashDimension {
		t.Errorf("expected %d dims, got %d", DefaultHashDimension, len(x))
	}
}

func TestHashAdapter_UnitNorm(t *testing.T) {
	v, _ := NewHashAdapter(64).Embed(context.Background(), "sql python sql")
	if n := math.Sqrt(dot(v, v)); math.Abs(n-1) > 1e-5 {
		t.Errorf("expected unit norm, got %v", n)
	}
}

func TestHashAdapter_CaseInsensitive(t *testing.T) {
	a := NewHashAdapter(128)
	x, _ := a.Embed(context.Background(), "SQL Python")
	y, _ := a.Embed(context.Background(), "sql, python!")
	if !reflect.DeepEqual(x, y) {
		t.Error("case and punctuation should not change the vector")
	}
}

func TestHashAdapter_EmptyText(t *testing.T) {
	v, err := NewHashAdapter(16).Embed(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dot(v, v) != 0 {
		t.Error("blank text should give a zero vector")
	}
}

func TestHashAdapter_Batch(t *testing.T) {
	out, err := NewHashAdapter(32).EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil || len(out) != 3 {
		t.Fatalf("unexpected batch result %v, %v", out, err)
	}
}

func TestHashAdapter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHashAdapter(8).EmbedBatch(ctx, []string{"a"}); err == nil {
		t.Error("expected context error")
	}
}
