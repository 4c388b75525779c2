package matching

import (
	"reflect"
	"testing"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "newlines",
			text: "Built dashboards\nAutomated reports\n",
			want: []string{"Built dashboards", "Automated reports"},
		},
		{
			name: "bullet glyphs",
			text: "• Led migration • Cut costs 20% ◦ Mentored juniors",
			want: []string{"Led migration", "Cut costs 20%", "Mentored juniors"},
		},
		{
			name: "dash markers",
			text: "- Wrote SQL\n- Tuned Spark jobs",
			want: []string{"Wrote SQL", "Tuned Spark jobs"},
		},
		{
			name: "hyphenated words survive",
			text: "Cross-functional data-driven work",
			want: []string{"Cross-functional data-driven work"},
		},
		{
			name: "crlf and blank lines",
			text: "one\r\n\r\n   \r\ntwo",
			want: []string{"one", "two"},
		},
		{
			name: "blank",
			text: "  \n\t ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplit_Idempotent(t *testing.T) {
	inputs := []string{
		"• Led migration\n- Cut costs -- fast\n▪ Owned roadmap ● Shipped ‣ Iterated",
		"-- double dash - and trailing -",
		"Summary:\n  Analyst with 5 years - SQL, Python\n\n•••",
	}

	for _, in := range inputs {
		for _, chunk := range Split(in) {
			again := Split(chunk)
			if len(again) != 1 || again[0] != chunk {
				t.Errorf("re-splitting %q gave %q", chunk, again)
			}
		}
	}
}

func TestSplitDocument(t *testing.T) {
	doc := entities.Document{ID: "doc-1", Name: "resume.txt", Content: "first\nsecond"}

	chunks := SplitDocument(doc)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.DocumentID != "doc-1" {
			t.Errorf("chunk %d: expected document ID doc-1, got %s", i, c.DocumentID)
		}
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}
	if chunks[0].ID == chunks[1].ID {
		t.Error("chunk IDs should be unique")
	}
	if got := Texts(chunks); !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Errorf("unexpected texts: %v", got)
	}
}
