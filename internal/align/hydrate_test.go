package align

import (
	"context"
	"testing"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

func TestHydratePureFunction(t *testing.T) {
	book := &model.BookIndex{
		Words: []model.Word{
			{Text: "Call", WordIndex: 0}, {Text: "me", WordIndex: 1}, {Text: "Ishmael", WordIndex: 2},
		},
	}
	asr := &model.AsrResponse{Tokens: []model.AsrToken{
		{Word: "call"}, {Word: "me"}, {Word: "ishmael"},
	}}
	idx := &model.TranscriptIndex{
		BookPath: "book.json", AsrPath: "asr.json", CreatedAt: "2026-01-01T00:00:00Z",
		NormalizationVersion: normalizationVersionForTest,
		Sentences: []model.SentenceAlign{
			{Id: 0, BookRange: model.Range{Start: 0, End: 2}, ScriptRange: &model.ScriptRange{Start: 0, End: 2}},
		},
	}

	h1, err := Hydrate(context.Background(), idx, book, asr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := Hydrate(context.Background(), idx, book, asr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1.Sentences[0].BookText != "Call me Ishmael" {
		t.Errorf("BookText = %q", h1.Sentences[0].BookText)
	}
	if h1.Sentences[0].ScriptText != "call me ishmael" {
		t.Errorf("ScriptText = %q", h1.Sentences[0].ScriptText)
	}
	if len(h1.Sentences[0].Diff.Ops) != len(h2.Sentences[0].Diff.Ops) {
		t.Errorf("hydration is not deterministic across repeated calls")
	}
}

func TestHydrateCancelled(t *testing.T) {
	idx := &model.TranscriptIndex{
		Sentences: []model.SentenceAlign{{Id: 0, BookRange: model.Range{Start: 0, End: 0}}},
	}
	book := &model.BookIndex{}
	asr := &model.AsrResponse{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h, err := Hydrate(ctx, idx, book, asr)
	if err != model.ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if h != nil {
		t.Fatalf("expected nil result on cancellation, got %v", h)
	}
}

const normalizationVersionForTest = "1.0.0"
