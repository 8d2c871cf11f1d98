package align

import (
	"testing"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

func oneSentenceBook(words ...string) *model.BookIndex {
	ws := make([]model.Word, len(words))
	for i, w := range words {
		ws[i] = model.Word{Text: w, WordIndex: i, SentenceIndex: 0, ParagraphIndex: 0}
	}
	return &model.BookIndex{
		Words:      ws,
		Sentences:  []model.Sentence{{Id: 0, Range: model.Range{Start: 0, End: len(words) - 1}}},
		Paragraphs: []model.Paragraph{{Id: 0, Range: model.Range{Start: 0, End: len(words) - 1}, Kind: model.ParagraphBody}},
	}
}

func asrFrom(words ...string) *model.AsrResponse {
	toks := make([]model.AsrToken, len(words))
	t := 0.0
	for i, w := range words {
		toks[i] = model.AsrToken{StartTime: t, Duration: 0.3, Word: w}
		t += 0.3
	}
	return &model.AsrResponse{Tokens: toks}
}

// S1: a clean match rolls up to Wer=0, status ok.
func TestRollupS1CleanMatch(t *testing.T) {
	book := oneSentenceBook("chapter", "one", "call", "me", "ishmael")
	asr := asrFrom("chapter", "one", "call", "me", "ishmael")
	ops := AlignWindow(bookTextsOf(book), asrWordsOf(asr), wholeWindow(5, 5), DefaultCostModel(), nil)

	sentences := RollupSentences(book, asr, ops)
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sentences))
	}
	s := sentences[0]
	if s.Metrics.Wer != 0 {
		t.Errorf("Wer = %v, want 0", s.Metrics.Wer)
	}
	if s.Status != model.StatusOk {
		t.Errorf("Status = %v, want ok", s.Status)
	}
}

// S2: a filler insertion yields Wer = 1/5 = 0.20, status attention.
func TestRollupS2FillerInsertion(t *testing.T) {
	book := oneSentenceBook("chapter", "one", "call", "me", "ishmael")
	asr := asrFrom("chapter", "one", "um", "call", "me", "ishmael")
	ops := AlignWindow(bookTextsOf(book), asrWordsOf(asr), wholeWindow(5, 6), DefaultCostModel(), nil)

	sentences := RollupSentences(book, asr, ops)
	s := sentences[0]
	if want := 1.0 / 5.0; abs(s.Metrics.Wer-want) > 1e-9 {
		t.Errorf("Wer = %v, want %v", s.Metrics.Wer, want)
	}
	if s.Status != model.StatusAttention {
		t.Errorf("Status = %v, want attention", s.Status)
	}
}

// S3: a dropped book word yields Wer=0.20, MissingRuns=1, status attention.
func TestRollupS3Deletion(t *testing.T) {
	book := oneSentenceBook("chapter", "one", "call", "me", "ishmael")
	asr := asrFrom("chapter", "one", "call", "me")
	ops := AlignWindow(bookTextsOf(book), asrWordsOf(asr), wholeWindow(5, 4), DefaultCostModel(), nil)

	sentences := RollupSentences(book, asr, ops)
	s := sentences[0]
	if want := 1.0 / 5.0; abs(s.Metrics.Wer-want) > 1e-9 {
		t.Errorf("Wer = %v, want %v", s.Metrics.Wer, want)
	}
	if s.Metrics.MissingRuns != 1 {
		t.Errorf("MissingRuns = %d, want 1", s.Metrics.MissingRuns)
	}
	if s.Status != model.StatusAttention {
		t.Errorf("Status = %v, want attention", s.Status)
	}
}

// S4: two-sentence book, second sentence has one Sub over its three
// words (this fixture has no punctuation words), Wer=1/3.
func TestRollupS4Substitution(t *testing.T) {
	words := []string{"Hello", "world", "How", "are", "you"}
	ws := make([]model.Word, len(words))
	sentIdx := []int{0, 0, 1, 1, 1}
	for i, w := range words {
		ws[i] = model.Word{Text: w, WordIndex: i, SentenceIndex: sentIdx[i]}
	}
	book := &model.BookIndex{
		Words: ws,
		Sentences: []model.Sentence{
			{Id: 0, Range: model.Range{Start: 0, End: 1}},
			{Id: 1, Range: model.Range{Start: 2, End: 4}},
		},
	}
	asr := asrFrom("hello", "world", "howl", "are", "you")
	ops := AlignWindow(bookTextsOf(book), asrWordsOf(asr), wholeWindow(5, 5), DefaultCostModel(), nil)

	sentences := RollupSentences(book, asr, ops)
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	second := sentences[1]
	if want := 1.0 / 3.0; abs(second.Metrics.Wer-want) > 1e-9 {
		t.Errorf("second sentence Wer = %v, want %v (1 sub / 3 words)", second.Metrics.Wer, want)
	}
	if sentences[0].Metrics.Wer != 0 {
		t.Errorf("first sentence Wer = %v, want 0", sentences[0].Metrics.Wer)
	}
}

func bookTextsOf(book *model.BookIndex) []string {
	out := make([]string, len(book.Words))
	for i, w := range book.Words {
		out[i] = normalizeForTest(w.Text)
	}
	return out
}

func asrWordsOf(asr *model.AsrResponse) []string {
	out := make([]string, len(asr.Tokens))
	for i, tok := range asr.Tokens {
		out[i] = normalizeForTest(tok.Word)
	}
	return out
}

// normalizeForTest lowercases so rollup tests can use mixed-case book
// fixtures without pulling in the full normalize package's punctuation
// handling — these tests exercise rollup arithmetic, not normalization.
func normalizeForTest(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}
