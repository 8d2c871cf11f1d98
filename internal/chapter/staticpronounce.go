package chapter

import (
	"context"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// NoOpPronunciationProvider never resolves a pronunciation, returning an
// empty map for every call. It satisfies ports.PronunciationProvider for
// callers that want the aligner to run on lexical similarity alone.
type NoOpPronunciationProvider struct{}

func (NoOpPronunciationProvider) GetPronunciations(context.Context, []string) (map[string][]model.Variant, error) {
	return map[string][]model.Variant{}, nil
}

// StaticPronunciationProvider serves pronunciations from an in-memory
// table built once at construction (e.g. from a CMU-dict load), with no
// further I/O per call.
type StaticPronunciationProvider struct {
	table map[string][]model.Variant
}

// NewStaticPronunciationProvider wraps a pre-built lexeme→variants table.
func NewStaticPronunciationProvider(table map[string][]model.Variant) *StaticPronunciationProvider {
	return &StaticPronunciationProvider{table: table}
}

func (p *StaticPronunciationProvider) GetPronunciations(_ context.Context, words []string) (map[string][]model.Variant, error) {
	out := make(map[string][]model.Variant, len(words))
	for _, w := range words {
		if v, ok := p.table[w]; ok {
			out[w] = v
		}
	}
	return out, nil
}
