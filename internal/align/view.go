// Package align implements the alignment engine proper: filtered views,
// section localization, anchor discovery, window building, the DP word
// aligner, rollup, hydration and text diffing, and sentence-timing
// refinement.
package align

import (
	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/normalize"
)

// BuildBookView normalizes every book word and drops empty results,
// retaining a back-map to original word indices and the owning sentence
// id for each surviving token.
func BuildBookView(book *model.BookIndex) *model.BookView {
	view := &model.BookView{
		Tokens:             make([]string, 0, len(book.Words)),
		FilteredToOriginal: make([]int, 0, len(book.Words)),
		SentenceIndex:      make([]int, 0, len(book.Words)),
	}
	for _, w := range book.Words {
		norm := normalize.Normalize(w.Text, true, false)
		if norm == "" {
			continue
		}
		view.Tokens = append(view.Tokens, norm)
		view.FilteredToOriginal = append(view.FilteredToOriginal, w.WordIndex)
		view.SentenceIndex = append(view.SentenceIndex, w.SentenceIndex)
	}
	return view
}

// BuildAsrView normalizes every ASR token word and drops empty results,
// retaining a back-map to original token indices.
func BuildAsrView(asr *model.AsrResponse) *model.AsrView {
	view := &model.AsrView{
		Tokens:             make([]string, 0, len(asr.Tokens)),
		FilteredToOriginal: make([]int, 0, len(asr.Tokens)),
	}
	for i, tok := range asr.Tokens {
		norm := normalize.Normalize(tok.Word, true, false)
		if norm == "" {
			continue
		}
		view.Tokens = append(view.Tokens, norm)
		view.FilteredToOriginal = append(view.FilteredToOriginal, i)
	}
	return view
}
