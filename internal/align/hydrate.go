package align

import (
	"context"
	"strings"

	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/normalize"
)

// Hydrate attaches surface text and a word-level diff to every sentence
// in a TranscriptIndex, producing the consumer-facing HydratedTranscript.
// It is a pure function of its three inputs, save for the caller-supplied
// creation timestamp already baked into idx. ctx is checked at each
// sentence boundary; a cancelled ctx aborts the remaining sentences and
// Hydrate returns model.ErrCancelled.
func Hydrate(ctx context.Context, idx *model.TranscriptIndex, book *model.BookIndex, asr *model.AsrResponse) (*model.HydratedTranscript, error) {
	out := &model.HydratedTranscript{
		BookPath:             idx.BookPath,
		AsrPath:              idx.AsrPath,
		CreatedAt:            idx.CreatedAt,
		NormalizationVersion: idx.NormalizationVersion,
		Words:                make([]model.HydratedWordAlign, len(idx.Words)),
		Sentences:            make([]model.HydratedSentence, len(idx.Sentences)),
		Paragraphs:           make([]model.HydratedParagraph, len(idx.Paragraphs)),
	}

	for i, w := range idx.Words {
		out.Words[i] = model.HydratedWordAlign{
			BookIdx: w.BookIdx, AsrIdx: w.AsrIdx, Op: string(w.Op), Reason: w.Reason, Score: w.Score,
		}
	}

	for i, s := range idx.Sentences {
		if err := ctx.Err(); err != nil {
			return nil, model.ErrCancelled
		}
		bookText := surfaceText(joinBookWords(book, s.BookRange))
		scriptText := ""
		if s.ScriptRange != nil {
			scriptText = surfaceText(joinAsrWords(asr, *s.ScriptRange))
		}
		out.Sentences[i] = model.HydratedSentence{
			SentenceAlign: s,
			BookText:      bookText,
			ScriptText:    scriptText,
			Diff:          model.SentenceDiff{Ops: WordDiff(bookText, scriptText)},
		}
	}

	for i, p := range idx.Paragraphs {
		out.Paragraphs[i] = model.HydratedParagraph{
			ParagraphAlign: p,
			Coverage:       p.Metrics.Coverage,
		}
	}
	return out, nil
}

// surfaceText applies NormalizeTypography and collapses whitespace.
func surfaceText(s string) string {
	return strings.Join(strings.Fields(normalize.NormalizeTypography(s)), " ")
}
