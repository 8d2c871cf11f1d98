package align

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// RollupSentences derives per-sentence metrics from a full aligned-op
// stream. ops must be sorted by BookIdx/AsrIdx ascending, as produced by
// AlignWindows.
func RollupSentences(book *model.BookIndex, asr *model.AsrResponse, ops []model.WordAlign) []model.SentenceAlign {
	insCounts, extraRuns := attachInsertions(book, ops)

	out := make([]model.SentenceAlign, 0, len(book.Sentences))
	for _, s := range book.Sentences {
		rangeOps := opsInBookRange(ops, s.Range)

		var minB, maxB, minA, maxA = -1, -1, -1, -1
		subs, dels := 0, 0
		missingRuns := 0
		inDelRun := false
		for _, op := range rangeOps {
			bi := *op.BookIdx
			if minB == -1 || bi < minB {
				minB = bi
			}
			if bi > maxB {
				maxB = bi
			}
			switch op.Op {
			case model.OpSub:
				subs++
				inDelRun = false
				if minA == -1 || *op.AsrIdx < minA {
					minA = *op.AsrIdx
				}
				if *op.AsrIdx > maxA {
					maxA = *op.AsrIdx
				}
			case model.OpDel:
				dels++
				if !inDelRun {
					missingRuns++
					inDelRun = true
				}
			case model.OpMatch:
				inDelRun = false
				if minA == -1 || *op.AsrIdx < minA {
					minA = *op.AsrIdx
				}
				if *op.AsrIdx > maxA {
					maxA = *op.AsrIdx
				}
			}
		}

		ins := insCounts[s.Id]
		wer := 0.0
		if n := s.Range.Len(); n > 0 {
			wer = float64(subs+dels+ins) / float64(n)
		}

		var scriptRange *model.ScriptRange
		if minA != -1 {
			scriptRange = &model.ScriptRange{Start: minA, End: maxA}
		}

		metrics := model.SentenceMetrics{
			Wer:         wer,
			SpanWer:     spanWer(ops, rangeOps, minB, maxB),
			Cer:         sentenceCer(book, asr, s.Range, scriptRange),
			MissingRuns: missingRuns,
			ExtraRuns:   extraRuns[s.Id],
		}
		out = append(out, model.SentenceAlign{
			Id:          s.Id,
			BookRange:   s.Range,
			ScriptRange: scriptRange,
			Metrics:     metrics,
			Status:      model.StatusFor(wer, missingRuns),
		})
	}
	return out
}

// opsInBookRange returns the ops with a BookIdx inside r, in order.
func opsInBookRange(ops []model.WordAlign, r model.Range) []model.WordAlign {
	var out []model.WordAlign
	for _, op := range ops {
		if op.BookIdx != nil && r.Contains(*op.BookIdx) {
			out = append(out, op)
		}
	}
	return out
}

// attachInsertions assigns every Ins op to the sentence of its nearest
// neighboring aligned (BookIdx-bearing) op — the preceding one if any,
// else the following one — and counts both the total insertions and the
// number of maximal consecutive Ins runs attached to each sentence.
func attachInsertions(book *model.BookIndex, ops []model.WordAlign) (counts map[int]int, runs map[int]int) {
	counts = make(map[int]int)
	runs = make(map[int]int)

	lastSentence := -1
	runOpen := false
	for i, op := range ops {
		if op.BookIdx != nil {
			if sent := book.SentenceAt(*op.BookIdx); sent != nil {
				lastSentence = sent.Id
			}
			runOpen = false
			continue
		}
		target := lastSentence
		if target == -1 {
			target = lookaheadSentence(book, ops, i)
		}
		if target == -1 {
			continue
		}
		counts[target]++
		if !runOpen {
			runs[target]++
			runOpen = true
		}
	}
	return counts, runs
}

func lookaheadSentence(book *model.BookIndex, ops []model.WordAlign, from int) int {
	for i := from; i < len(ops); i++ {
		if ops[i].BookIdx != nil {
			if sent := book.SentenceAt(*ops[i].BookIdx); sent != nil {
				return sent.Id
			}
			return -1
		}
	}
	return -1
}

// spanWer restricts Wer's op count to those strictly between the
// sentence's observed min and max BookIdx — this drops the two boundary
// ops (which may really belong to a neighboring sentence's transition)
// and measures error density over the interior span only. Insertions
// count only when they sit in the op stream between the minB and maxB ops.
func spanWer(ops, rangeOps []model.WordAlign, minB, maxB int) float64 {
	if maxB-minB < 2 {
		return 0
	}
	subs, dels := 0, 0
	for _, op := range rangeOps {
		bi := *op.BookIdx
		if bi <= minB || bi >= maxB {
			continue
		}
		switch op.Op {
		case model.OpSub:
			subs++
		case model.OpDel:
			dels++
		}
	}
	ins := 0
	inside := false
	for _, op := range ops {
		if op.BookIdx == nil {
			if inside && op.Op == model.OpIns {
				ins++
			}
			continue
		}
		if *op.BookIdx >= maxB {
			break
		}
		inside = *op.BookIdx >= minB
	}
	span := maxB - minB - 1
	return float64(subs+dels+ins) / float64(span)
}

func sentenceCer(book *model.BookIndex, asr *model.AsrResponse, bookRange model.Range, scriptRange *model.ScriptRange) float64 {
	bookStr := joinBookWords(book, bookRange)
	if scriptRange == nil {
		if bookStr == "" {
			return 0
		}
		return 1
	}
	asrStr := joinAsrWords(asr, *scriptRange)
	if bookStr == "" {
		if asrStr == "" {
			return 0
		}
		return 1
	}
	return float64(levenshtein(bookStr, asrStr)) / float64(len([]rune(bookStr)))
}

func joinBookWords(book *model.BookIndex, r model.Range) string {
	words := make([]string, 0, r.Len())
	for i := r.Start; i <= r.End && i < len(book.Words); i++ {
		if i < 0 {
			continue
		}
		words = append(words, book.Words[i].Text)
	}
	return strings.Join(words, " ")
}

func joinAsrWords(asr *model.AsrResponse, r model.ScriptRange) string {
	words := make([]string, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End && i < len(asr.Tokens); i++ {
		if i < 0 {
			continue
		}
		words = append(words, asr.Tokens[i].Word)
	}
	return strings.Join(words, " ")
}

// RollupParagraphs derives paragraph-level metrics from their member
// sentences and the underlying ops: Wer is a
// length-weighted mean of member sentence WERs, Coverage is the fraction
// of paragraph words whose op is non-Del.
func RollupParagraphs(book *model.BookIndex, ops []model.WordAlign, sentences []model.SentenceAlign) []model.ParagraphAlign {
	sentByID := make(map[int]model.SentenceAlign, len(sentences))
	for _, s := range sentences {
		sentByID[s.Id] = s
	}

	out := make([]model.ParagraphAlign, 0, len(book.Paragraphs))
	for _, p := range book.Paragraphs {
		var wers, cers, weights []float64
		for _, s := range book.Sentences {
			if !p.Range.Contains(s.Range.Start) {
				continue
			}
			sa, ok := sentByID[s.Id]
			if !ok {
				continue
			}
			weights = append(weights, float64(s.Range.Len()))
			wers = append(wers, sa.Metrics.Wer)
			cers = append(cers, sa.Metrics.Cer)
		}
		wer, cer := 0.0, 0.0
		if len(weights) > 0 {
			wer = stat.Mean(wers, weights)
			cer = stat.Mean(cers, weights)
		}

		covered := 0
		rangeOps := opsInBookRange(ops, p.Range)
		for _, op := range rangeOps {
			if op.Op != model.OpDel {
				covered++
			}
		}
		coverage := 0.0
		if n := p.Range.Len(); n > 0 {
			coverage = float64(covered) / float64(n)
		}

		out = append(out, model.ParagraphAlign{
			Id:        p.Id,
			BookRange: p.Range,
			Metrics:   model.ParagraphMetrics{Wer: wer, Cer: cer, Coverage: coverage},
			Status:    model.StatusForParagraph(wer),
		})
	}
	return out
}
