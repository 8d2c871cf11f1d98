package align

import (
	"context"
	"math"
	"sort"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// AssignFragments builds the chapter-wide fragment timeline from chunk
// alignments and greedily matches one fragment to each sentence: chunks
// are ordered by OffsetSec, every non-silence interval becomes a Fragment
// at its absolute chapter time, and each sentence (in id order) claims
// the unused fragment whose start is closest to its expected ASR start
// time, within a driftCap, searching forward from the last claimed
// fragment first and only then backward.
func AssignFragments(chunks []model.ChunkAlignment, sentences []model.SentenceAlign, asr *model.AsrResponse, driftCap float64) map[int]model.Fragment {
	fragments := buildFragmentTimeline(chunks)
	if len(fragments) == 0 {
		return nil
	}
	used := make([]bool, len(fragments))
	cursor := 0

	assigned := make(map[int]model.Fragment)
	for _, s := range sentences {
		target, ok := expectedAsrStart(s, asr)
		if !ok {
			continue
		}
		idx, found := claimForward(fragments, used, cursor, target, driftCap)
		if !found {
			idx, found = claimBackward(fragments, used, cursor, target, driftCap)
		}
		if !found {
			continue
		}
		used[idx] = true
		assigned[s.Id] = fragments[idx]
		if idx+1 > cursor {
			cursor = idx + 1
		}
	}
	return assigned
}

func buildFragmentTimeline(chunks []model.ChunkAlignment) []model.Fragment {
	sorted := make([]model.ChunkAlignment, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OffsetSec < sorted[j].OffsetSec })

	var out []model.Fragment
	for _, chunk := range sorted {
		fi := 0
		for _, iv := range chunk.Intervals {
			if model.IsSilence(iv.Text) {
				continue
			}
			out = append(out, model.Fragment{
				ChunkId:       chunk.ChunkId,
				FragmentIndex: fi,
				Start:         chunk.OffsetSec + iv.Xmin,
				End:           chunk.OffsetSec + iv.Xmax,
			})
			fi++
		}
	}
	return out
}

func expectedAsrStart(s model.SentenceAlign, asr *model.AsrResponse) (float64, bool) {
	if s.ScriptRange == nil {
		return 0, false
	}
	idx := s.ScriptRange.Start
	if idx < 0 || idx >= len(asr.Tokens) {
		return 0, false
	}
	return asr.Tokens[idx].StartTime, true
}

func claimForward(fragments []model.Fragment, used []bool, from int, target, cap float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i := from; i < len(fragments); i++ {
		if used[i] {
			continue
		}
		dist := math.Abs(fragments[i].Start - target)
		if dist > cap {
			if fragments[i].Start-target > cap {
				break // fragments are time-ordered; nothing further forward can get closer
			}
			continue
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, best != -1
}

func claimBackward(fragments []model.Fragment, used []bool, from int, target, cap float64) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	for i := from - 1; i >= 0; i-- {
		if used[i] {
			continue
		}
		dist := math.Abs(fragments[i].Start - target)
		if dist > cap {
			continue
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, best != -1
}

// RefineSentences derives each sentence's [Start,End] audio window,
// snapping to silence boundaries and enforcing monotonicity. Sentences
// must be supplied in id order; fragments is the per-sentence assignment
// from AssignFragments (nil or a partial map is fine — unmatched
// sentences fall back to ASR timing). ctx is checked at each sentence
// boundary; a cancelled ctx aborts the remaining sentences and
// RefineSentences returns model.ErrCancelled.
func RefineSentences(ctx context.Context, sentences []model.SentenceAlign, asr *model.AsrResponse, fragments map[int]model.Fragment, silences *model.SilenceTimeline, minTailSec, maxSnapAheadSec float64) ([]model.SentenceRefined, error) {
	out := make([]model.SentenceRefined, 0, len(sentences))
	previousEnd := 0.0
	previousTokenEnd := -1

	for _, s := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, model.ErrCancelled
		}
		startIdx, endIdx := resolveTokenRange(s, previousTokenEnd, len(asr.Tokens))

		frag, hasFrag := fragments[s.Id]
		start := previousEnd
		if hasFrag {
			start = math.Max(previousEnd, frag.Start)
		} else if startIdx >= 0 && startIdx < len(asr.Tokens) {
			start = asr.Tokens[startIdx].StartTime
		}

		end := start + minTailSec
		if hasFrag {
			end = math.Max(end, frag.End)
		} else if endIdx >= 0 && endIdx < len(asr.Tokens) {
			end = math.Max(end, asr.Tokens[endIdx].End())
		}

		lastTokenEnd := end
		if endIdx >= 0 && endIdx < len(asr.Tokens) {
			lastTokenEnd = asr.Tokens[endIdx].End()
		}
		if silences != nil {
			if ev := silences.FirstAtOrAfter(lastTokenEnd); ev != nil && ev.Start-lastTokenEnd <= maxSnapAheadSec {
				end = math.Max(end, ev.Start)
			}
		}

		if start < previousEnd {
			start = previousEnd
		}
		if end < start+minTailSec {
			end = start + minTailSec
		}
		start = roundMicros(start)
		end = roundMicros(end)

		out = append(out, model.SentenceRefined{
			SentenceId: s.Id, Start: start, End: end, TokenStartIdx: startIdx, TokenEndIdx: endIdx,
		})
		previousEnd = end
		previousTokenEnd = endIdx
	}
	return out, nil
}

func resolveTokenRange(s model.SentenceAlign, previousTokenEnd, tokenCount int) (start, end int) {
	if s.ScriptRange != nil {
		start = clampInt(s.ScriptRange.Start, 0, maxInt(tokenCount-1, 0))
		end = clampInt(s.ScriptRange.End, 0, maxInt(tokenCount-1, 0))
		return start, end
	}
	start = previousTokenEnd + 1
	end = start
	return start, end
}

func roundMicros(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
