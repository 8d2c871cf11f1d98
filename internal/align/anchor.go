package align

import (
	"context"
	"sort"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// ngramIndex maps an n-gram key to the ascending book positions (start of
// the n-gram, in filtered book-view indices) where it occurs within the
// active window, excluding any n-gram that contains a stopword token.
type ngramIndex map[string][]int

func buildNgramIndex(bookTokens []string, n, bStart, bEnd int, stopwords map[string]bool) ngramIndex {
	idx := make(ngramIndex)
	if bEnd-n+1 < bStart {
		return idx
	}
	for i := bStart; i+n-1 <= bEnd; i++ {
		if ngramHasStopword(bookTokens, i, n, stopwords) {
			continue
		}
		key := ngramKey(bookTokens, i, n)
		idx[key] = append(idx[key], i)
	}
	return idx
}

func ngramHasStopword(tokens []string, start, n int, stopwords map[string]bool) bool {
	if stopwords == nil {
		return false
	}
	for i := start; i < start+n; i++ {
		if stopwords[tokens[i]] {
			return true
		}
	}
	return false
}

func ngramKey(tokens []string, start, n int) string {
	// '\x1f' (unit separator) cannot appear in normalized tokens, so this
	// is collision-free without per-token length prefixes.
	key := tokens[start]
	for i := start + 1; i < start+n; i++ {
		key += "\x1f" + tokens[i]
	}
	return key
}

// DiscoverAnchors selects a sparse, order-preserving sequence of filtered
// n-gram matches between bookTokens[bStart..bEnd] and asrTokens via a
// five-step seed/filter/relax/dedupe/resolve pipeline. Zero anchors is a
// valid outcome. ctx is checked before each of the two scan passes,
// returning model.ErrCancelled if it has already been cancelled.
func DiscoverAnchors(ctx context.Context, bookTokens []string, bookSentenceIndex []int, asrTokens []string, policy model.AnchorPolicy, bStart, bEnd int) ([]model.Anchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.ErrCancelled
	}
	n := policy.NGram
	if n <= 0 {
		n = 3
	}
	if bEnd < bStart || bEnd-bStart+1 < n || len(asrTokens) < n {
		return nil, nil
	}
	stopwords := stopwordSet(policy.Stopwords)
	idx := buildNgramIndex(bookTokens, n, bStart, bEnd, stopwords)

	anchors := scanUnambiguous(bookTokens, bookSentenceIndex, asrTokens, idx, n, policy)

	if policy.AllowDuplicates || needsRelaxation(anchors, bStart, bEnd, policy.TargetPerTokens) {
		if err := ctx.Err(); err != nil {
			return nil, model.ErrCancelled
		}
		anchors = relaxWithDuplicates(bookTokens, bookSentenceIndex, asrTokens, n, bStart, bEnd, policy, anchors)
	}
	return anchors, nil
}

func stopwordSet(words []string) map[string]bool {
	if len(words) == 0 {
		return nil
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func needsRelaxation(anchors []model.Anchor, bStart, bEnd, targetPerTokens int) bool {
	if targetPerTokens <= 0 {
		return false
	}
	span := bEnd - bStart + 1
	target := ceilDiv(span, targetPerTokens)
	return len(anchors) < target
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// scanUnambiguous is step 2-4: stream ASR n-grams, accept a candidate when
// it hits the book index exactly once, preserves monotonicity, clears
// MinSeparation and (if configured) stays within one book sentence.
func scanUnambiguous(bookTokens []string, bookSentenceIndex []int, asrTokens []string, idx ngramIndex, n int, policy model.AnchorPolicy) []model.Anchor {
	var anchors []model.Anchor
	lastBp, lastAp := -1, -1
	for ap := 0; ap+n-1 < len(asrTokens); ap++ {
		key := ngramKey(asrTokens, ap, n)
		hits := idx[key]
		if len(hits) != 1 {
			continue
		}
		bp := hits[0]
		if bp <= lastBp || ap <= lastAp {
			continue
		}
		if lastBp >= 0 && bp < lastBp+policy.MinSeparation {
			continue
		}
		if policy.DisallowBoundaryCross && crossesSentence(bookSentenceIndex, bp, n) {
			continue
		}
		anchors = append(anchors, model.Anchor{Bp: bp, Ap: ap})
		lastBp, lastAp = bp, ap
	}
	return anchors
}

func crossesSentence(bookSentenceIndex []int, bp, n int) bool {
	first := bookSentenceIndex[bp]
	for i := bp + 1; i < bp+n; i++ {
		if bookSentenceIndex[i] != first {
			return true
		}
	}
	return false
}

// relaxWithDuplicates is step 5: re-scan allowing ambiguous book hits,
// filling the gaps between (and around) the anchors already accepted by
// scanUnambiguous. Each ambiguous hit is resolved by picking the book
// position closest to the linear interpolation between the anchors
// surrounding the gap, ties broken by smallest Bp.
func relaxWithDuplicates(bookTokens []string, bookSentenceIndex []int, asrTokens []string, n, bStart, bEnd int, policy model.AnchorPolicy, base []model.Anchor) []model.Anchor {
	idxAll := buildNgramIndexAllowingDuplicates(bookTokens, n, bStart, bEnd, stopwordSet(policy.Stopwords))

	bounds := append([]model.Anchor{{Bp: bStart - 1, Ap: -1}}, base...)
	bounds = append(bounds, model.Anchor{Bp: bEnd + 1, Ap: len(asrTokens)})

	var merged []model.Anchor
	for g := 0; g+1 < len(bounds); g++ {
		prev, next := bounds[g], bounds[g+1]
		if g > 0 { // bounds[0] is the virtual pre-region marker, not a real anchor
			merged = append(merged, prev)
		}
		merged = append(merged, fillGap(bookTokens, bookSentenceIndex, asrTokens, idxAll, n, policy, prev, next)...)
	}
	if last := bounds[len(bounds)-1]; last.Ap < len(asrTokens) { // drop the virtual post-region marker
		merged = append(merged, last)
	}
	return merged
}

func buildNgramIndexAllowingDuplicates(bookTokens []string, n, bStart, bEnd int, stopwords map[string]bool) ngramIndex {
	idx := make(ngramIndex)
	if bEnd-n+1 < bStart {
		return idx
	}
	for i := bStart; i+n-1 <= bEnd; i++ {
		if ngramHasStopword(bookTokens, i, n, stopwords) {
			continue
		}
		key := ngramKey(bookTokens, i, n)
		idx[key] = append(idx[key], i)
	}
	for k := range idx {
		sort.Ints(idx[k])
	}
	return idx
}

// fillGap scans the ASR range strictly between prev.Ap and next.Ap,
// inserting ambiguous-hit anchors that land strictly between prev.Bp and
// next.Bp, respecting MinSeparation and boundary constraints.
func fillGap(bookTokens []string, bookSentenceIndex []int, asrTokens []string, idx ngramIndex, n int, policy model.AnchorPolicy, prev, next model.Anchor) []model.Anchor {
	var out []model.Anchor
	lastBp := prev.Bp
	loBound, hiBound := prev.Bp+1, next.Bp-1
	if loBound > hiBound {
		return nil
	}
	for ap := prev.Ap + 1; ap < next.Ap && ap+n-1 < len(asrTokens); ap++ {
		key := ngramKey(asrTokens, ap, n)
		hits := idx[key]
		if len(hits) == 0 {
			continue
		}
		candidate, ok := pickInterpolatedHit(hits, loBound, hiBound, lastBp, prev, next, ap)
		if !ok {
			continue
		}
		if candidate <= lastBp || candidate < lastBp+policy.MinSeparation {
			continue
		}
		if policy.DisallowBoundaryCross && crossesSentence(bookSentenceIndex, candidate, n) {
			continue
		}
		out = append(out, model.Anchor{Bp: candidate, Ap: ap})
		lastBp = candidate
	}
	return out
}

// pickInterpolatedHit chooses, among hits within [loBound,hiBound], the
// one closest to the linear interpolation of Bp at position ap between
// prev and next; ties favor the smallest Bp.
func pickInterpolatedHit(hits []int, loBound, hiBound, lastBp int, prev, next model.Anchor, ap int) (int, bool) {
	expected := interpolate(prev, next, ap)
	best := -1
	bestDist := -1.0
	for _, h := range hits {
		if h < loBound || h > hiBound || h <= lastBp {
			continue
		}
		dist := abs(float64(h) - expected)
		if best == -1 || dist < bestDist || (dist == bestDist && h < best) {
			best, bestDist = h, dist
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func interpolate(prev, next model.Anchor, ap int) float64 {
	if next.Ap == prev.Ap {
		return float64(prev.Bp)
	}
	frac := float64(ap-prev.Ap) / float64(next.Ap-prev.Ap)
	return float64(prev.Bp) + frac*float64(next.Bp-prev.Bp)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
