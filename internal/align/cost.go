package align

import (
	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/normalize"
)

// CostModel tunes the word-alignment DP's cost function. Alpha/Beta/Gamma
// are the substitution/deletion/insertion weights; Fillers halves
// insertion cost for spoken filler tokens; Equiv lets a caller force
// lexical similarity to 1.0 for a pair of distinct surface strings (used
// for Sub's cost only — it never turns a pair into a Match, see
// DESIGN.md).
type CostModel struct {
	Alpha, Beta, Gamma float64
	Fillers            map[string]bool
	Equiv              map[string]string // normalized(a) -> normalized(b), symmetric lookups both ways
	MaxPhonemeVariants int
}

// DefaultCostModel returns the weights and filler set used when a caller
// doesn't supply its own tuning.
func DefaultCostModel() CostModel {
	return CostModel{
		Alpha:              1.0,
		Beta:               1.0,
		Gamma:              1.0,
		Fillers:            normalize.DefaultFillers(),
		MaxPhonemeVariants: 32,
	}
}

func (cm CostModel) isEquiv(a, b string) bool {
	if cm.Equiv == nil {
		return false
	}
	if v, ok := cm.Equiv[a]; ok && v == b {
		return true
	}
	if v, ok := cm.Equiv[b]; ok && v == a {
		return true
	}
	return false
}

// similarity blends lexical and phoneme similarity: the
// lexical term is 1 minus the normalized Levenshtein distance (or 1.0 if
// the pair is in the equivalence set); the phoneme term, when both sides
// carry non-empty pronunciation variants, is the minimum normalized
// phoneme edit distance across the Cartesian product of variants,
// converted to similarity. The blend is max(lexical, phoneme).
func (cm CostModel) similarity(a, b string, aPhon, bPhon []model.Variant) float64 {
	lexical := 1.0
	if !cm.isEquiv(a, b) {
		lexical = 1 - normalizedEditDistance(a, b)
	}
	if len(aPhon) == 0 || len(bPhon) == 0 {
		return lexical
	}
	phon := cm.phonemeSimilarity(aPhon, bPhon)
	if phon > lexical {
		return phon
	}
	return lexical
}

// phonemeSimilarity is the highest similarity over all variant pairs (the
// minimum-across-variants phoneme distance, converted to similarity),
// bounded by MaxPhonemeVariants per side.
func (cm CostModel) phonemeSimilarity(aVariants, bVariants []model.Variant) float64 {
	maxV := cm.MaxPhonemeVariants
	if maxV <= 0 {
		maxV = 32
	}
	best := -1.0
	for i, av := range aVariants {
		if i >= maxV {
			break
		}
		for j, bv := range bVariants {
			if j >= maxV {
				break
			}
			sim := 1 - normalizedPhonemeDistance(av.Phonemes, bv.Phonemes)
			if sim > best {
				best = sim
			}
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

// subCost is Sub's cost: alpha * (1 - similarity).
func (cm CostModel) subCost(a, b string, aPhon, bPhon []model.Variant) float64 {
	return cm.Alpha * (1 - cm.similarity(a, b, aPhon, bPhon))
}

// insertCost is Ins's cost: gamma, halved for configured filler words
//.
func (cm CostModel) insertCost(token string) (float64, string) {
	if cm.Fillers[token] {
		return cm.Gamma / 2, "filler"
	}
	return cm.Gamma, ""
}

// deleteCost is Del's cost: a flat beta.
func (cm CostModel) deleteCost() float64 {
	return cm.Beta
}

// levenshtein is the classic edit-distance matrix, operating on runes.
// Hand-rolled rather than imported: see DESIGN.md.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = minInt(minInt(prev[j]+1, cur[j-1]+1), prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func normalizedEditDistance(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	maxLen := maxInt(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 0
	}
	return float64(levenshtein(a, b)) / float64(maxLen)
}

func normalizedPhonemeDistance(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	maxLen := maxInt(len(a), len(b))
	if maxLen == 0 {
		return 0
	}
	return float64(phonemeEditDistance(a, b)) / float64(maxLen)
}

// phonemeEditDistance is Levenshtein distance over a phoneme-symbol
// sequence rather than runes.
func phonemeEditDistance(a, b []string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minInt(minInt(prev[j]+1, cur[j-1]+1), prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
