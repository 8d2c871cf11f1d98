package align

import (
	"strings"

	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/normalize"
)

// headingKeywords confers +1 to a section's score when both the ASR
// prefix and the section title start with one of these.
var headingKeywords = map[string]bool{
	"chapter": true, "prologue": true, "epilogue": true, "preface": true,
	"introduction": true, "foreword": true, "prelude": true, "contents": true,
}

// DetectSection scores every section by the longest common normalized
// prefix between its title and the first prefixTokenCount ASR words, and
// accepts the best-scoring section if it clears the heading-aware
// threshold. Returns (nil, false) if no section clears it.
func DetectSection(book *model.BookIndex, asrRawTokens []string, prefixTokenCount int) (*model.Section, bool) {
	if len(book.Sections) == 0 {
		return nil, false
	}
	if prefixTokenCount <= 0 {
		prefixTokenCount = 8
	}
	if prefixTokenCount > len(asrRawTokens) {
		prefixTokenCount = len(asrRawTokens)
	}
	prefix := strings.Join(asrRawTokens[:prefixTokenCount], " ")
	normPrefix := normalize.Normalize(prefix, true, false)
	prefixTokens := strings.Fields(normPrefix)
	if len(prefixTokens) == 0 {
		return nil, false
	}
	asrIsHeading := headingKeywords[prefixTokens[0]]

	bestScore := -1
	bestIdx := -1
	for i, sec := range book.Sections {
		titleTokens := strings.Fields(normalize.Normalize(sec.Title, true, false))
		score := longestCommonPrefixLen(prefixTokens, titleTokens)
		if len(titleTokens) > 0 && asrIsHeading && headingKeywords[titleTokens[0]] && prefixTokens[0] == titleTokens[0] {
			score++
		}
		if score > bestScore || (score == bestScore && bestIdx != -1 && sec.Id < book.Sections[bestIdx].Id) {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return nil, false
	}

	threshold := 2
	if asrIsHeading {
		threshold = 1
	}
	if bestScore < threshold {
		return nil, false
	}
	sec := book.Sections[bestIdx]
	return &sec, true
}

func longestCommonPrefixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// ResolveSectionByTitle finds a section whose normalized title equals the
// normalized label, used when the caller already knows the
// section (e.g. from a chapter directory name).
func ResolveSectionByTitle(book *model.BookIndex, label string) (*model.Section, bool) {
	normLabel := normalize.Normalize(label, true, false)
	for _, sec := range book.Sections {
		if normalize.Normalize(sec.Title, true, false) == normLabel {
			s := sec
			return &s, true
		}
	}
	return nil, false
}
