// Package normalize implements pure, deterministic string transforms
// shared by every other alignment component. Apart from the embedded
// stopword and filler lists, loaded once and cached, nothing in this
// package keeps state across calls.
package normalize

import (
	"bufio"
	"embed"
	"log"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

//go:embed dictionaries/*.txt
var dictionariesFS embed.FS

// Version tags the semantic version of these normalization rules. Readers
// that require a specific tag fail with model.ErrIncompatibleNormalization
// on mismatch.
const Version = "1.0.0"

var (
	loadOnce       sync.Once
	defaultStop    map[string]bool
	defaultFillers map[string]bool
)

func loadDictionaries() {
	loadOnce.Do(func() {
		defaultStop = loadWordSet("dictionaries/stopwords_en.txt")
		defaultFillers = loadWordSet("dictionaries/fillers.txt")
	})
}

func loadWordSet(path string) map[string]bool {
	set := make(map[string]bool)
	data, err := dictionariesFS.ReadFile(path)
	if err != nil {
		log.Printf("[normalize] warning: could not load dictionary %s: %v", path, err)
		return set
	}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		set[strings.ToLower(word)] = true
	}
	return set
}

// DefaultStopwords returns the EnglishPlusDomain stopword set.
func DefaultStopwords() map[string]bool {
	loadDictionaries()
	out := make(map[string]bool, len(defaultStop))
	for k := range defaultStop {
		out[k] = true
	}
	return out
}

// DefaultFillers returns the configured filler-word set.
func DefaultFillers() map[string]bool {
	loadDictionaries()
	out := make(map[string]bool, len(defaultFillers))
	for k := range defaultFillers {
		out[k] = true
	}
	return out
}

var typographyReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‹", "'", "›", "'",
	"“", "\"", "”", "\"", "„", "\"", "«", "\"", "»", "\"",
	"–", "-", "—", "-", "−", "-",
)

// NormalizeTypography collapses curly quotes and typographic dashes to
// their ASCII equivalents and normalizes to NFC. Invalid UTF-8 sequences
// and control characters are dropped silently rather than erroring.
func NormalizeTypography(s string) string {
	s = dropControlAndInvalid(s)
	s = typographyReplacer.Replace(s)
	return norm.NFC.String(s)
}

func dropControlAndInvalid(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool {
		return r == unicode.ReplacementChar || (unicode.IsControl(r) && r != '\n' && r != '\t')
	}) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var contractions = map[string]string{
	"can't": "cannot", "won't": "will not", "n't": " not",
	"i'm": "i am", "you're": "you are", "he's": "he is", "she's": "she is",
	"it's": "it is", "we're": "we are", "they're": "they are",
	"i've": "i have", "you've": "you have", "we've": "we have", "they've": "they have",
	"i'll": "i will", "you'll": "you will", "he'll": "he will", "she'll": "she will",
	"we'll": "we will", "they'll": "they will",
	"i'd": "i would", "you'd": "you would", "he'd": "he would", "she'd": "she would",
	"we'd": "we would", "they'd": "they would",
	"let's": "let us", "that's": "that is", "who's": "who is", "what's": "what is",
	"there's": "there is", "here's": "here is",
}

// expandContractions rewrites whole-word contractions using the fixed
// table above. It operates on an already space-tokenized,
// lowercased string.
func expandContractions(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if exp, ok := contractions[f]; ok {
			out = append(out, exp)
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// Normalize lowercases s, strips punctuation (keeping apostrophes inside
// words), and optionally expands contractions and spells out digits
//.
func Normalize(s string, expandContractionsFlag, removeNumbers bool) string {
	s = NormalizeTypography(s)
	s = strings.ToLower(s)

	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' && i > 0 && i < len(runes)-1 &&
			(unicode.IsLetter(runes[i-1]) || unicode.IsDigit(runes[i-1])) &&
			(unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	if expandContractionsFlag {
		s = expandContractions(s)
	}
	if !removeNumbers {
		s = spellOutDigits(s)
	}
	return s
}

// spellOutDigits replaces bare numeric tokens with their English spelling
//.
func spellOutDigits(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if isAllDigits(f) {
			fields[i] = NumberToWords(f)
		}
	}
	return strings.Join(fields, " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// TokenizeWords splits s on non-alphanumeric boundaries, yielding the
// exact token sequence the alignment sees.
func TokenizeWords(s string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
