package chapter

import (
	"bufio"
	"bytes"
	"embed"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

//go:embed dictionaries/*.txt
var dictionariesFS embed.FS

var (
	defaultCMUDictOnce sync.Once
	defaultCMUDict     map[string][]model.Variant
)

// DefaultCMUDict returns the embedded starter pronunciation lexicon,
// loaded once and cached for the process lifetime (grounded on
// ai/grammar_checker.go's embed.FS + bufio.Scanner dictionary idiom — the
// same one internal/normalize uses for its stopword and filler lists).
// Production deployments should swap in a StaticPronunciationProvider
// built from a full CMUdict file via LoadCMUDict instead.
func DefaultCMUDict() map[string][]model.Variant {
	defaultCMUDictOnce.Do(func() {
		data, err := dictionariesFS.ReadFile("dictionaries/cmudict_sample.txt")
		if err != nil {
			log.Printf("[cmudict] warning: could not load embedded lexicon: %v", err)
			defaultCMUDict = map[string][]model.Variant{}
			return
		}
		table, err := LoadCMUDict(bytes.NewReader(data))
		if err != nil {
			log.Printf("[cmudict] warning: could not parse embedded lexicon: %v", err)
			table = map[string][]model.Variant{}
		}
		defaultCMUDict = table
	})
	return defaultCMUDict
}

// LoadCMUDict parses a CMUdict-format stream: one "WORD PH PH PH" entry
// per line, comments starting with ";;;", and "WORD(2)"-style suffixes
// marking additional pronunciation variants of the same lowercased word.
func LoadCMUDict(r io.Reader) (map[string][]model.Variant, error) {
	table := make(map[string][]model.Variant)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		word := strings.ToLower(stripVariantSuffix(fields[0]))
		table[word] = append(table[word], model.Variant{Phonemes: fields[1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func stripVariantSuffix(word string) string {
	if i := strings.IndexByte(word, '('); i != -1 {
		return word[:i]
	}
	return word
}
