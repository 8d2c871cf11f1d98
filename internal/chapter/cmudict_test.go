package chapter

import (
	"sort"
	"strings"
	"testing"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

func TestLoadCMUDictParsesVariants(t *testing.T) {
	src := strings.NewReader(";;; comment\nHELLO HH AH0 L OW1\nHELLO(2) HH EH0 L OW1\nWORLD W ER1 L D\n")
	table, err := LoadCMUDict(src)
	if err != nil {
		t.Fatalf("LoadCMUDict: %v", err)
	}
	if len(table["hello"]) != 2 {
		t.Fatalf("expected 2 variants for hello, got %d (%v)", len(table["hello"]), table["hello"])
	}
	if len(table["world"]) != 1 {
		t.Fatalf("expected 1 variant for world, got %d", len(table["world"]))
	}
	if table["world"][0].Phonemes[0] != "W" {
		t.Errorf("world phonemes = %v, want leading W", table["world"][0].Phonemes)
	}
}

func TestDefaultCMUDictLoadsEmbedded(t *testing.T) {
	table := DefaultCMUDict()
	if len(table) == 0 {
		t.Fatal("expected the embedded starter lexicon to load at least one word")
	}
	if _, ok := table["ishmael"]; !ok {
		t.Errorf("expected embedded lexicon to contain 'ishmael', got keys %v", keysOf(table))
	}
}

func keysOf(m map[string][]model.Variant) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
