package align

import (
	"testing"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

func TestWordDiffIdentical(t *testing.T) {
	ops := WordDiff("the quick fox", "the quick fox")
	if len(ops) != 1 || ops[0].Op != model.DiffEqual || len(ops[0].Tokens) != 3 {
		t.Fatalf("unexpected diff for identical strings: %+v", ops)
	}
}

func TestWordDiffSubstitution(t *testing.T) {
	ops := WordDiff("how are you", "howl are you")
	// Expect: delete("how"), insert("howl"), equal("are","you").
	if len(ops) != 3 {
		t.Fatalf("expected 3 runs, got %d (%+v)", len(ops), ops)
	}
	if ops[0].Op != model.DiffDelete || ops[0].Tokens[0] != "how" {
		t.Errorf("ops[0] = %+v, want delete(how)", ops[0])
	}
	if ops[1].Op != model.DiffInsert || ops[1].Tokens[0] != "howl" {
		t.Errorf("ops[1] = %+v, want insert(howl)", ops[1])
	}
	if ops[2].Op != model.DiffEqual || len(ops[2].Tokens) != 2 {
		t.Errorf("ops[2] = %+v, want equal(are,you)", ops[2])
	}
}

func TestWordDiffInsertionOnly(t *testing.T) {
	ops := WordDiff("call me ishmael", "call me um ishmael")
	var inserted []string
	for _, op := range ops {
		if op.Op == model.DiffInsert {
			inserted = append(inserted, op.Tokens...)
		}
	}
	if len(inserted) != 1 || inserted[0] != "um" {
		t.Errorf("inserted tokens = %v, want [um]", inserted)
	}
}

func TestWordDiffEmptyBothSides(t *testing.T) {
	ops := WordDiff("", "")
	if len(ops) != 0 {
		t.Errorf("expected no ops for two empty strings, got %+v", ops)
	}
}
