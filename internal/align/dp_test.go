package align

import (
	"context"
	"testing"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

func wholeWindow(bLen, aLen int) model.Window {
	return model.Window{BLo: 0, BHi: bLen, ALo: 0, AHi: aLen}
}

func opsString(ops []model.WordAlign) []model.Op {
	out := make([]model.Op, len(ops))
	for i, o := range ops {
		out[i] = o.Op
	}
	return out
}

// S1: a clean, fully matching transcript yields one Match per book word.
func TestAlignWindowS1AllMatch(t *testing.T) {
	book := []string{"chapter", "one", "call", "me", "ishmael"}
	asr := []string{"chapter", "one", "call", "me", "ishmael"}
	ops := AlignWindow(book, asr, wholeWindow(len(book), len(asr)), DefaultCostModel(), nil)

	if len(ops) != 5 {
		t.Fatalf("expected 5 ops, got %d (%v)", len(ops), ops)
	}
	for _, op := range ops {
		if op.Op != model.OpMatch {
			t.Errorf("op = %+v, want Match", op)
		}
		if op.BookIdx == nil || op.AsrIdx == nil {
			t.Errorf("op = %+v, want both indices set", op)
		}
	}
}

// S2: a filler word spoken before "call" becomes one Ins tagged "filler",
// at half the usual insertion cost, without disturbing the surrounding
// Match run.
func TestAlignWindowS2FillerInsertion(t *testing.T) {
	book := []string{"chapter", "one", "call", "me", "ishmael"}
	asr := []string{"chapter", "one", "um", "call", "me", "ishmael"}
	ops := AlignWindow(book, asr, wholeWindow(len(book), len(asr)), DefaultCostModel(), nil)

	var fillerIns int
	for _, op := range ops {
		if op.Op == model.OpIns {
			fillerIns++
			if op.Reason != "filler" {
				t.Errorf("insertion %+v, want Reason=filler", op)
			}
			if op.Score != DefaultCostModel().Gamma/2 {
				t.Errorf("insertion score = %v, want halved gamma", op.Score)
			}
		}
	}
	if fillerIns != 1 {
		t.Fatalf("expected exactly 1 filler insertion, got %d (%v)", fillerIns, opsString(ops))
	}
	matches := 0
	for _, op := range ops {
		if op.Op == model.OpMatch {
			matches++
		}
	}
	if matches != 5 {
		t.Errorf("expected 5 matches alongside the filler insertion, got %d", matches)
	}
}

// S3: a dropped book word becomes a single Del.
func TestAlignWindowS3Deletion(t *testing.T) {
	book := []string{"chapter", "one", "call", "me", "ishmael"}
	asr := []string{"chapter", "one", "call", "me"}
	ops := AlignWindow(book, asr, wholeWindow(len(book), len(asr)), DefaultCostModel(), nil)

	var dels int
	for _, op := range ops {
		if op.Op == model.OpDel {
			dels++
			if op.AsrIdx != nil {
				t.Errorf("deletion %+v, want no AsrIdx", op)
			}
		}
	}
	if dels != 1 {
		t.Fatalf("expected 1 deletion, got %d (%v)", dels, opsString(ops))
	}
	if got := ops[len(ops)-1]; got.Op != model.OpDel || got.BookIdx == nil || *got.BookIdx != 4 {
		t.Errorf("deletion should land on the dropped final word, got %+v", got)
	}
}

// S4: a mispronounced word ("how" spoken as "howl") becomes a Sub, never
// a Match — invariant 1 requires exact normalized equality
// for Match.
func TestAlignWindowS4Substitution(t *testing.T) {
	book := []string{"hello", "world", "how", "are", "you"}
	asr := []string{"hello", "world", "howl", "are", "you"}
	ops := AlignWindow(book, asr, wholeWindow(len(book), len(asr)), DefaultCostModel(), nil)

	if len(ops) != 5 {
		t.Fatalf("expected 5 ops, got %d (%v)", len(ops), opsString(ops))
	}
	sub := ops[2]
	if sub.Op != model.OpSub {
		t.Fatalf("expected index 2 to be a Sub, got %+v", sub)
	}
	if sub.BookIdx == nil || *sub.BookIdx != 2 || sub.AsrIdx == nil || *sub.AsrIdx != 2 {
		t.Errorf("sub indices = %+v, want BookIdx=2,AsrIdx=2", sub)
	}
	for i, want := range []model.Op{model.OpMatch, model.OpMatch, model.OpSub, model.OpMatch, model.OpMatch} {
		if ops[i].Op != want {
			t.Errorf("ops[%d] = %s, want %s", i, ops[i].Op, want)
		}
	}
}

// Invariant 1: every Match implies equal normalized text.
func TestAlignWindowInvariantMatchImpliesEquality(t *testing.T) {
	book := []string{"the", "quick", "brown", "fox"}
	asr := []string{"the", "quik", "brown", "foxes"}
	ops := AlignWindow(book, asr, wholeWindow(len(book), len(asr)), DefaultCostModel(), nil)
	for _, op := range ops {
		if op.Op != model.OpMatch {
			continue
		}
		if book[*op.BookIdx] != asr[*op.AsrIdx] {
			t.Errorf("Match op %+v has unequal tokens %q vs %q", op, book[*op.BookIdx], asr[*op.AsrIdx])
		}
	}
}

// Invariant 11: a single-token ASR transcript still emits
// exactly one op per book word.
func TestAlignWindowSingleAsrToken(t *testing.T) {
	book := []string{"call", "me", "ishmael"}
	asr := []string{"ishmael"}
	ops := AlignWindow(book, asr, wholeWindow(len(book), len(asr)), DefaultCostModel(), nil)

	bookOps := 0
	asrOps := 0
	for _, op := range ops {
		if op.BookIdx != nil {
			bookOps++
		}
		if op.AsrIdx != nil {
			asrOps++
		}
	}
	if bookOps != len(book) {
		t.Errorf("expected one op per book word (%d), got %d ops touching book indices", len(book), bookOps)
	}
	if asrOps > 1 {
		t.Errorf("expected at most one op touching the single ASR token, got %d", asrOps)
	}
}

func TestAlignWindowsStitchesAcrossOverlap(t *testing.T) {
	bookView := &model.BookView{
		Tokens:             []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"},
		FilteredToOriginal: []int{0, 1, 2, 3, 4, 5},
	}
	asrView := &model.AsrView{
		Tokens:             []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"},
		FilteredToOriginal: []int{0, 1, 2, 3, 4, 5},
	}
	anchor := model.Anchor{Bp: 2, Ap: 2} // "charlie delta echo" as the shared 3-gram
	windows := BuildWindows([]model.Anchor{anchor}, 3, 0, 5, 0, 5, 6, 6)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d (%v)", len(windows), windows)
	}

	ops, err := AlignWindows(context.Background(), bookView, asrView, windows, 3, DefaultCostModel(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 6 {
		t.Fatalf("expected 6 stitched ops (no duplicated anchor run), got %d (%v)", len(ops), ops)
	}
	for i, op := range ops {
		if op.Op != model.OpMatch || op.BookIdx == nil || *op.BookIdx != i {
			t.Errorf("ops[%d] = %+v, want Match at original index %d", i, op, i)
		}
	}
}

func TestAlignWindowsCancelled(t *testing.T) {
	bookView := &model.BookView{
		Tokens:             []string{"alpha", "bravo", "charlie"},
		FilteredToOriginal: []int{0, 1, 2},
	}
	asrView := &model.AsrView{
		Tokens:             []string{"alpha", "bravo", "charlie"},
		FilteredToOriginal: []int{0, 1, 2},
	}
	windows := BuildWindows(nil, 3, 0, 2, 0, 2, 3, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ops, err := AlignWindows(ctx, bookView, asrView, windows, 3, DefaultCostModel(), nil)
	if err != model.ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if ops != nil {
		t.Fatalf("expected nil ops on cancellation, got %v", ops)
	}
}
