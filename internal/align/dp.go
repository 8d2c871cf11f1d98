package align

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// PhonemeLookup resolves a normalized word to its known pronunciation
// variants, e.g. a CMU-dict-backed ports.PronunciationProvider. A miss
// (ok=false) degrades the DP to lexical-only similarity for that token.
type PhonemeLookup func(word string) (variants []model.Variant, ok bool)

// cell is one DP table entry: the best cost to have consumed i book
// tokens and j ASR tokens, plus the op that got there (for traceback).
type cell struct {
	cost float64
	op   model.Op
}

// AlignWindow runs the Needleman-Wunsch-style DP over one
// window, operating on filtered-view token slices and window-local
// offsets. It returns ops in filtered-index space; AlignWindows below
// remaps them to original indices and stitches windows together.
func AlignWindow(bookTokens, asrTokens []string, win model.Window, cm CostModel, phon PhonemeLookup) []model.WordAlign {
	bLen := win.BHi - win.BLo
	aLen := win.AHi - win.ALo
	if bLen < 0 || aLen < 0 {
		return nil
	}

	lookup := func(w string) []model.Variant {
		if phon == nil {
			return nil
		}
		if v, ok := phon(w); ok {
			return v
		}
		return nil
	}

	table := make([][]cell, bLen+1)
	for i := range table {
		table[i] = make([]cell, aLen+1)
	}
	table[0][0] = cell{cost: 0}
	for i := 1; i <= bLen; i++ {
		table[i][0] = cell{cost: table[i-1][0].cost + cm.deleteCost(), op: model.OpDel}
	}
	for j := 1; j <= aLen; j++ {
		ins, _ := cm.insertCost(asrTokens[win.ALo+j-1])
		table[0][j] = cell{cost: table[0][j-1].cost + ins, op: model.OpIns}
	}

	for i := 1; i <= bLen; i++ {
		bTok := bookTokens[win.BLo+i-1]
		bPhon := lookup(bTok)
		for j := 1; j <= aLen; j++ {
			aTok := asrTokens[win.ALo+j-1]

			var diagOp model.Op
			var diagCost float64
			if bTok == aTok {
				diagOp, diagCost = model.OpMatch, 0
			} else {
				diagOp, diagCost = model.OpSub, cm.subCost(bTok, aTok, bPhon, lookup(aTok))
			}
			diag := table[i-1][j-1].cost + diagCost

			del := table[i-1][j].cost + cm.deleteCost()
			ins, _ := cm.insertCost(aTok)
			insC := table[i][j-1].cost + ins

			table[i][j] = bestOf(diag, diagOp, del, model.OpDel, insC, model.OpIns)
		}
	}

	// Traceback, preferring Match > Sub > Del > Ins on ties (already
	// encoded by bestOf's precedence), then reverse.
	var ops []model.WordAlign
	i, j := bLen, aLen
	for i > 0 || j > 0 {
		switch table[i][j].op {
		case model.OpMatch, model.OpSub:
			bi := win.BLo + i - 1
			ai := win.ALo + j - 1
			ops = append(ops, model.WordAlign{
				BookIdx: intPtr(bi), AsrIdx: intPtr(ai), Op: table[i][j].op,
				Score: diagScore(bookTokens[bi], asrTokens[ai], cm, lookup),
			})
			i--
			j--
		case model.OpDel:
			bi := win.BLo + i - 1
			ops = append(ops, model.WordAlign{BookIdx: intPtr(bi), Op: model.OpDel, Score: cm.deleteCost()})
			i--
		default: // OpIns, and the (i==0,j==0) base case never enters the loop
			ai := win.ALo + j - 1
			cost, reason := cm.insertCost(asrTokens[ai])
			ops = append(ops, model.WordAlign{AsrIdx: intPtr(ai), Op: model.OpIns, Reason: reason, Score: cost})
			j--
		}
	}
	reverseWordAlign(ops)
	return ops
}

func diagScore(bTok, aTok string, cm CostModel, lookup func(string) []model.Variant) float64 {
	if bTok == aTok {
		return 0
	}
	return cm.subCost(bTok, aTok, lookup(bTok), lookup(aTok))
}

// bestOf picks the minimum of three candidate costs, breaking ties by the
// fixed precedence Match > Sub > Del > Ins. diagOp carries
// whichever of Match/Sub actually applies for the diagonal transition.
func bestOf(diag float64, diagOp model.Op, del float64, delOp model.Op, ins float64, insOp model.Op) cell {
	const eps = 1e-9
	best := cell{cost: diag, op: diagOp}
	if del < best.cost-eps {
		best = cell{cost: del, op: delOp}
	}
	if ins < best.cost-eps {
		best = cell{cost: ins, op: insOp}
	}
	return best
}

func intPtr(v int) *int { return &v }

func reverseWordAlign(ops []model.WordAlign) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}

// AlignWindows runs each window's DP independently and concurrently (the
// windows only share token boundaries, never DP state, so the per-window
// cost is safe to parallelize with a bounded worker pool), then stitches
// the results into one original-index WordAlign stream. Adjacent windows
// share exactly NGram tokens at their shared anchor (BuildWindows' edges
// both include the anchor's n-gram), so the leading NGram ops of every
// window after the first are dropped before concatenation to avoid
// double-counting that anchor match. ctx is checked at each window
// boundary; a cancelled ctx aborts any window not yet started and
// AlignWindows returns model.ErrCancelled.
func AlignWindows(ctx context.Context, bookView *model.BookView, asrView *model.AsrView, windows []model.Window, nGram int, cm CostModel, phon PhonemeLookup) ([]model.WordAlign, error) {
	perWindow := make([][]model.WordAlign, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for wi, win := range windows {
		wi, win := wi, win
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return model.ErrCancelled
			}
			perWindow[wi] = AlignWindow(bookView.Tokens, asrView.Tokens, win, cm, phon)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.WordAlign
	for wi, filtered := range perWindow {
		if wi > 0 && nGram > 0 && len(filtered) >= nGram {
			filtered = filtered[nGram:]
		}
		for _, op := range filtered {
			remapped := op
			if op.BookIdx != nil {
				remapped.BookIdx = intPtr(bookView.Original(*op.BookIdx))
			}
			if op.AsrIdx != nil {
				remapped.AsrIdx = intPtr(asrView.Original(*op.AsrIdx))
			}
			all = append(all, remapped)
		}
	}
	return all, nil
}
