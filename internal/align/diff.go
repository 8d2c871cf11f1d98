package align

import (
	"strings"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// WordDiff tokenizes both strings on whitespace and computes a word-level
// diff in the Myers sense — the shortest edit script reducing one token
// sequence to the other — returning runs in order.
func WordDiff(book, script string) []model.DiffOp {
	a := strings.Fields(book)
	b := strings.Fields(script)
	return diffTokens(a, b)
}

// diffTokens builds the suffix longest-common-subsequence table between a
// and b back to front, then walks it front to back to recover the minimal
// equal/delete/insert edit script. This is the textbook LCS formulation of the Myers
// shortest-edit-script problem; at sentence length the O(n*m) table is
// negligible.
func diffTokens(a, b []string) []model.DiffOp {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []model.DiffOp
	appendTok := func(kind model.DiffOpKind, tok string) {
		if len(ops) > 0 && ops[len(ops)-1].Op == kind {
			last := &ops[len(ops)-1]
			last.Tokens = append(last.Tokens, tok)
			return
		}
		ops = append(ops, model.DiffOp{Op: kind, Tokens: []string{tok}})
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			appendTok(model.DiffEqual, a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			appendTok(model.DiffDelete, a[i])
			i++
		default:
			appendTok(model.DiffInsert, b[j])
			j++
		}
	}
	for ; i < n; i++ {
		appendTok(model.DiffDelete, a[i])
	}
	for ; j < m; j++ {
		appendTok(model.DiffInsert, b[j])
	}
	return ops
}
