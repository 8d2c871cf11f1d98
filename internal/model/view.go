package model

// BookView is a normalized, filtered projection of a BookIndex's words,
// restartable and lazily iterable by callers. Lookups from
// filtered to original index are O(1) via FilteredToOriginal.
type BookView struct {
	Tokens            []string `json:"tokens"`
	FilteredToOriginal []int   `json:"filteredToOriginal"`
	SentenceIndex     []int    `json:"sentenceIndex"`
}

// Len returns the number of filtered tokens.
func (v *BookView) Len() int { return len(v.Tokens) }

// Original maps a filtered index back to its original word index.
func (v *BookView) Original(filtered int) int { return v.FilteredToOriginal[filtered] }

// AsrView is a normalized, filtered projection of an AsrResponse's tokens.
type AsrView struct {
	Tokens             []string `json:"tokens"`
	FilteredToOriginal []int    `json:"filteredToOriginal"`
}

// Len returns the number of filtered tokens.
func (v *AsrView) Len() int { return len(v.Tokens) }

// Original maps a filtered index back to its original token index.
func (v *AsrView) Original(filtered int) int { return v.FilteredToOriginal[filtered] }
