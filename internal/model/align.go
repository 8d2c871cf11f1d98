package model

// AnchorPolicy tunes AnchorDiscovery.
type AnchorPolicy struct {
	NGram                 int      `json:"ngram"`
	TargetPerTokens       int      `json:"targetPerTokens"`
	AllowDuplicates       bool     `json:"allowDuplicates"`
	MinSeparation         int      `json:"minSeparation"`
	Stopwords             []string `json:"stopwords,omitempty"`
	DisallowBoundaryCross bool     `json:"disallowBoundaryCross"`
}

// DefaultAnchorPolicy returns the default tuning table (stopwords
// populated by the caller from the EnglishPlusDomain set).
func DefaultAnchorPolicy() AnchorPolicy {
	return AnchorPolicy{
		NGram:                 3,
		TargetPerTokens:       50,
		AllowDuplicates:       false,
		MinSeparation:         100,
		DisallowBoundaryCross: true,
	}
}

// Anchor is a stable n-gram match between the filtered book and ASR views.
type Anchor struct {
	Bp int `json:"bookPosition"`
	Ap int `json:"asrPosition"`
}

// Window is a half-open [bLo,bHi) x [aLo,aHi) search region for the DP
// aligner, expressed in filtered positions.
type Window struct {
	BLo int `json:"bLo"`
	BHi int `json:"bHi"`
	ALo int `json:"aLo"`
	AHi int `json:"aHi"`
}

// Op tags a WordAlign's role. Tags are payload-only: the DP cost model
// decides which op applies, the tag never drives further control flow.
type Op string

const (
	OpMatch Op = "Match"
	OpSub   Op = "Sub"
	OpIns   Op = "Ins"
	OpDel   Op = "Del"
)

// WordAlign is one aligned operation, with indices in original
// (un-filtered) book/ASR positions. At most one of BookIdx/AsrIdx is
// absent, determined by Op: Ins has no BookIdx, Del has no AsrIdx.
type WordAlign struct {
	BookIdx *int    `json:"bookIdx,omitempty"`
	AsrIdx  *int    `json:"asrIdx,omitempty"`
	Op      Op      `json:"op"`
	Reason  string  `json:"reason,omitempty"`
	Score   float64 `json:"score"`
}
