package model

// Fragment is one forced-alignment interval produced by a phoneme
// aligner, anchored at its chunk's offset.
type Fragment struct {
	ChunkId       string  `json:"chunkId"`
	FragmentIndex int     `json:"fragmentIndex"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
}

// Interval is one raw IntervalTier entry read from a TextGrid.
type Interval struct {
	Xmin float64 `json:"xmin"`
	Xmax float64 `json:"xmax"`
	Text string  `json:"text"`
}

// SilenceLabels are the interval texts that mark non-speech in a TextGrid
// "words" tier.
var SilenceLabels = map[string]bool{
	"sp": true, "sil": true, "<sil>": true, "<s>": true, "</s>": true, "silence": true,
}

// IsSilence reports whether an interval's text marks non-speech.
func IsSilence(text string) bool {
	return SilenceLabels[text]
}

// ChunkAlignment is one chunk's parsed TextGrid plus its offset into the
// full chapter timeline, the unit ChapterAlignmentIndex composes.
type ChunkAlignment struct {
	ChunkId   string     `json:"chunkId"`
	OffsetSec float64    `json:"offsetSec"`
	Intervals []Interval `json:"intervals"`
}
