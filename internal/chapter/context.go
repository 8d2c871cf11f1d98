package chapter

import (
	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// Context bundles one chapter's document slots and audio location —
// the facade's unit of work. ChapterRoot names the
// on-disk directory holding the chapter's audio chunks and TextGrids;
// its base name is the fallback section label when ChapterId is empty.
type Context struct {
	ChapterId   string
	ChapterRoot string

	Book *model.BookIndex
	Asr  *model.AsrResponse

	Chunks   []model.ChunkAlignment
	Silences *model.SilenceTimeline
}

// Options tunes a single facade call, collecting the configuration table
// into one value.
type Options struct {
	Policy          model.AnchorPolicy
	AsrPrefixTokens int
	DetectSection   bool
	EmitWindows     bool

	MinTailSec      float64
	MaxSnapAheadSec float64

	// CreatedAt overrides the TranscriptIndex timestamp; tests supply a
	// fixed value so repeated runs are byte-identical.
	CreatedAt string
}
