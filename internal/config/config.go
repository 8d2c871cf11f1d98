package config

import (
	"flag"
	"runtime"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// Config holds the command-line options for the alignment CLIs, mirroring
// the flag-based loader style the rest of this codebase uses.
type Config struct {
	BookPath  string
	AsrPath   string
	OutputDir string

	ChapterId   string
	ChapterRoot string

	// BatchPath, if set, names a JSON file listing multiple chapters to
	// process concurrently instead of the single -book/-asr pair.
	BatchPath string

	Policy             model.AnchorPolicy
	UseDomainStopwords bool
	AsrPrefixTokens    int
	DetectSection      bool
	EmitWindows        bool

	MinTailSec      float64
	MaxSnapAheadSec float64

	GRPCAddr string
}

// Load parses os.Args into a Config, applying sensible defaults for any
// flag the caller omits.
func Load() *Config {
	bookPath := flag.String("book", "", "Path to BookIndex JSON")
	asrPath := flag.String("asr", "", "Path to AsrResponse JSON")
	outputDir := flag.String("out", "out", "Directory for TranscriptIndex/HydratedTranscript output")

	chapterId := flag.String("chapter-id", "", "Chapter identifier (defaults to the chapter-root directory name)")
	chapterRoot := flag.String("chapter-root", "", "Chapter root directory, used for section resolution and audio chunk discovery")
	batchPath := flag.String("batch", "", "Path to a JSON batch file of {bookPath,asrPath,chapterId,chapterRoot} jobs; overrides -book/-asr/-chapter-id/-chapter-root")

	ngram := flag.Int("ngram", 3, "Anchor n-gram size")
	targetPerTokens := flag.Int("target-per-tokens", 50, "Approximate anchor density: one per N filtered book tokens")
	minSeparation := flag.Int("min-separation", 100, "Minimum filtered-token separation between accepted anchors")
	allowBoundaryCross := flag.Bool("allow-boundary-cross", false, "Allow anchors to span a sentence boundary")
	useDomainStopwords := flag.Bool("use-domain-stopwords", true, "Filter anchor n-grams containing a stopword")

	asrPrefixTokens := flag.Int("asr-prefix-tokens", 8, "Number of leading ASR tokens used for section detection")
	detectSection := flag.Bool("detect-section", true, "Enable section detection")
	emitWindows := flag.Bool("emit-windows", false, "Include window boundaries in the AnchorDocument output")

	minTailSec := flag.Float64("min-tail-sec", 0.2, "Minimum sentence duration after timing refinement")
	maxSnapAheadSec := flag.Float64("max-snap-ahead-sec", 0.6, "How far ahead a silence event may be to snap a sentence end to it")

	grpcAddr := flag.String("grpc-addr", defaultGRPCAddress(), "Progress-notification listen address (unix:/path/to.sock or npipe:////./pipe/ams-align-grpc)")

	flag.Parse()

	policy := model.AnchorPolicy{
		NGram:                 *ngram,
		TargetPerTokens:       *targetPerTokens,
		MinSeparation:         *minSeparation,
		DisallowBoundaryCross: !*allowBoundaryCross,
	}
	return &Config{
		BookPath:  *bookPath,
		AsrPath:   *asrPath,
		OutputDir: *outputDir,

		ChapterId:   *chapterId,
		ChapterRoot: *chapterRoot,
		BatchPath:   *batchPath,

		Policy:             policy,
		UseDomainStopwords: *useDomainStopwords,
		AsrPrefixTokens:    *asrPrefixTokens,
		DetectSection:      *detectSection,
		EmitWindows:        *emitWindows,

		MinTailSec:      *minTailSec,
		MaxSnapAheadSec: *maxSnapAheadSec,

		GRPCAddr: *grpcAddr,
	}
}

func defaultGRPCAddress() string {
	if runtime.GOOS == "windows" {
		return "npipe:\\\\.\\pipe\\ams-align-grpc"
	}
	return "unix:/tmp/ams-align-grpc.sock"
}
