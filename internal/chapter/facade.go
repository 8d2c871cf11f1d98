package chapter

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/Encryptabit/AMS-sub006/internal/align"
	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/normalize"
	"github.com/Encryptabit/AMS-sub006/internal/ports"
)

// Facade is the orchestration object: given a chapter Context, it runs
// the view/anchor/window/DP/rollup/hydrate pipeline and returns the
// resulting documents.
type Facade struct {
	Pronunciation ports.PronunciationProvider
	Progress      ports.ProgressNotifier
	CostModel     align.CostModel
}

// NewFacade wires a Facade with sensible defaults: a no-op pronunciation
// provider and the default DP cost model. Callers override fields for
// production use (e.g. a StaticPronunciationProvider backed by
// DefaultCMUDict).
func NewFacade() *Facade {
	return &Facade{
		Pronunciation: NoOpPronunciationProvider{},
		CostModel:     align.DefaultCostModel(),
	}
}

func (f *Facade) notify(ctx context.Context, stage string, fraction float64, msg string) {
	if f.Progress != nil {
		f.Progress.Notify(ctx, stage, fraction, msg)
	}
}

// ComputeAnchors builds views, optionally resolves a section override,
// runs anchor discovery and (if requested) window building, returning
// the serializable AnchorDocument.
func (f *Facade) ComputeAnchors(ctx context.Context, chap *Context, opts Options) (*model.AnchorDocument, error) {
	if chap.Book == nil || chap.Asr == nil {
		return nil, fmt.Errorf("compute anchors: %w", model.ErrMissingInput)
	}

	bookView := align.BuildBookView(chap.Book)
	asrView := align.BuildAsrView(chap.Asr)

	bStart, bEnd := 0, bookView.Len()-1
	var section *model.Section
	sectionDetected := false
	if opts.DetectSection {
		section, sectionDetected = f.resolveSection(chap, asrView, opts.AsrPrefixTokens)
		if sectionDetected {
			bStart, bEnd = sectionBoundsInFilteredView(bookView, *section)
		}
	}

	policy := opts.Policy
	if policy.Stopwords == nil {
		policy.Stopwords = defaultStopwordSlice()
	}

	anchors, err := align.DiscoverAnchors(ctx, bookView.Tokens, bookView.SentenceIndex, asrView.Tokens, policy, bStart, bEnd)
	if err != nil {
		return nil, err
	}

	doc := &model.AnchorDocument{
		SectionDetected: sectionDetected,
		Section:         section,
		Policy:          policy,
		Tokens: model.AnchorDocTokens{
			BookTotal: len(chap.Book.Words), BookFiltered: bookView.Len(),
			AsrTotal: len(chap.Asr.Tokens), AsrFiltered: asrView.Len(),
		},
		Window:  model.Window2D{BStart: bStart, BEnd: bEnd},
		Anchors: toAnchorRecords(anchors, bookView),
	}

	if opts.EmitWindows {
		n := policy.NGram
		if n <= 0 {
			n = 3
		}
		doc.Windows = align.BuildWindows(anchors, n, bStart, bEnd, 0, asrView.Len()-1, bookView.Len(), asrView.Len())
	}
	return doc, nil
}

// sectionBoundsInFilteredView maps a section's original word range onto
// the filtered book view's index space, for use as the active
// anchor-discovery window.
func sectionBoundsInFilteredView(bookView *model.BookView, section model.Section) (int, int) {
	bStart, bEnd := 0, bookView.Len()-1
	lo, hi := -1, -1
	for filtered, original := range bookView.FilteredToOriginal {
		if section.Range.Contains(original) {
			if lo == -1 {
				lo = filtered
			}
			hi = filtered
		}
	}
	if lo == -1 {
		return bStart, bEnd
	}
	return lo, hi
}

func toAnchorRecords(anchors []model.Anchor, bookView *model.BookView) []model.AnchorRecord {
	out := make([]model.AnchorRecord, len(anchors))
	for i, a := range anchors {
		out[i] = model.AnchorRecord{BookPosition: a.Bp, BookWordIndex: bookView.Original(a.Bp), AsrPosition: a.Ap}
	}
	return out
}

func (f *Facade) resolveSection(chap *Context, asrView *model.AsrView, prefixTokens int) (*model.Section, bool) {
	if chap.ChapterId != "" {
		if sec, ok := align.ResolveSectionByTitle(chap.Book, chap.ChapterId); ok {
			return sec, true
		}
	}
	if chap.ChapterRoot != "" {
		if sec, ok := align.ResolveSectionByTitle(chap.Book, filepath.Base(chap.ChapterRoot)); ok {
			return sec, true
		}
	}
	return align.DetectSection(chap.Book, asrView.Tokens, prefixTokens)
}

// BuildTranscriptIndex runs the full anchor→window→DP→rollup→timing
// pipeline and returns the TranscriptIndex.
func (f *Facade) BuildTranscriptIndex(ctx context.Context, chap *Context, opts Options) (*model.TranscriptIndex, error) {
	if chap.Book == nil || chap.Asr == nil {
		return nil, fmt.Errorf("build transcript index: %w", model.ErrMissingInput)
	}
	if err := chap.Book.Validate(); err != nil {
		return nil, err
	}
	if err := chap.Asr.Validate(); err != nil {
		return nil, err
	}

	f.notify(ctx, "views", 0.0, "building filtered views")
	bookView := align.BuildBookView(chap.Book)
	asrView := align.BuildAsrView(chap.Asr)

	anchorDoc, err := f.ComputeAnchors(ctx, chap, opts)
	if err != nil {
		return nil, err
	}
	anchors := make([]model.Anchor, len(anchorDoc.Anchors))
	for i, a := range anchorDoc.Anchors {
		anchors[i] = model.Anchor{Bp: a.BookPosition, Ap: a.AsrPosition}
	}

	n := opts.Policy.NGram
	if n <= 0 {
		n = 3
	}
	windows := align.BuildWindows(anchors, n, anchorDoc.Window.BStart, anchorDoc.Window.BEnd, 0, asrView.Len()-1, bookView.Len(), asrView.Len())

	f.notify(ctx, "pronunciation", 0.2, "resolving pronunciation variants")
	variants, err := f.Pronunciation.GetPronunciations(ctx, uniqueTokens(bookView.Tokens, asrView.Tokens))
	if err != nil {
		return nil, fmt.Errorf("pronunciation lookup: %w: %v", model.ErrPronunciationLookupFailed, err)
	}
	lookup := func(w string) ([]model.Variant, bool) {
		v, ok := variants[w]
		return v, ok
	}

	f.notify(ctx, "align", 0.4, "running word alignment")
	ops, err := align.AlignWindows(ctx, bookView, asrView, windows, n, f.CostModel, lookup)
	if err != nil {
		return nil, err
	}

	f.notify(ctx, "rollup", 0.7, "computing sentence and paragraph rollups")
	sentences := align.RollupSentences(chap.Book, chap.Asr, ops)
	paragraphs := align.RollupParagraphs(chap.Book, ops, sentences)

	if len(chap.Chunks) > 0 || chap.Silences != nil {
		f.notify(ctx, "refine", 0.85, "refining sentence timings")
		idx := BuildAlignmentIndex(chap.Chunks, sentences, chap.Asr, 1.5)
		refined, err := align.RefineSentences(ctx, sentences, chap.Asr, idx.BySentence, chap.Silences, opts.MinTailSec, opts.MaxSnapAheadSec)
		if err != nil {
			return nil, err
		}
		attachTimings(sentences, refined)
	}

	f.notify(ctx, "done", 1.0, "transcript index complete")
	return &model.TranscriptIndex{
		BookPath:             chap.ChapterRoot,
		AsrPath:              chap.ChapterId,
		CreatedAt:            opts.CreatedAt,
		NormalizationVersion: normalize.Version,
		Words:                ops,
		Sentences:            sentences,
		Paragraphs:           paragraphs,
	}, nil
}

func attachTimings(sentences []model.SentenceAlign, refined []model.SentenceRefined) {
	byID := make(map[int]model.SentenceRefined, len(refined))
	for _, r := range refined {
		byID[r.SentenceId] = r
	}
	for i := range sentences {
		if r, ok := byID[sentences[i].Id]; ok {
			sentences[i].Timing = &model.Timing{StartSec: r.Start, EndSec: r.End}
		}
	}
}

func uniqueTokens(views ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range views {
		for _, tok := range v {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}

// HydrateTranscript runs the Hydrator over an already-built
// TranscriptIndex.
func (f *Facade) HydrateTranscript(ctx context.Context, idx *model.TranscriptIndex, chap *Context) (*model.HydratedTranscript, error) {
	return align.Hydrate(ctx, idx, chap.Book, chap.Asr)
}

// defaultStopwordSlice returns the default stopword set as a sorted
// slice: AnchorDocument.Policy serializes this slice verbatim, and
// ranging over a map in insertion order would make identical inputs
// produce byte-different anchors.json across runs.
func defaultStopwordSlice() []string {
	set := normalize.DefaultStopwords()
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
