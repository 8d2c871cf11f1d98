// Command align runs the manuscript/transcript alignment pipeline over a
// BookIndex and AsrResponse artifact pair, writing a TranscriptIndex and
// HydratedTranscript to the output directory. A -batch file runs many
// chapters concurrently instead of a single -book/-asr pair.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Encryptabit/AMS-sub006/internal/chapter"
	"github.com/Encryptabit/AMS-sub006/internal/config"
	"github.com/Encryptabit/AMS-sub006/internal/model"
	"github.com/Encryptabit/AMS-sub006/internal/progress"
)

// batchJob is one entry of a -batch file: a single chapter's input paths
// and identity, processed independently of every other job in the file.
type batchJob struct {
	BookPath    string `json:"bookPath"`
	AsrPath     string `json:"asrPath"`
	ChapterId   string `json:"chapterId"`
	ChapterRoot string `json:"chapterRoot"`
}

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hub := progress.NewHub()
	go func() {
		if err := hub.ServeGRPC(cfg.GRPCAddr); err != nil {
			log.Printf("align: progress gRPC server stopped: %v", err)
		}
	}()

	registry := chapter.NewBookRegistry()

	if cfg.BatchPath != "" {
		jobs, err := loadBatchJobs(cfg.BatchPath)
		if err != nil {
			log.Fatalf("align: %v", err)
		}
		if err := runBatch(ctx, cfg, hub, registry, jobs); err != nil {
			log.Fatalf("align: %v", err)
		}
		return
	}

	if cfg.BookPath == "" || cfg.AsrPath == "" {
		log.Fatal("align: -book and -asr are required (or pass -batch)")
	}
	job := batchJob{
		BookPath:    cfg.BookPath,
		AsrPath:     cfg.AsrPath,
		ChapterId:   cfg.ChapterId,
		ChapterRoot: cfg.ChapterRoot,
	}
	if err := runChapter(ctx, cfg, hub, registry, job); err != nil {
		log.Fatalf("align: %v", err)
	}
}

// runBatch fans jobs out concurrently, bounded to GOMAXPROCS, sharing one
// BookRegistry so chapters of the same book skip re-parsing and one Hub
// so every job's progress reaches the same listeners. The group's ctx is
// cancelled as soon as any job fails or the caller's ctx is cancelled, so
// remaining jobs observe that at their next per-window/per-sentence
// cancellation check and exit with model.ErrCancelled.
func runBatch(ctx context.Context, cfg *config.Config, hub *progress.Hub, registry *chapter.BookRegistry, jobs []batchJob) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return runChapter(gctx, cfg, hub, registry, job)
		})
	}
	return g.Wait()
}

func loadBatchJobs(path string) ([]batchJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file %s: %w", path, err)
	}
	var jobs []batchJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	for i, j := range jobs {
		if j.ChapterId == "" && j.ChapterRoot == "" {
			return nil, fmt.Errorf("batch file %s: job %d needs chapterId or chapterRoot to name its output directory", path, i)
		}
	}
	return jobs, nil
}

// runChapter loads one job's inputs (consulting registry so repeated
// chapters of the same book reuse the parsed BookIndex) and runs the
// anchors→transcript-index→hydration pipeline, writing artifacts under
// cfg.OutputDir/<chapterId>/.
func runChapter(ctx context.Context, cfg *config.Config, hub *progress.Hub, registry *chapter.BookRegistry, job batchJob) error {
	book, err := loadBookCached(registry, job.BookPath)
	if err != nil {
		return err
	}
	asr, err := loadAsr(job.AsrPath)
	if err != nil {
		return err
	}
	chunks, silences := loadChapterArtifacts(job.ChapterRoot)

	policy := cfg.Policy
	if !cfg.UseDomainStopwords {
		policy.Stopwords = []string{}
	}

	chapterId := job.ChapterId
	if chapterId == "" {
		chapterId = filepath.Base(job.ChapterRoot)
	}

	facade := chapter.NewFacade()
	facade.Progress = hub
	facade.Pronunciation = chapter.NewStaticPronunciationProvider(chapter.DefaultCMUDict())

	chap := &chapter.Context{
		ChapterId:   chapterId,
		ChapterRoot: job.ChapterRoot,
		Book:        book,
		Asr:         asr,
		Chunks:      chunks,
		Silences:    silences,
	}
	opts := chapter.Options{
		Policy:          policy,
		AsrPrefixTokens: cfg.AsrPrefixTokens,
		DetectSection:   cfg.DetectSection,
		EmitWindows:     cfg.EmitWindows,
		MinTailSec:      cfg.MinTailSec,
		MaxSnapAheadSec: cfg.MaxSnapAheadSec,
	}

	resolver := chapter.NewFSArtifactResolver(filepath.Join(cfg.OutputDir, chapterId))

	anchorDoc, err := facade.ComputeAnchors(ctx, chap, opts)
	if err != nil {
		return fmt.Errorf("chapter %q: compute anchors: %w", chapterId, err)
	}
	if err := writeJSON(ctx, resolver, "anchors.json", anchorDoc); err != nil {
		return fmt.Errorf("chapter %q: %w", chapterId, err)
	}

	idx, err := facade.BuildTranscriptIndex(ctx, chap, opts)
	if err != nil {
		return fmt.Errorf("chapter %q: build transcript index: %w", chapterId, err)
	}
	if err := writeJSON(ctx, resolver, "transcript-index.json", idx); err != nil {
		return fmt.Errorf("chapter %q: %w", chapterId, err)
	}

	hydrated, err := facade.HydrateTranscript(ctx, idx, chap)
	if err != nil {
		return fmt.Errorf("chapter %q: hydrate: %w", chapterId, err)
	}
	if err := writeJSON(ctx, resolver, "hydrated-transcript.json", hydrated); err != nil {
		return fmt.Errorf("chapter %q: %w", chapterId, err)
	}

	log.Printf("align: chapter %q — %d sentences written to %s", chapterId, len(idx.Sentences), resolver.Root)
	return nil
}

// loadBookCached parses and validates path only once per registry,
// reusing the cached BookIndex for every later chapter of the same book.
func loadBookCached(registry *chapter.BookRegistry, path string) (*model.BookIndex, error) {
	if book, ok := registry.Get(path); ok {
		return book, nil
	}
	book, err := loadBook(path)
	if err != nil {
		return nil, err
	}
	if err := book.Validate(); err != nil {
		return nil, fmt.Errorf("book %s: %w", path, err)
	}
	registry.Put(path, book)
	return book, nil
}

func loadBook(path string) (*model.BookIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var book model.BookIndex
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func loadAsr(path string) (*model.AsrResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var asr model.AsrResponse
	if err := json.Unmarshal(data, &asr); err != nil {
		return nil, err
	}
	return &asr, nil
}

// loadChapterArtifacts optionally loads chunk-alignment and silence-timeline
// sidecar files from chapterRoot; timing refinement is simply skipped
// (align.RefineSentences never runs) when neither is present.
func loadChapterArtifacts(chapterRoot string) ([]model.ChunkAlignment, *model.SilenceTimeline) {
	if chapterRoot == "" {
		return nil, nil
	}

	var chunks []model.ChunkAlignment
	if data, err := os.ReadFile(filepath.Join(chapterRoot, "chunks.json")); err == nil {
		if err := json.Unmarshal(data, &chunks); err != nil {
			log.Printf("align: ignoring malformed chunks.json: %v", err)
			chunks = nil
		}
	}

	var silences *model.SilenceTimeline
	if data, err := os.ReadFile(filepath.Join(chapterRoot, "silences.json")); err == nil {
		var s model.SilenceTimeline
		if err := json.Unmarshal(data, &s); err != nil {
			log.Printf("align: ignoring malformed silences.json: %v", err)
		} else {
			silences = &s
		}
	}
	return chunks, silences
}

func writeJSON(ctx context.Context, resolver *chapter.FSArtifactResolver, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return resolver.Write(ctx, name, data)
}
