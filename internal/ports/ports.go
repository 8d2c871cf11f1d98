// Package ports declares the small collaborator abstractions the
// alignment core depends on instead of concrete implementations:
// pronunciation lookup, book parsing/caching, and artifact persistence.
// The core never imports a concrete adapter package directly.
package ports

import (
	"context"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// PronunciationProvider resolves normalized words to their known
// pronunciation variants. A provider that finds nothing for a word
// simply omits it from the result map — the aligner degrades to lexical
// similarity for that word.
type PronunciationProvider interface {
	GetPronunciations(ctx context.Context, words []string) (map[string][]model.Variant, error)
}

// BookParser turns a raw manuscript source into a BookIndex. Only a stub
// is required by the aligner's own test surface; concrete format parsers
// belong to callers.
type BookParser interface {
	Parse(ctx context.Context, raw []byte) (*model.BookIndex, error)
}

// BookCache avoids re-parsing and re-validating the same manuscript
// across chapters of one book.
type BookCache interface {
	Get(rootPath string) (*model.BookIndex, bool)
	Put(rootPath string, book *model.BookIndex)
}

// ArtifactResolver is the facade's only side-effecting collaborator:
// loading and persisting the JSON artifacts the core reads and emits.
type ArtifactResolver interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// ProgressNotifier reports coarse-grained progress events to an external
// observer (a UI, a log sink, a dashboard) without the core depending on
// any particular transport.
type ProgressNotifier interface {
	Notify(ctx context.Context, stage string, fraction float64, message string)
}
