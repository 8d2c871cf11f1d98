package chapter

import (
	"sync"

	"github.com/Encryptabit/AMS-sub006/internal/model"
)

// BookRegistry caches parsed, validated BookIndex values by root path so
// repeated chapters of the same book skip re-parsing. It replaces the
// original's process-wide lock around a global book-manager dictionary
// with an explicit registry instance the facade owns.
type BookRegistry struct {
	mu    sync.RWMutex
	books map[string]*model.BookIndex
}

// NewBookRegistry returns an empty registry.
func NewBookRegistry() *BookRegistry {
	return &BookRegistry{books: make(map[string]*model.BookIndex)}
}

// Get returns the cached BookIndex for rootPath, if any.
func (r *BookRegistry) Get(rootPath string) (*model.BookIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[rootPath]
	return b, ok
}

// Put caches book under rootPath, replacing any prior entry.
func (r *BookRegistry) Put(rootPath string, book *model.BookIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[rootPath] = book
}

// Evict drops a cached entry, e.g. after detecting the source file changed.
func (r *BookRegistry) Evict(rootPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, rootPath)
}
