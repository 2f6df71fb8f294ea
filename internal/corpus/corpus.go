// Package corpus holds the published corpus version and coordinates
// rebuilds. A version is immutable once published; readers always see
// either the previous complete version or the new one, never a mix.
package corpus

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docqa/docqa-mcp/internal/index"
	"github.com/docqa/docqa-mcp/pkg/types"
)

// Version is one complete, immutable build of the corpus.
type Version struct {
	// ID uniquely identifies this build.
	ID string

	// BuiltAt records when the build finished.
	BuiltAt time.Time

	// Index is the searchable flat index over every chunk in this version.
	Index *index.Flat

	// Records pairs each indexed vector with its chunk text.
	Records []types.VectorRecord

	// Chunks carries provenance for every indexed vector.
	Chunks []types.Chunk

	// Documents maps document name to full text for every ingested document.
	Documents map[string]types.Document

	// Skipped names documents that produced no chunks.
	Skipped []string
}

// Document returns the named document's full record.
func (v *Version) Document(name string) (types.Document, error) {
	doc, ok := v.Documents[name]
	if !ok {
		return types.Document{}, fmt.Errorf("%w: %q", types.ErrUnknownDocument, name)
	}
	return doc, nil
}

// DocumentNames lists ingested document names in sorted order.
func (v *Version) DocumentNames() []string {
	names := make([]string, 0, len(v.Documents))
	for name := range v.Documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builder produces a new version from a document set. The pipeline's
// ingestion satisfies this.
type Builder func(ctx context.Context, docs []types.Document) (*Version, error)

// Store publishes corpus versions atomically. At most one rebuild runs at
// a time; a concurrent attempt fails with types.ErrRebuildInProgress.
type Store struct {
	mu      sync.RWMutex
	current *Version

	lock rebuildLock
}

// NewStore creates an empty store with no published version.
func NewStore() *Store {
	return &Store{}
}

// Current returns the published version, or types.ErrNotIndexed when no
// rebuild has completed yet.
func (s *Store) Current() (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, types.ErrNotIndexed
	}
	return s.current, nil
}

// Rebuild builds a new version from docs and publishes it. The previous
// version stays visible until the build succeeds; a failed build leaves
// the store untouched.
func (s *Store) Rebuild(ctx context.Context, docs []types.Document, build Builder) (*Version, error) {
	if !s.lock.TryAcquire() {
		return nil, types.ErrRebuildInProgress
	}
	defer s.lock.Release()

	version, err := build(ctx, docs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = version
	s.mu.Unlock()

	return version, nil
}

// NewVersion assembles a Version from ingestion output.
func NewVersion(idx *index.Flat, records []types.VectorRecord, chunks []types.Chunk, docs []types.Document, skipped []string) *Version {
	byName := make(map[string]types.Document, len(docs))
	for _, doc := range docs {
		byName[doc.Name] = doc
	}
	return &Version{
		ID:        uuid.NewString(),
		BuiltAt:   time.Now().UTC(),
		Index:     idx,
		Records:   records,
		Chunks:    chunks,
		Documents: byName,
		Skipped:   skipped,
	}
}
