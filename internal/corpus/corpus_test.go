package corpus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa-mcp/internal/index"
	"github.com/docqa/docqa-mcp/pkg/types"
)

func testBuilder(t *testing.T) Builder {
	t.Helper()
	return func(ctx context.Context, docs []types.Document) (*Version, error) {
		records := make([]types.VectorRecord, len(docs))
		chunks := make([]types.Chunk, len(docs))
		for i, doc := range docs {
			records[i] = types.VectorRecord{Vector: []float32{float32(i), 1}, Tag: doc.Text}
			chunks[i] = types.Chunk{Source: doc.Name, Ordinal: 0, Content: doc.Text}
		}
		idx, err := index.Build(records)
		if err != nil {
			return nil, err
		}
		return NewVersion(idx, records, chunks, docs, nil), nil
	}
}

func sampleDocs() []types.Document {
	return []types.Document{
		{Name: "a.txt", Text: "alpha"},
		{Name: "b.txt", Text: "beta"},
	}
}

func TestStore_CurrentBeforeRebuild(t *testing.T) {
	store := NewStore()

	_, err := store.Current()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotIndexed)
}

func TestStore_RebuildPublishes(t *testing.T) {
	store := NewStore()

	built, err := store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.NotEmpty(t, built.ID)
	assert.False(t, built.BuiltAt.IsZero())

	current, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, built, current)
}

func TestStore_FailedRebuildKeepsPrevious(t *testing.T) {
	store := NewStore()

	first, err := store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	require.NoError(t, err)

	buildErr := errors.New("embedding service down")
	_, err = store.Rebuild(context.Background(), sampleDocs(), func(ctx context.Context, docs []types.Document) (*Version, error) {
		return nil, buildErr
	})
	require.ErrorIs(t, err, buildErr)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestStore_RebuildVersionsDiffer(t *testing.T) {
	store := NewStore()

	first, err := store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	require.NoError(t, err)
	second, err := store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestStore_ConcurrentRebuildRejected(t *testing.T) {
	store := NewStore()

	started := make(chan struct{})
	release := make(chan struct{})
	slow := func(ctx context.Context, docs []types.Document) (*Version, error) {
		close(started)
		<-release
		return testBuilder(t)(ctx, docs)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := store.Rebuild(context.Background(), sampleDocs(), slow)
		assert.NoError(t, err)
	}()

	<-started
	_, err := store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	assert.ErrorIs(t, err, types.ErrRebuildInProgress)

	close(release)
	wg.Wait()

	_, err = store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	assert.NoError(t, err)
}

func TestStore_ReadersDuringRebuild(t *testing.T) {
	store := NewStore()

	first, err := store.Rebuild(context.Background(), sampleDocs(), testBuilder(t))
	require.NoError(t, err)

	building := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = store.Rebuild(context.Background(), sampleDocs(), func(ctx context.Context, docs []types.Document) (*Version, error) {
			close(building)
			<-release
			return testBuilder(t)(ctx, docs)
		})
	}()

	<-building
	current, err := store.Current()
	require.NoError(t, err)
	assert.Same(t, first, current, "previous version stays visible mid-rebuild")
	close(release)
}

func TestVersion_Document(t *testing.T) {
	v := NewVersion(nil, nil, nil, sampleDocs(), nil)

	doc, err := v.Document("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", doc.Text)

	_, err = v.Document("missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownDocument)
}

func TestVersion_DocumentNames(t *testing.T) {
	v := NewVersion(nil, nil, nil, []types.Document{
		{Name: "zeta.txt", Text: "z"},
		{Name: "alpha.txt", Text: "a"},
	}, nil)

	assert.Equal(t, []string{"alpha.txt", "zeta.txt"}, v.DocumentNames())
}

func TestRebuildLock(t *testing.T) {
	var l rebuildLock
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
	l.Release()
	assert.True(t, l.TryAcquire())
	l.Release()
}

func TestVersion_BuiltAtUTC(t *testing.T) {
	v := NewVersion(nil, nil, nil, nil, nil)
	assert.Equal(t, time.UTC, v.BuiltAt.Location())
}
