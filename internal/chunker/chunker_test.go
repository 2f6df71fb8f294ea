package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa-mcp/pkg/types"
)

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{name: "zero size", size: 0, overlap: 0},
		{name: "negative size", size: -10, overlap: 0},
		{name: "negative overlap", size: 100, overlap: -1},
		{name: "overlap equals size", size: 100, overlap: 100},
		{name: "overlap exceeds size", size: 100, overlap: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.overlap)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrChunkConfig)
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t\n  "))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	tests := []string{
		"hello",
		"A sentence. Another sentence.",
		strings.Repeat("x", 100), // exactly chunk size
	}

	for _, text := range tests {
		chunks := s.Split(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	}
}

func TestSplit_ChunkSizeBound(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	texts := []string{
		strings.Repeat("word ", 200),
		strings.Repeat("A short sentence. ", 50),
		strings.Repeat("paragraph one\n\nparagraph two\n\n", 30),
		strings.Repeat("z", 1000), // no separators at all
	}

	for _, text := range texts {
		chunks := s.Split(text)
		require.NotEmpty(t, chunks)
		for i, c := range chunks {
			assert.LessOrEqual(t, len(c), 100, "chunk %d exceeds chunk size", i)
			assert.NotEmpty(t, c)
		}
	}
}

func TestSplit_OverlapCarriedForward(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	// Raw character splitting: no structural separators present.
	text := strings.Repeat("z", 1000)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-20:]
		assert.True(t, strings.HasPrefix(chunks[i], tail),
			"chunk %d does not start with the last 20 chars of chunk %d", i, i-1)
	}
}

func TestSplit_OverlapOnSentenceBoundaries(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)

	// 13 chars repeated 100 times = 1300 chars, forcing two chunks.
	text := strings.Repeat("Hello world. ", 100)
	chunks := s.Split(text)
	require.Len(t, chunks, 2)

	first := chunks[0]
	assert.LessOrEqual(t, len(first), 1000)
	assert.True(t, strings.HasPrefix(chunks[1], first[len(first)-200:]),
		"second chunk must begin with the last 200 chars of the first")
}

func TestSplit_ZeroOverlap(t *testing.T) {
	s, err := New(50, 0)
	require.NoError(t, err)

	text := strings.Repeat("q", 500)
	chunks := s.Split(text)
	require.Len(t, chunks, 10)

	// With no overlap the chunks concatenate back to the input.
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	s, err := New(60, 10)
	require.NoError(t, err)

	text := "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here"
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	// Paragraphs are short enough to stay intact: no chunk should cut a
	// paragraph mid-word at its start (overlap carry aside).
	assert.Contains(t, chunks[0], "first paragraph here")
}

func TestSplit_MultibyteRuneBoundaries(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	// No separators at all, so splitting falls through to hard windows;
	// two-byte runes must never be cut in half there or at the overlap
	// carry.
	raw := strings.Repeat("ü", 500)
	chunks := s.Split(raw)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
		assert.LessOrEqual(t, len(chunk), 100)
	}

	// Mixed-width text with word boundaries exercises the merge carry.
	mixed := strings.Repeat("héllo wörld ", 60)
	chunks = s.Split(mixed)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("Some sentence with words. ", 40)
	a := s.Split(text)
	b := s.Split(text)
	assert.Equal(t, a, b)
}

func TestChunkDocument_Provenance(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	doc := types.Document{Name: "doc1", Text: strings.Repeat("word ", 100)}
	chunks := s.ChunkDocument(doc)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, "doc1", c.Source)
		assert.Equal(t, i, c.Ordinal)
		assert.NotEmpty(t, c.Content)
	}
}

func TestChunkDocument_EmptyDocument(t *testing.T) {
	s, err := New(100, 20)
	require.NoError(t, err)

	chunks := s.ChunkDocument(types.Document{Name: "empty", Text: "  "})
	assert.Empty(t, chunks)
}
