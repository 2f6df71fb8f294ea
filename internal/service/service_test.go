package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa/docqa-mcp/internal/assembler"
	"github.com/docqa/docqa-mcp/internal/completion"
	"github.com/docqa/docqa-mcp/internal/corpus"
	"github.com/docqa/docqa-mcp/internal/embedder"
	"github.com/docqa/docqa-mcp/internal/pipeline"
	"github.com/docqa/docqa-mcp/internal/tokens"
	"github.com/docqa/docqa-mcp/pkg/types"
)

// fakeChat records prompts and returns a canned answer.
type fakeChat struct {
	prompts []string
	answer  string
	err     error
}

func (f *fakeChat) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeChat) Model() string { return "gpt-3.5-turbo" }
func (f *fakeChat) Close() error  { return nil }

func newTestService(t *testing.T, chat *fakeChat) *Service {
	t.Helper()
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	pipe := pipeline.New(emb, assembler.New(tokens.New()), 2)

	var backend completion.Completion
	if chat != nil {
		backend = chat
	}

	svc, err := New(corpus.NewStore(), pipe, backend, Config{})
	require.NoError(t, err)
	return svc
}

func sampleDocs() []types.Document {
	return []types.Document{
		{Name: "pets.txt", Text: "Cats are small carnivorous mammals commonly kept as pets."},
		{Name: "markets.txt", Text: "Stocks rallied after the central bank held rates steady."},
	}
}

func TestNew_Defaults(t *testing.T) {
	svc := newTestService(t, nil)
	cfg := svc.Config()

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 2000, cfg.MaxTokens)
	assert.Equal(t, 300, cfg.AnswerLength)
	assert.Equal(t, tokens.DefaultModel, cfg.Model)
}

func TestNew_RejectsUnknownModel(t *testing.T) {
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	pipe := pipeline.New(emb, assembler.New(tokens.New()), 2)

	_, err = New(corpus.NewStore(), pipe, nil, Config{Model: "mystery"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownModel)
}

func TestNew_RejectsBadChunkConfig(t *testing.T) {
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	pipe := pipeline.New(emb, assembler.New(tokens.New()), 2)

	_, err = New(corpus.NewStore(), pipe, nil, Config{ChunkSize: 100, ChunkOverlap: 150})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrChunkConfig)
}

func TestIngestAndStatus(t *testing.T) {
	svc := newTestService(t, nil)

	version, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, version.ID)

	status := svc.Status()
	assert.True(t, status.Indexed)
	assert.Equal(t, version.ID, status.VersionID)
	assert.Equal(t, 2, status.DocumentCount)
	assert.Equal(t, []string{"markets.txt", "pets.txt"}, status.Documents)
	assert.Equal(t, 2, status.ChunkCount)
}

func TestStatus_BeforeIngest(t *testing.T) {
	svc := newTestService(t, nil)

	status := svc.Status()
	assert.False(t, status.Indexed)
	assert.Zero(t, status.DocumentCount)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)

	matches, err := svc.Search(context.Background(), "Cats are small carnivorous mammals commonly kept as pets.", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "pets.txt", matches[0].Tag)
}

func TestSearch_BeforeIngest(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Search(context.Background(), "anything", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotIndexed)
}

func TestAsk(t *testing.T) {
	chat := &fakeChat{answer: "Cats are pets."}
	svc := newTestService(t, chat)
	_, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)

	resp, err := svc.Ask(context.Background(), AskRequest{
		Question: "What are cats?",
		Document: "pets.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, "Cats are pets.", resp.Answer)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "gpt-3.5-turbo", resp.Model)
	for _, m := range resp.Matches {
		assert.Contains(t, []string{"pets.txt", "markets.txt"}, m.Tag,
			"match tags carry document provenance")
	}

	require.Len(t, chat.prompts, 1)
	prompt := chat.prompts[0]
	assert.Contains(t, prompt, "document 'pets.txt'")
	assert.Contains(t, prompt, "Question: What are cats?")
	assert.Contains(t, prompt, "approximately 300 words")
	assert.True(t, strings.Contains(prompt, "Cats are small carnivorous mammals"),
		"context should lead with the selected document's text")
}

func TestAsk_UnknownDocument(t *testing.T) {
	chat := &fakeChat{answer: "x"}
	svc := newTestService(t, chat)
	_, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), AskRequest{Question: "q", Document: "nope.txt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownDocument)
}

func TestAsk_BeforeIngest(t *testing.T) {
	chat := &fakeChat{answer: "x"}
	svc := newTestService(t, chat)

	_, err := svc.Ask(context.Background(), AskRequest{Question: "q", Document: "pets.txt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotIndexed)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	chat := &fakeChat{answer: "x"}
	svc := newTestService(t, chat)

	_, err := svc.Ask(context.Background(), AskRequest{Document: "pets.txt"})
	require.Error(t, err)
}

func TestAsk_NoChatBackend(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), AskRequest{Question: "q", Document: "pets.txt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCompletionService)
}

func TestAsk_ChatFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("backend down")}
	svc := newTestService(t, chat)
	_, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), AskRequest{Question: "q", Document: "pets.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestAsk_OverridesDefaults(t *testing.T) {
	chat := &fakeChat{answer: "short"}
	svc := newTestService(t, chat)
	_, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)

	resp, err := svc.Ask(context.Background(), AskRequest{
		Question:     "q",
		Document:     "pets.txt",
		TopK:         1,
		AnswerLength: 50,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Matches, 1)
	assert.Contains(t, chat.prompts[0], "approximately 50 words")
}

func TestIngest_ChunkOverrides(t *testing.T) {
	svc := newTestService(t, nil)

	base, err := svc.Ingest(context.Background(), sampleDocs(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, base.Index.Size(), "defaults keep each short document in one chunk")

	fine, err := svc.Ingest(context.Background(), sampleDocs(), &IngestOptions{
		ChunkSize:    30,
		ChunkOverlap: 5,
	})
	require.NoError(t, err)
	assert.Greater(t, fine.Index.Size(), base.Index.Size())
}

func TestIngest_InvalidOverrides(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Ingest(context.Background(), sampleDocs(), &IngestOptions{
		ChunkSize:    10,
		ChunkOverlap: 20,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrChunkConfig)

	status := svc.Status()
	assert.False(t, status.Indexed, "rejected overrides must not publish a version")
}

func TestIngest_EmptyCorpus(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Ingest(context.Background(), []types.Document{{Name: "blank.txt", Text: " "}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmptyCorpus)

	status := svc.Status()
	assert.False(t, status.Indexed, "failed ingest must not publish a version")
}
