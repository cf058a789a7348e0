package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *mock.MockEmbedder) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	store, err := New(context.Background(), repo, embedder)
	require.NoError(t, err)
	return store, embedder
}

func docChunk(title string, index int, content string) *core.Chunk {
	return &core.Chunk{
		Id:         core.IDFromContent(content),
		DocId:      core.IDFromContent(title),
		Title:      title,
		ChunkIndex: index,
		SourceType: core.SourceTypeDocument,
		Content:    content,
	}
}

func TestNew_RequiredDependencies(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = New(context.Background(), nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = New(context.Background(), repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestStore_IndexEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Index()
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestStore_AddDocumentsBuildsIndex(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.AddDocuments(ctx, []*core.Chunk{
		docChunk("notes.md", 0, "the capital of France is Paris"),
		docChunk("notes.md", 1, "badgers are nocturnal mammals"),
	})
	require.NoError(t, err)

	idx, err := store.Index()
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, []string{"notes.md"}, store.Titles())
}

func TestStore_SearchRanksExactContentFirst(t *testing.T) {
	store, embedder := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddDocuments(ctx, []*core.Chunk{
		docChunk("a.txt", 0, "alpha content"),
		docChunk("b.txt", 0, "beta content"),
		docChunk("c.txt", 0, "gamma content"),
	}))

	// The mock embedder is deterministic, so embedding the chunk's own
	// content yields the highest similarity.
	query, err := embedder.EmbedText(ctx, "beta content")
	require.NoError(t, err)

	idx, err := store.Index()
	require.NoError(t, err)

	results := idx.Search(query, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "beta content", results[0].Chunk.Content)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestStore_RemoveByTitle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddDocuments(ctx, []*core.Chunk{
		docChunk("keep.txt", 0, "kept content"),
		docChunk("drop.txt", 0, "dropped content one"),
		docChunk("drop.txt", 1, "dropped content two"),
	}))

	require.NoError(t, store.RemoveByTitle(ctx, "drop.txt"))

	assert.Equal(t, 1, store.Count())
	assert.Equal(t, []string{"keep.txt"}, store.Titles())

	idx, err := store.Index()
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestStore_RemoveByTitleUnknownIsNoop(t *testing.T) {
	store, embedder := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddDocuments(ctx, []*core.Chunk{
		docChunk("keep.txt", 0, "kept content"),
	}))
	before := embedder.CallCount()

	require.NoError(t, store.RemoveByTitle(ctx, "missing.txt"))

	// No rebuild happened
	assert.Equal(t, before, embedder.CallCount())
	assert.Equal(t, 1, store.Count())
}

func TestStore_RemoveLastDocumentDropsIndex(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	store, err := New(ctx, repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	require.NoError(t, store.AddDocuments(ctx, []*core.Chunk{
		docChunk("only.txt", 0, "sole content"),
	}))

	require.NoError(t, store.RemoveByTitle(ctx, "only.txt"))

	_, err = store.Index()
	assert.ErrorIs(t, err, ErrEmptyIndex)

	// Persisted artifacts are gone too
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_ReloadWithoutReEmbedding(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()

	store, err := New(ctx, repo, mock.NewMockEmbedder())
	require.NoError(t, err)
	require.NoError(t, store.AddDocuments(ctx, []*core.Chunk{
		docChunk("doc.txt", 0, "persisted content"),
	}))

	// A fresh store over the same repository must not call the embedder
	failing := mock.NewMockEmbedder()
	failing.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service must not be called on load")
	}

	reloaded, err := New(ctx, repo, failing)
	require.NoError(t, err)

	idx, err := reloaded.Index()
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestStore_EmbeddingFailureLeavesStateUntouched(t *testing.T) {
	store, embedder := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddDocuments(ctx, []*core.Chunk{
		docChunk("stable.txt", 0, "stable content"),
	}))

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	err := store.AddDocuments(ctx, []*core.Chunk{
		docChunk("new.txt", 0, "new content"),
	})
	require.Error(t, err)

	// Previous corpus and index survive
	assert.Equal(t, 1, store.Count())
	idx, err := store.Index()
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, []string{"stable.txt"}, store.Titles())
}

func TestIndex_SearchTiesKeepCorpusOrder(t *testing.T) {
	chunks := []*core.Chunk{
		{Content: "first", Vector: []float32{1, 0}},
		{Content: "second", Vector: []float32{1, 0}},
		{Content: "third", Vector: []float32{0, 1}},
	}
	idx := newIndex(chunks)

	results := idx.Search([]float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Chunk.Content)
	assert.Equal(t, "second", results[1].Chunk.Content)
	assert.Equal(t, "third", results[2].Chunk.Content)
}
