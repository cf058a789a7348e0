package answerit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	wsmock "github.com/poiesic/answerit/websearch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app      *App
	provider *mock.MockProvider
	web      *wsmock.MockSearcher
	wiki     *wsmock.MockSearcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	web := wsmock.NewMockSearcher()
	wiki := wsmock.NewMockSearcher()

	app, err := NewApp(context.Background(), filepath.Join(t.TempDir(), "db"),
		WithProvider(provider),
		WithWebSearcher(web),
		WithWikipediaSearcher(wiki))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	return &testApp{app: app, provider: provider, web: web, wiki: wiki}
}

func (ta *testApp) ingest(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	session := ta.app.NewSession()
	require.NoError(t, ta.app.IngestFiles(context.Background(), session, []string{path}))
}

func TestNewApp(t *testing.T) {
	t.Run("create new app", func(t *testing.T) {
		app, err := NewApp(context.Background(), filepath.Join(t.TempDir(), "db"),
			WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, app)
		defer app.Close()

		assert.Empty(t, app.Titles())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		app, err := NewApp(context.Background(), tmpFile,
			WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, app)
	})
}

func TestAnswer_Greeting(t *testing.T) {
	ta := newTestApp(t)
	ta.provider.GetMockChatModel().QueueReplies("GREETING", "Hello! Nice to meet you.")

	session := ta.app.NewSession()
	result, err := ta.app.Answer(context.Background(), session, "hi")
	require.NoError(t, err)

	assert.Equal(t, "Hello! Nice to meet you.", result.Answer)
	assert.Empty(t, result.Sources)

	history := session.History()
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].Question)
	assert.Equal(t, "Hello! Nice to meet you.", history[0].Answer)
}

func TestAnswer_DocumentQuestion(t *testing.T) {
	ta := newTestApp(t)
	ta.ingest(t, "report.txt", "Revenue grew by 12% year over year, driven by subscriptions.")

	ta.provider.GetMockChatModel().QueueReplies(
		"DOCUMENT",
		"Revenue grew by 12% [Doc 1].")

	session := ta.app.NewSession()
	result, err := ta.app.Answer(context.Background(), session, "what does the report say about revenue")
	require.NoError(t, err)

	assert.Equal(t, "Revenue grew by 12% [Doc 1].", result.Answer)
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "[Doc] report.txt - Chunk 0", result.Sources[0])

	// Web was never consulted
	assert.Equal(t, 0, ta.web.CallCount())
}

func TestAnswer_WebDisabledRefuses(t *testing.T) {
	ta := newTestApp(t)
	ta.provider.GetMockChatModel().QueueReplies("WEB")

	session := ta.app.NewSession()
	result, err := ta.app.Answer(context.Background(), session, "latest stock price")
	require.NoError(t, err)

	assert.Equal(t, "I don't have enough information to answer this question.", result.Answer)
	assert.Empty(t, result.Sources)

	// Only the classifier ran; no grounded answer call was made
	assert.Equal(t, 1, ta.provider.GetMockChatModel().CallCount())
	assert.Equal(t, 0, ta.web.CallCount())
}

func TestAnswer_WebEnabled(t *testing.T) {
	ta := newTestApp(t)
	ta.provider.GetMockChatModel().QueueReplies(
		"WEB",
		"The price is $123 [Web 1], confirmed by [Web 2].")
	ta.web.Results = []core.ContextItem{
		{SourceType: core.SourceTypeWeb, Content: "Stock trades at $123.", Title: "Quotes", URL: "https://example.com/q"},
		{SourceType: core.SourceTypeWeb, Content: "Closing price $123.", Title: "Markets", URL: "https://example.com/m"},
	}

	session := ta.app.NewSession()
	session.WebEnabled = true

	result, err := ta.app.Answer(context.Background(), session, "latest stock price")
	require.NoError(t, err)

	assert.Equal(t, "The price is $123 [Web 1], confirmed by [Web 2].", result.Answer)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "[Web] Quotes - https://example.com/q", result.Sources[0])
	assert.Equal(t, "[Web] Markets - https://example.com/m", result.Sources[1])
}

func TestAnswer_WikipediaExtras(t *testing.T) {
	ta := newTestApp(t)
	ta.provider.GetMockChatModel().QueueReplies(
		"DOCUMENT",
		"Grounded in the encyclopedia [Wikipedia 1].")
	ta.wiki.Results = []core.ContextItem{
		{SourceType: core.SourceTypeWikipedia, Content: "Background snippet.", Title: "Topic", URL: "https://en.wikipedia.org/wiki/Topic"},
	}

	session := ta.app.NewSession()
	session.IncludeWikipedia = true

	result, err := ta.app.Answer(context.Background(), session, "tell me about the topic")
	require.NoError(t, err)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, "[Wikipedia] Topic - https://en.wikipedia.org/wiki/Topic", result.Sources[0])
	assert.Equal(t, 1, ta.wiki.CallCount())
}

func TestAnswer_EmptyCorpusNoEvidence(t *testing.T) {
	ta := newTestApp(t)
	ta.provider.GetMockChatModel().QueueReplies("DOCUMENT")

	session := ta.app.NewSession()
	result, err := ta.app.Answer(context.Background(), session, "what does the report say")
	require.NoError(t, err)

	assert.Equal(t, "I don't have enough information to answer this question.", result.Answer)
	assert.Empty(t, result.Sources)
}

func TestRemoveDocument(t *testing.T) {
	ta := newTestApp(t)
	ta.ingest(t, "a.txt", "content of document A, part one")
	ta.ingest(t, "b.txt", "content of document B")

	session := ta.app.NewSession()
	assert.Equal(t, []string{"a.txt", "b.txt"}, session.Titles())

	require.NoError(t, ta.app.RemoveDocument(context.Background(), session, "a.txt"))
	assert.Equal(t, []string{"b.txt"}, session.Titles())
	assert.Equal(t, []string{"b.txt"}, ta.app.Titles())
}

func TestIngestAndAnswerAfterRemoval(t *testing.T) {
	ta := newTestApp(t)
	ta.ingest(t, "a.txt", "alpha document content")
	ta.ingest(t, "b.txt", "beta document content")

	session := ta.app.NewSession()
	require.NoError(t, ta.app.RemoveDocument(context.Background(), session, "a.txt"))

	ta.provider.GetMockChatModel().QueueReplies("DOCUMENT", "Answer from B [Doc 1].")

	result, err := ta.app.Answer(context.Background(), session, "beta document content")
	require.NoError(t, err)

	// Retrieval returns only B-derived chunks
	for _, source := range result.Sources {
		assert.Contains(t, source, "b.txt")
	}
}

func TestCorpusSurvivesRestart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	docPath := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(docPath, []byte("persistent knowledge"), 0644))

	app, err := NewApp(context.Background(), dir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	session := app.NewSession()
	require.NoError(t, app.IngestFiles(context.Background(), session, []string{docPath}))
	require.NoError(t, app.Close())

	reopened, err := NewApp(context.Background(), dir, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, []string{"doc.txt"}, reopened.Titles())
}
