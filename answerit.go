// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package answerit is a question answering system over uploaded
// documents, live web search, and encyclopedia lookups.
//
// Queries are classified and gated by a deterministic routing policy,
// evidence from every enabled source is fused into one ordered context,
// and the language model answers strictly from that context with
// positional citations.
package answerit

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/fusion"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/retriever"
	"github.com/poiesic/answerit/router"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/poiesic/answerit/vectorstore"
	"github.com/poiesic/answerit/websearch"
)

// App wires storage, AI services, routing, and fusion into one
// question answering application.
type App struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	provider  ai.AIProvider
	store     *vectorstore.Store
	router    *router.Router
	engine    *fusion.Engine
	pipeline  *ingestion.Pipeline
	wiki      websearch.Searcher
	pool      *ants.Pool
	logger    *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig  *ai.Config
	provider  ai.AIProvider
	tavilyKey string
	web       websearch.Searcher
	wiki      websearch.Searcher
	topK      int
	chunker   *ingestion.Chunker
	logger    *slog.Logger
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects an AI provider, bypassing the OpenAI one.
func WithProvider(provider ai.AIProvider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// WithTavilyKey enables web search through Tavily.
// Without a key (or an injected searcher) web retrieval contributes
// nothing.
func WithTavilyKey(key string) AppOption {
	return func(o *appOptions) {
		o.tavilyKey = key
	}
}

// WithWebSearcher injects a web search adapter.
func WithWebSearcher(web websearch.Searcher) AppOption {
	return func(o *appOptions) {
		o.web = web
	}
}

// WithWikipediaSearcher injects a wikipedia search adapter.
func WithWikipediaSearcher(wiki websearch.Searcher) AppOption {
	return func(o *appOptions) {
		o.wiki = wiki
	}
}

// WithTopK sets the number of document chunks retrieved per query.
func WithTopK(k int) AppOption {
	return func(o *appOptions) {
		o.topK = k
	}
}

// WithChunker sets custom chunking parameters for ingestion.
func WithChunker(chunker *ingestion.Chunker) AppOption {
	return func(o *appOptions) {
		o.chunker = chunker
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// NewApp opens the database at filePath and wires the application.
func NewApp(ctx context.Context, filePath string, opts ...AppOption) (*App, error) {
	// Apply options
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// AI provider with configured settings unless one was injected
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	app := &App{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		logger:    logger,
	}

	app.store, err = vectorstore.New(ctx, chunkRepo, provider.Embedder(),
		vectorstore.WithLogger(logger))
	if err != nil {
		app.Close()
		return nil, err
	}

	retrieverOpts := []retriever.Option{retriever.WithLogger(logger)}
	if options.topK > 0 {
		retrieverOpts = append(retrieverOpts, retriever.WithTopK(options.topK))
	}
	docRetriever, err := retriever.New(app.store, provider.Embedder(), retrieverOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.router, err = router.New(provider.ChatModel(), router.WithLogger(logger))
	if err != nil {
		app.Close()
		return nil, err
	}

	web := options.web
	if web == nil && options.tavilyKey != "" {
		web, err = websearch.NewTavilyClient(options.tavilyKey,
			websearch.WithTavilyLogger(logger))
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	app.wiki = options.wiki
	if app.wiki == nil {
		app.wiki, err = websearch.NewWikipediaClient(
			websearch.WithWikipediaLogger(logger))
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	app.pool, err = ants.NewPool(4)
	if err != nil {
		app.Close()
		return nil, err
	}

	engineOpts := []fusion.Option{
		fusion.WithPool(app.pool),
		fusion.WithLogger(logger),
	}
	if web != nil {
		engineOpts = append(engineOpts, fusion.WithWebSearcher(web))
	}
	app.engine, err = fusion.NewEngine(provider.ChatModel(), docRetriever, engineOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(logger)}
	if options.chunker != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithChunker(options.chunker))
	}
	app.pipeline, err = ingestion.NewPipeline(app.store, pipelineOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// NewSession creates a session primed with the currently stored titles.
func (a *App) NewSession() *Session {
	s := NewSession()
	s.setTitles(a.store.Titles())
	return s
}

// Answer routes the query, fuses evidence from every enabled source,
// and appends the completed turn to the session history.
func (a *App) Answer(ctx context.Context, session *Session, query string) (core.AnswerResult, error) {
	var extra []core.ContextItem
	if session.IncludeWikipedia {
		items, wikiErr := a.wiki.Search(ctx, query)
		if wikiErr != nil {
			a.logger.Warn("wikipedia lookup failed, continuing without it", "err", wikiErr)
		} else {
			extra = items
		}
	}

	route := a.router.Route(ctx, query, session.WebEnabled)

	result, err := a.engine.Run(ctx, query, route, session.WebEnabled, extra)
	if err != nil {
		return core.AnswerResult{}, err
	}

	session.appendTurn(Turn{
		Question: query,
		Answer:   result.Answer,
		Sources:  result.Sources,
	})
	return result, nil
}

// IngestFiles adds the given documents to the corpus and refreshes the
// session's title list.
func (a *App) IngestFiles(ctx context.Context, session *Session, paths []string) error {
	if err := a.pipeline.IngestFiles(ctx, paths); err != nil {
		return err
	}
	session.setTitles(a.store.Titles())
	return nil
}

// RemoveDocument deletes every chunk of the titled document and
// refreshes the session's title list.
func (a *App) RemoveDocument(ctx context.Context, session *Session, title string) error {
	if err := a.store.RemoveByTitle(ctx, title); err != nil {
		return err
	}
	session.setTitles(a.store.Titles())
	return nil
}

// Titles returns the distinct titles in the stored corpus.
func (a *App) Titles() []string {
	return a.store.Titles()
}

// Close releases all application resources.
func (a *App) Close() error {
	if a.pipeline != nil {
		a.pipeline.Release()
	}
	if a.pool != nil {
		a.pool.Release()
	}

	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
		}
	}

	if a.chunkRepo != nil {
		if err := a.chunkRepo.Close(); err != nil {
			a.logger.Error("error closing chunk repository", "err", err)
			return err
		}
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}
