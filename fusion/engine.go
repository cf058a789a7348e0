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

package fusion

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
	"github.com/poiesic/answerit/websearch"
)

// CannedNoAnswer is returned when no evidence could be assembled.
// The language model is never invoked with an empty context.
const CannedNoAnswer = "I don't have enough information to answer this question."

const greetingPersona = `You are a friendly assistant. Reply briefly and warmly. Do not offer information the user did not ask for.`

const groundingInstruction = `Answer the question using only the provided context. Cite the evidence you use inline as [Doc X], [Web X], or [Wikipedia X]. If the context does not contain the answer, say you don't know. Do not use outside knowledge.`

// DocumentRetriever retrieves document evidence for a query.
type DocumentRetriever interface {
	Retrieve(ctx context.Context, query string) ([]core.ContextItem, error)
}

// Engine assembles evidence for a routed query and produces a grounded
// answer with one citation per evidence item.
type Engine struct {
	chat      ai.ChatModel
	retriever DocumentRetriever
	web       websearch.Searcher
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithWebSearcher sets the web search adapter.
// Without one, web retrieval contributes nothing.
func WithWebSearcher(web websearch.Searcher) Option {
	return func(e *Engine) error {
		e.web = web
		return nil
	}
}

// WithPool sets the worker pool used for retrieval fan-out.
// Without one, retrieval runs sequentially.
func WithPool(pool *ants.Pool) Option {
	return func(e *Engine) error {
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a fusion engine.
func NewEngine(chat ai.ChatModel, retriever DocumentRetriever, opts ...Option) (*Engine, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	e := &Engine{
		chat:      chat,
		retriever: retriever,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Run answers the query per the given route.
func (e *Engine) Run(ctx context.Context, query string, route core.Route, webEnabled bool, extra []core.ContextItem) (core.AnswerResult, error) {
	return e.RunWithMonitor(ctx, query, route, webEnabled, extra, nil)
}

// RunWithMonitor answers the query with observation callbacks at each
// pipeline stage.
//
// Greeting routes short-circuit to a persona reply with no retrieval.
// Otherwise evidence is assembled in order: caller-supplied extras,
// document retrieval (Document and Hybrid routes), web search (whenever
// webEnabled). An empty evidence set yields the canned answer without a
// model call.
func (e *Engine) RunWithMonitor(ctx context.Context, query string, route core.Route, webEnabled bool, extra []core.ContextItem, monitor Monitor) (core.AnswerResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)
	monitor.AfterRoute(route)

	if route.QueryType == core.QueryTypeGreeting {
		answer, err := e.chat.Invoke(ctx, []ai.Message{
			ai.SystemMessage(greetingPersona),
			ai.HumanMessage(query),
		})
		if err != nil {
			e.logger.Error("error generating greeting reply", "err", err)
			return core.AnswerResult{}, err
		}
		result := core.AnswerResult{Answer: answer, Sources: []string{}}
		monitor.Finish(result)
		return result, nil
	}

	wantDocs := route.QueryType == core.QueryTypeDocument || route.QueryType == core.QueryTypeHybrid

	docItems, webItems, err := e.gather(ctx, query, wantDocs, webEnabled)
	if err != nil {
		return core.AnswerResult{}, err
	}
	monitor.AfterDocumentRetrieval(docItems)
	monitor.AfterWebSearch(webItems)

	// Evidence order is fixed: extras, then documents, then web.
	evidence := make([]core.ContextItem, 0, len(extra)+len(docItems)+len(webItems))
	evidence = append(evidence, extra...)
	evidence = append(evidence, docItems...)
	evidence = append(evidence, webItems...)
	monitor.EvidenceAssembled(evidence)

	if len(evidence) == 0 {
		result := core.AnswerResult{Answer: CannedNoAnswer, Sources: []string{}}
		monitor.Finish(result)
		return result, nil
	}

	answer, err := e.chat.Invoke(ctx, []ai.Message{
		ai.SystemMessage(groundingInstruction + "\n\nContext:\n" + renderEvidence(evidence)),
		ai.HumanMessage(query),
	})
	if err != nil {
		e.logger.Error("error generating grounded answer", "err", err)
		return core.AnswerResult{}, err
	}

	sources := make([]string, 0, len(evidence))
	for _, item := range evidence {
		sources = append(sources, item.Citation())
	}

	result := core.AnswerResult{Answer: answer, Sources: sources}
	monitor.Finish(result)
	return result, nil
}

// gather runs document and web retrieval, fanning out on the pool when
// one is configured. Document retrieval over an empty index contributes
// nothing; any other retrieval error is fatal. Web search failure is
// degraded to zero contribution.
func (e *Engine) gather(ctx context.Context, query string, wantDocs, wantWeb bool) ([]core.ContextItem, []core.ContextItem, error) {
	var (
		docItems []core.ContextItem
		docErr   error
		webItems []core.ContextItem
	)

	retrieveDocs := func() {
		items, err := e.retriever.Retrieve(ctx, query)
		if err != nil {
			if errors.Is(err, vectorstore.ErrEmptyIndex) {
				e.logger.Debug("no document index, retrieval skipped")
				return
			}
			docErr = err
			return
		}
		docItems = items
	}

	searchWeb := func() {
		if e.web == nil {
			return
		}
		items, err := e.web.Search(ctx, query)
		if err != nil {
			e.logger.Warn("web search failed, continuing without web evidence", "err", err)
			return
		}
		webItems = items
	}

	var tasks []func()
	if wantDocs {
		tasks = append(tasks, retrieveDocs)
	}
	if wantWeb {
		tasks = append(tasks, searchWeb)
	}

	if e.pool != nil && len(tasks) > 1 {
		var wg sync.WaitGroup
		for _, task := range tasks {
			wg.Add(1)
			task := task
			if err := e.pool.Submit(func() {
				defer wg.Done()
				task()
			}); err != nil {
				// Pool saturated or released: run inline
				task()
				wg.Done()
			}
		}
		wg.Wait()
	} else {
		for _, task := range tasks {
			task()
		}
	}

	if docErr != nil {
		e.logger.Error("document retrieval failed", "err", docErr)
		return nil, nil, docErr
	}
	return docItems, webItems, nil
}

// renderEvidence concatenates labeled evidence blocks. Labels use the
// 1-based position of each item in the assembled evidence.
func renderEvidence(evidence []core.ContextItem) string {
	var sb strings.Builder
	for i, item := range evidence {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(item.Label(i + 1))
		sb.WriteString("\n")
		sb.WriteString(item.Content)
	}
	return sb.String()
}
