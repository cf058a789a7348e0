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

package router

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
)

const classifyInstruction = `You are a query classifier. Classify the user query into exactly one of these categories:
GREETING - greetings, small talk, pleasantries
DOCUMENT - questions answerable from uploaded documents
WEB - questions requiring current information from the web
HYBRID - questions needing both documents and current web information
Return only the label, nothing else.`

// Router classifies queries and applies the routing policy gate.
//
// Classification comes from the language model; the policy decision is
// deterministic and independent of the model. Route never returns an
// error: classifier failures and unparseable labels fall back to
// Document, the safest retrieval path.
type Router struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// New creates a new Router.
func New(chat ai.ChatModel, opts ...Option) (*Router, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}

	r := &Router{
		chat:   chat,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Route classifies the query and gates it against webEnabled.
func (r *Router) Route(ctx context.Context, query string, webEnabled bool) core.Route {
	classified := r.classify(ctx, query)
	route := applyPolicy(classified, webEnabled)
	r.logger.Debug("routed query",
		"classified", classified.String(),
		"webEnabled", webEnabled,
		"route", route.QueryType.String(),
		"allowWeb", route.AllowWeb)
	return route
}

// classify asks the language model for a query type label. Any failure
// or unrecognized label yields Document; a REFUSE label from the model
// is never trusted, only the policy gate may refuse.
func (r *Router) classify(ctx context.Context, query string) core.QueryType {
	reply, err := r.chat.Invoke(ctx, []ai.Message{
		ai.SystemMessage(classifyInstruction),
		ai.HumanMessage(query),
	})
	if err != nil {
		r.logger.Warn("classifier call failed, defaulting to document", "err", err)
		return core.QueryTypeDocument
	}

	label := strings.ToUpper(strings.TrimSpace(reply))
	return core.ParseQueryType(label)
}

// applyPolicy is the deterministic policy gate. It is a pure function
// of the classified label and the webEnabled flag.
func applyPolicy(classified core.QueryType, webEnabled bool) core.Route {
	if classified == core.QueryTypeGreeting {
		// Greetings never trigger retrieval regardless of flags.
		return core.Route{QueryType: core.QueryTypeGreeting, AllowWeb: false}
	}

	if webEnabled {
		return core.Route{QueryType: classified, AllowWeb: true}
	}

	switch classified {
	case core.QueryTypeWeb:
		// Web-specific intent with web disabled: refuse rather than
		// silently fall back to document search.
		return core.Route{QueryType: core.QueryTypeRefuse, AllowWeb: false}
	case core.QueryTypeHybrid:
		// Degrade to the retrieval capability still available.
		return core.Route{QueryType: core.QueryTypeDocument, AllowWeb: false}
	default:
		return core.Route{QueryType: core.QueryTypeDocument, AllowWeb: false}
	}
}
