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

package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/vectorstore"
)

// Pipeline orchestrates document ingestion.
// Files are loaded and chunked concurrently, then added to the store in
// a single mutation so the index rebuilds once per batch.
type Pipeline struct {
	store     *vectorstore.Store
	processor *Processor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent file processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunker sets custom chunking parameters.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		p.processor = NewProcessor(chunker)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store *vectorstore.Store, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		processor: NewProcessor(nil),
		pool:      pool,
		logger:    slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestFiles processes the given files and adds their chunks to the
// store as one batch. Any file failure aborts the whole batch before
// the store is touched: either every file lands in the corpus or none.
func (p *Pipeline) IngestFiles(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	chunksPerFile := make([][]*core.Chunk, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		i, path := i, path
		if err := p.pool.Submit(func() {
			defer wg.Done()
			chunksPerFile[i], errs[i] = p.processor.Process(path)
		}); err != nil {
			// Pool released: process inline
			chunksPerFile[i], errs[i] = p.processor.Process(path)
			wg.Done()
		}
	}
	wg.Wait()

	var chunks []*core.Chunk
	for i, err := range errs {
		if err != nil {
			p.logger.Error("error processing file", "path", paths[i], "err", err)
			return err
		}
		chunks = append(chunks, chunksPerFile[i]...)
	}

	p.logger.Info("ingesting documents", "files", len(paths), "chunks", len(chunks))
	return p.store.AddDocuments(ctx, chunks)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
