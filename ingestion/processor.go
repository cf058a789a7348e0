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
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
)

// Processor turns a document file into corpus chunks.
type Processor struct {
	chunker *Chunker
}

// NewProcessor creates a processor with the given chunker.
// A nil chunker uses the default chunking parameters.
func NewProcessor(chunker *Chunker) *Processor {
	if chunker == nil {
		chunker = NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	}
	return &Processor{chunker: chunker}
}

// Process loads the file, splits it, and returns chunks carrying a
// fresh document id, sequential chunk indexes, and the file base name
// as title. Vectors are left empty; the store assigns them on rebuild.
func (p *Processor) Process(path string) ([]*core.Chunk, error) {
	loader, err := DetectLoader(path)
	if err != nil {
		return nil, err
	}

	text, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	pieces, err := p.chunker.Split(text)
	if err != nil {
		return nil, err
	}

	title := filepath.Base(path)
	docId := core.IDFromContent(title + "\x00" + text)
	now := time.Now().UTC()

	chunks := make([]*core.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &core.Chunk{
			Id:         core.IDFromContent(piece),
			DocId:      docId,
			Title:      title,
			ChunkIndex: i,
			SourceType: core.SourceTypeDocument,
			Content:    piece,
			InsertedAt: now,
		})
	}
	return chunks, nil
}
