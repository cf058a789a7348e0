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

package vectorstore

import (
	"slices"

	"github.com/poiesic/answerit/core"
)

// Index is an immutable flat similarity index over an embedded corpus.
// It is built once per corpus rebuild and never mutated afterwards, so
// any number of readers may search it concurrently.
type Index struct {
	chunks []*core.Chunk
}

// newIndex builds an index over the given chunks. Every chunk must
// already carry its embedding vector.
func newIndex(chunks []*core.Chunk) *Index {
	return &Index{chunks: chunks}
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search returns up to k chunks ranked by cosine similarity to the
// query vector, most similar first. Vectors are assumed normalized, so
// the dot product is the cosine similarity. Ties keep corpus order.
func (idx *Index) Search(vector []float32, k int) []*core.SearchResult {
	if k <= 0 {
		return nil
	}

	type scored struct {
		pos   int
		score float32
	}

	hits := make([]scored, 0, len(idx.chunks))
	for i, chunk := range idx.chunks {
		if len(chunk.Vector) == 0 {
			continue
		}
		hits = append(hits, scored{pos: i, score: dotProduct(vector, chunk.Vector)})
	}

	slices.SortFunc(hits, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return a.pos - b.pos
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]*core.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, &core.SearchResult{
			Chunk: idx.chunks[hit.pos],
			Score: hit.score,
		})
	}
	return results
}

// dotProduct computes the dot product of two vectors.
// For normalized vectors this equals the cosine similarity.
func dotProduct(a, b []float32) float32 {
	var sum float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
