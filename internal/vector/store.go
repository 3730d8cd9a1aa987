// Package vector provides an in-memory vector index over corpus chunks.
// The corpus is small and re-embedded on every cold start, so exact cosine
// search over a flat slice is enough; no persistence, no incremental updates.
package vector

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

// Store is an immutable nearest-neighbor index built once from chunks and
// their embeddings.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

// Build constructs a store from chunks and one vector per chunk
func Build(chunks []domain.Chunk, vectors [][]float32) (*Store, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("cannot build index from zero chunks")
	}

	entries := make([]entry, len(chunks))
	for i := range chunks {
		if len(vectors[i]) == 0 {
			return nil, fmt.Errorf("empty embedding for chunk %d (%s)", i, chunks[i].Source)
		}
		entries[i] = entry{chunk: chunks[i], vector: vectors[i]}
	}

	return &Store{entries: entries}, nil
}

// Search returns the top-k chunks by cosine similarity to the query vector,
// in descending score order.
func (s *Store) Search(queryVector []float32, topK int) []domain.RetrievedChunk {
	if topK <= 0 {
		topK = 4
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RetrievedChunk, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, domain.RetrievedChunk{
			Chunk: e.chunk,
			Score: cosineSimilarity(queryVector, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// Len returns the number of indexed chunks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// cosineSimilarity calculates the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}
