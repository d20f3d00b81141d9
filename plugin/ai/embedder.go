package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/calkins/teampulse/plugin/ai/cache"
)

const (
	// DefaultMinTextLength is the shortest text that is worth embedding.
	// Matches the minimum valid task description length.
	DefaultMinTextLength = 5

	// maxBatchSize caps the number of texts per embedding API call to
	// respect provider limits.
	maxBatchSize = 100
)

// Embedder resolves embedding vectors for texts, consulting a persistent
// cache and batching uncached requests to the embedding service.
//
// API failures never propagate: the affected texts simply resolve to no
// vector, and callers decide what to do with an unresolvable text.
type Embedder struct {
	service EmbeddingService
	cache   *cache.EmbeddingCache

	minTextLength int
}

// NewEmbedder creates a new embedder.
func NewEmbedder(service EmbeddingService, cache *cache.EmbeddingCache) *Embedder {
	return &Embedder{
		service:       service,
		cache:         cache,
		minTextLength: DefaultMinTextLength,
	}
}

// validText reports whether a text qualifies for embedding.
func (e *Embedder) validText(text string) bool {
	return len(strings.TrimSpace(text)) >= e.minTextLength
}

// EmbedOne resolves the vector for a single text. Returns nil for texts that
// are too short and for API failures.
func (e *Embedder) EmbedOne(ctx context.Context, text string) []float32 {
	if !e.validText(text) {
		return nil
	}
	if vector, ok := e.cache.Get(text); ok {
		return vector
	}

	vectors, err := e.service.EmbedBatch(ctx, []string{text})
	if err != nil || len(vectors) == 0 {
		slog.Warn("failed to embed text", "error", err)
		return nil
	}

	e.cache.Put(text, vectors[0])
	return vectors[0]
}

// EmbedMany resolves vectors for multiple texts. Invalid texts are filtered
// out; cache hits are served locally; misses are fetched in batches of at
// most maxBatchSize. A failed batch drops only its own texts from the result.
func (e *Embedder) EmbedMany(ctx context.Context, texts []string) map[string][]float32 {
	result := make(map[string][]float32)
	if len(texts) == 0 {
		return result
	}

	var misses []string
	seen := make(map[string]bool)
	for _, text := range texts {
		if !e.validText(text) || seen[text] {
			continue
		}
		seen[text] = true
		if vector, ok := e.cache.Get(text); ok {
			result[text] = vector
		} else {
			misses = append(misses, text)
		}
	}

	for start := 0; start < len(misses); start += maxBatchSize {
		end := min(start+maxBatchSize, len(misses))
		batch := misses[start:end]

		vectors, err := e.service.EmbedBatch(ctx, batch)
		if err != nil || len(vectors) != len(batch) {
			slog.Warn("embedding batch failed, dropping its texts",
				"batch_size", len(batch),
				"error", err)
			continue
		}

		fetched := make(map[string][]float32, len(batch))
		for i, text := range batch {
			fetched[text] = vectors[i]
			result[text] = vectors[i]
		}
		e.cache.PutAll(fetched)
	}

	return result
}
