package ai

import (
	"context"
	"fmt"
	"sync"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for
// testing. It serves canned vectors per text and counts API calls.
type MockEmbeddingService struct {
	mu      sync.Mutex
	vectors map[string][]float32

	// Err, when set, makes every call fail.
	Err error

	// Calls counts EmbedBatch invocations. BatchSizes records the size
	// of each requested batch.
	Calls      int
	BatchSizes []int
}

// NewMockEmbeddingService creates a new MockEmbeddingService.
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		vectors: make(map[string][]float32),
	}
}

// SetVector registers the vector returned for a text.
func (m *MockEmbeddingService) SetVector(text string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[text] = vector
}

func (m *MockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.BatchSizes = append(m.BatchSizes, len(texts))

	if m.Err != nil {
		return nil, m.Err
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, ok := m.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no mock vector for %q", text)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// MockLLMService is a mock implementation of LLMService for testing.
type MockLLMService struct {
	mu sync.Mutex

	// Response is returned for every prompt unless Err is set.
	Response string
	Err      error

	// Prompts records every prompt received.
	Prompts []string
}

func (m *MockLLMService) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

var (
	_ EmbeddingService = (*MockEmbeddingService)(nil)
	_ LLMService       = (*MockLLMService)(nil)
)
