// Package mock provides a test double for ai.Embedder.
//
// The mock lets tests run without an embedding service and gives
// controlled, deterministic vectors.
//
// # Usage in Tests
//
//	// Default behavior: deterministic unit vectors derived from the text
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{1, 0, 0}, nil
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
package mock
