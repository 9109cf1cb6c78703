// Package embedding defines the text-embedding contract used by the
// history-retrieval step.
package embedding

import "context"

// Embedder is the interface for generating embeddings. Implementations
// return one fixed-length vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
