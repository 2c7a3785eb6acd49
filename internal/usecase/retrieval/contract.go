package retrieval

import (
	"context"

	"github.com/kailas-cloud/listwise/internal/domain"
)

// Embedder vectorizes the retrieval query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Corpus serves KNN queries over the stored best practices.
type Corpus interface {
	Query(ctx context.Context, vector []float32, k int) ([]string, error)
}
