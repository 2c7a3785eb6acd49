package seed

import (
	"context"

	"github.com/kailas-cloud/listwise/internal/domain"
)

// Corpus is the repository surface the seeder writes through.
type Corpus interface {
	EnsureIndex(ctx context.Context) error
	ResetIndex(ctx context.Context) error
	Upsert(ctx context.Context, practices []domain.BestPractice) error
	Version(ctx context.Context) (int, error)
	SetVersion(ctx context.Context, version int) error
}

// Embedder vectorizes the canonical practice texts in one call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
