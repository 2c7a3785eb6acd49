// Package seed loads the canonical best-practice corpus into the store on
// startup. Seeding is idempotent: a stored version marker decides whether
// anything needs to be written.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
)

// CorpusVersion is bumped whenever CanonicalPractices changes. A mismatch
// with the stored marker triggers a full reseed.
const CorpusVersion = 1

// Service seeds the corpus.
type Service struct {
	corpus   Corpus
	embedder Embedder
	logger   *zap.Logger
}

// New creates the seeder.
func New(corpus Corpus, embedder Embedder, logger *zap.Logger) *Service {
	return &Service{
		corpus:   corpus,
		embedder: embedder,
		logger:   logger,
	}
}

// Run brings the stored corpus to CorpusVersion. When the stored version
// already matches, it only ensures the index exists. Run must complete before
// the service accepts traffic.
func (s *Service) Run(ctx context.Context) error {
	current, err := s.corpus.Version(ctx)
	if err != nil {
		return fmt.Errorf("read corpus version: %w", err)
	}

	if current == CorpusVersion {
		s.logger.Info("Corpus up to date", zap.Int("version", current))
		return s.corpus.EnsureIndex(ctx)
	}

	if current > 0 {
		s.logger.Info("Corpus version changed, reseeding",
			zap.Int("stored", current),
			zap.Int("target", CorpusVersion))
		if err := s.corpus.ResetIndex(ctx); err != nil {
			return fmt.Errorf("reset corpus: %w", err)
		}
	} else {
		s.logger.Info("Seeding corpus", zap.Int("version", CorpusVersion))
		if err := s.corpus.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}

	texts := CanonicalPractices()

	res, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed practices: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(res.Embeddings), len(texts))
	}

	practices := make([]domain.BestPractice, len(texts))
	for i, text := range texts {
		p, err := domain.NewBestPractice(fmt.Sprintf("practice_%d", i), text, res.Embeddings[i])
		if err != nil {
			return fmt.Errorf("practice %d: %w", i, err)
		}
		practices[i] = p
	}

	if err := s.corpus.Upsert(ctx, practices); err != nil {
		return fmt.Errorf("store practices: %w", err)
	}

	if err := s.corpus.SetVersion(ctx, CorpusVersion); err != nil {
		return fmt.Errorf("record corpus version: %w", err)
	}

	s.logger.Info("Corpus seeded",
		zap.Int("practices", len(practices)),
		zap.Int("version", CorpusVersion),
		zap.Int("tokens", res.TotalTokens))
	return nil
}

// CanonicalPractices returns the seed corpus in id order (practice_0 ..
// practice_12).
func CanonicalPractices() []string {
	return []string{
		"Use primary keywords in the product title first 50 characters",
		"Include secondary keywords in bullet points and description",
		"Keep title under 200 characters for mobile optimization",
		"Write bullet points that focus on benefits not just features",
		"Use emotional language that connects with customer pain points",
		"Include size charts and measurement guides for apparel",
		"Add comparison charts against competitor products",
		"Use A+ content for brand storytelling",
		"Include customer reviews and testimonials in listing",
		"Optimize backend search terms with relevant keywords",
		"Use clear, scannable formatting with line breaks",
		"Address common customer objections in the description",
		"Include warranty and guarantee information prominently",
	}
}
