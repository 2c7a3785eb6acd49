// Package retrieval finds the best practices most relevant to a listing.
// It degrades to a static default list instead of failing: a broken vector
// path must never block an analysis.
package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/metrics"
)

// Service performs semantic retrieval with a static fallback.
type Service struct {
	embedder Embedder
	corpus   Corpus
	logger   *zap.Logger
}

// New creates the retrieval service.
func New(embedder Embedder, corpus Corpus, logger *zap.Logger) *Service {
	return &Service{
		embedder: embedder,
		corpus:   corpus,
		logger:   logger,
	}
}

// Retrieve returns the k practices closest to the query, most similar first.
// On any failure it logs, counts the fallback, and returns DefaultPractices;
// it never returns an error.
func (s *Service) Retrieve(ctx context.Context, query string, k int) []string {
	res, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.fallback("embed", err)
		return DefaultPractices()
	}

	texts, err := s.corpus.Query(ctx, res.Embedding, k)
	if err != nil {
		s.fallback("query", err)
		return DefaultPractices()
	}

	if len(texts) == 0 {
		s.fallback("empty", nil)
		return DefaultPractices()
	}

	return texts
}

func (s *Service) fallback(reason string, err error) {
	metrics.RetrievalFallbacksTotal.WithLabelValues(reason).Inc()
	if err != nil {
		s.logger.Warn("Retrieval degraded to default practices",
			zap.String("reason", reason),
			zap.Error(err))
		return
	}
	s.logger.Warn("Retrieval degraded to default practices",
		zap.String("reason", reason))
}

// DefaultPractices returns the static list used when retrieval is
// unavailable. Callers receive a fresh copy.
func DefaultPractices() []string {
	return []string{
		"Use primary keywords in the product title first 50 characters",
		"Include secondary keywords in bullet points and description",
		"Keep title under 200 characters for mobile optimization",
		"Use all available image slots with high-quality photos",
		"Write bullet points that focus on benefits not just features",
	}
}
