// Package analysis orchestrates the listing-analysis pipeline: retrieval,
// prompt composition, completion, and normalization.
package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
	domanalysis "github.com/kailas-cloud/listwise/internal/domain/analysis"
	"github.com/kailas-cloud/listwise/internal/domain/prompt"
)

// Service runs the analysis pipeline end to end.
type Service struct {
	retriever Retriever
	completer Completer
	topK      int
	logger    *zap.Logger
}

// New creates the analysis service. topK is the number of best practices
// retrieved per listing.
func New(retriever Retriever, completer Completer, topK int, logger *zap.Logger) *Service {
	return &Service{
		retriever: retriever,
		completer: completer,
		topK:      topK,
		logger:    logger,
	}
}

// Analyze runs the full pipeline for one listing. It always returns a report:
// a failed completion yields an error-mode report rather than a Go error, so
// every caller sees the same three-way outcome.
func (s *Service) Analyze(ctx context.Context, listing domain.Listing) domanalysis.Report {
	practices := s.retriever.Retrieve(ctx, listing.Query(), s.topK)

	p := prompt.Compose(listing.Title(), listing.Description(), practices)

	raw, err := s.completer.Complete(ctx, p)
	if err != nil {
		s.logger.Error("Completion failed", zap.Error(err))
		return domanalysis.NewError(err.Error())
	}

	report := domanalysis.Normalize(raw, practices)
	if report.Mode() == domanalysis.ModeFreeText {
		s.logger.Warn("Model output was not structured, serving raw analysis")
	}
	return report
}
