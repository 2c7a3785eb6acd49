package chi

import (
	"github.com/kailas-cloud/listwise/internal/domain/analysis"
)

// analyzeRequest is the body of POST /analyze and POST /analyze-stream.
type analyzeRequest struct {
	ProductTitle       string `json:"product_title"`
	ProductDescription string `json:"product_description"`
}

// analysisResponse is the flat JSON envelope of POST /analyze. Every outcome
// renders into the same shape; which fields are populated depends on how the
// analysis went.
type analysisResponse struct {
	Status string `json:"status"`

	KeywordScore     *int `json:"keyword_score,omitempty"`
	ReadabilityScore *int `json:"readability_score,omitempty"`
	ComplianceScore  *int `json:"compliance_score,omitempty"`
	OverallScore     *int `json:"overall_score,omitempty"`

	KeywordAnalysis     string `json:"keyword_analysis,omitempty"`
	ReadabilityAnalysis string `json:"readability_analysis,omitempty"`
	CompetitorAnalysis  string `json:"competitor_analysis,omitempty"`
	ComplianceAnalysis  string `json:"compliance_analysis,omitempty"`

	TopImprovements   []string `json:"top_improvements,omitempty"`
	BestPracticesUsed []string `json:"best_practices_used,omitempty"`

	// Analysis carries the raw completion text on the degraded path only.
	Analysis string `json:"analysis,omitempty"`

	// Message carries the failure description on the error path only.
	Message string `json:"message,omitempty"`
}

// errorResponse is the envelope for transport-level failures (bad input,
// auth). Pipeline failures render through analysisResponse instead.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes for transport-level failures.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeInternalError    = "internal_error"
)

// reportToResponse flattens a report into the response envelope. Free-text
// reports render with zero scores, the sentinel section texts, and the single
// sentinel improvement, with the raw text under "analysis". Error reports
// carry only status and message.
func reportToResponse(report analysis.Report) analysisResponse {
	switch report.Mode() {
	case analysis.ModeError:
		return analysisResponse{
			Status:  "error",
			Message: report.Message(),
		}

	case analysis.ModeFreeText:
		zero := 0
		return analysisResponse{
			Status:              "success",
			Analysis:            report.RawText(),
			BestPracticesUsed:   report.Practices(),
			KeywordScore:        &zero,
			ReadabilityScore:    &zero,
			ComplianceScore:     &zero,
			OverallScore:        &zero,
			KeywordAnalysis:     analysis.UnexpectedFormatText,
			ReadabilityAnalysis: analysis.UnexpectedFormatText,
			CompetitorAnalysis:  analysis.UnexpectedFormatText,
			ComplianceAnalysis:  analysis.UnexpectedFormatText,
			TopImprovements:     []string{analysis.CheckRawAnalysisText},
		}

	default:
		scores := report.Scores()
		sections := report.Sections()
		return analysisResponse{
			Status:              "success",
			KeywordScore:        &scores.Keyword,
			ReadabilityScore:    &scores.Readability,
			ComplianceScore:     &scores.Compliance,
			OverallScore:        &scores.Overall,
			KeywordAnalysis:     sections.Keyword,
			ReadabilityAnalysis: sections.Readability,
			CompetitorAnalysis:  sections.Competitor,
			ComplianceAnalysis:  sections.Compliance,
			TopImprovements:     report.Improvements(),
			BestPracticesUsed:   report.Practices(),
		}
	}
}
