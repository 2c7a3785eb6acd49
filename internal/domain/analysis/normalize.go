package analysis

import "encoding/json"

// Sentinel texts rendered on the degraded path. Stable contract: clients and
// tests rely on the exact strings.
const (
	// UnexpectedFormatText fills the four section fields when the model
	// response could not be parsed.
	UnexpectedFormatText = "Analysis completed but format was unexpected"
	// CheckRawAnalysisText is the single improvement suggestion on the
	// degraded path.
	CheckRawAnalysisText = "Check the raw analysis for specific suggestions"
)

// modelOutput mirrors the JSON schema the prompt instructs the model to emit.
type modelOutput struct {
	KeywordScore        int      `json:"keyword_score"`
	ReadabilityScore    int      `json:"readability_score"`
	ComplianceScore     int      `json:"compliance_score"`
	OverallScore        int      `json:"overall_score"`
	KeywordAnalysis     string   `json:"keyword_analysis"`
	ReadabilityAnalysis string   `json:"readability_analysis"`
	CompetitorAnalysis  string   `json:"competitor_analysis"`
	ComplianceAnalysis  string   `json:"compliance_analysis"`
	TopImprovements     []string `json:"top_improvements"`
}

// structured reports whether all four section texts are present.
func (o *modelOutput) structured() bool {
	return o.KeywordAnalysis != "" &&
		o.ReadabilityAnalysis != "" &&
		o.CompetitorAnalysis != "" &&
		o.ComplianceAnalysis != ""
}

// Normalize parses raw completion text into a Report. The evidence list is
// authoritative from the pipeline: whatever the model produced for
// best_practices_used is discarded.
//
// Normalize never fails: text that is not the expected JSON shape yields a
// free-text report that still carries the raw text forward, so callers always
// receive a stable schema.
func Normalize(raw string, practices []string) Report {
	var out modelOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil || !out.structured() {
		return NewFreeText(raw, practices)
	}

	return NewStructured(
		Scores{
			Keyword:     out.KeywordScore,
			Readability: out.ReadabilityScore,
			Compliance:  out.ComplianceScore,
			Overall:     out.OverallScore,
		},
		Sections{
			Keyword:     out.KeywordAnalysis,
			Readability: out.ReadabilityAnalysis,
			Competitor:  out.CompetitorAnalysis,
			Compliance:  out.ComplianceAnalysis,
		},
		out.TopImprovements,
		practices,
	)
}
