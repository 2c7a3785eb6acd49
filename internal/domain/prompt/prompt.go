// Package prompt renders the analysis prompt sent to the completion provider.
package prompt

import (
	"fmt"
	"strings"
)

// promptTemplate steers the model toward machine-parseable output: the rubric
// names the four criteria and the schema block enumerates the exact field
// names and ranges the normalizer expects.
const promptTemplate = `Analyze this product listing and provide specific, actionable improvement suggestions.

PRODUCT TITLE: %s
PRODUCT DESCRIPTION: %s

RELEVANT BEST PRACTICES:
%s

ANALYSIS CRITERIA:
1. KEYWORD OPTIMIZATION: Check primary/secondary keyword usage, placement, and density
2. READABILITY: Assess clarity, scannability, and emotional appeal
3. COMPETITOR STRENGTHS: Identify missing elements that competitors likely have
4. BEST-PRACTICE COMPLIANCE: Rate compliance with marketplace listing standards

Provide your response in this exact JSON format:
{
    "keyword_score": 0-100,
    "readability_score": 0-100,
    "compliance_score": 0-100,
    "overall_score": 0-100,
    "keyword_analysis": "detailed analysis text",
    "readability_analysis": "detailed analysis text",
    "competitor_analysis": "detailed analysis text",
    "compliance_analysis": "detailed analysis text",
    "top_improvements": ["improvement1", "improvement2", "improvement3", "improvement4", "improvement5"]
}

Be brutally honest and specific with improvements.`

// Compose renders the analysis prompt for a listing and its retrieved
// evidence. Pure: identical inputs always produce an identical string. Title
// and description are embedded verbatim; the model consumes natural language,
// so no escaping is applied.
func Compose(title, description string, practices []string) string {
	bullets := make([]string, len(practices))
	for i, p := range practices {
		bullets[i] = "- " + p
	}
	return fmt.Sprintf(promptTemplate, title, description, strings.Join(bullets, "\n"))
}
