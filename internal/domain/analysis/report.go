// Package analysis holds the canonical listing-analysis outcome and the
// normalization of raw model output into it.
package analysis

// Mode discriminates the three render modes of a report. Exactly one is
// active per report.
type Mode int

const (
	// ModeStructured carries the four per-criterion sections, scores, and
	// improvement suggestions parsed from well-formed model output.
	ModeStructured Mode = iota
	// ModeFreeText carries the raw completion text when it could not be
	// structured. Still a successful analysis from the caller's view.
	ModeFreeText
	// ModeError carries only a failure message from a terminal completion error.
	ModeError
)

// Scores are the 0-100 ratings produced by the model.
type Scores struct {
	Keyword     int
	Readability int
	Compliance  int
	Overall     int
}

// Sections are the four per-criterion analysis texts.
type Sections struct {
	Keyword     string
	Readability string
	Competitor  string
	Compliance  string
}

// Report is the canonical analysis outcome returned for every request.
type Report struct {
	mode         Mode
	scores       Scores
	sections     Sections
	improvements []string
	practices    []string
	rawText      string
	message      string
}

// NewStructured creates a report from fully parsed model output.
func NewStructured(scores Scores, sections Sections, improvements, practices []string) Report {
	return Report{
		mode:         ModeStructured,
		scores:       scores,
		sections:     sections,
		improvements: improvements,
		practices:    practices,
	}
}

// NewFreeText creates the degraded-but-successful report that carries the raw
// completion text forward.
func NewFreeText(rawText string, practices []string) Report {
	return Report{
		mode:      ModeFreeText,
		rawText:   rawText,
		practices: practices,
	}
}

// NewError creates the terminal error report for a failed completion call.
func NewError(message string) Report {
	return Report{mode: ModeError, message: message}
}

// Mode returns the active render mode.
func (r *Report) Mode() Mode { return r.mode }

// Scores returns the model ratings. Zero-valued outside ModeStructured.
func (r *Report) Scores() Scores { return r.scores }

// Sections returns the per-criterion analysis texts.
func (r *Report) Sections() Sections { return r.sections }

// Improvements returns the ordered improvement suggestions.
func (r *Report) Improvements() []string { return r.improvements }

// Practices returns the best-practice evidence the analysis was grounded on.
func (r *Report) Practices() []string { return r.practices }

// RawText returns the unparsed completion text (ModeFreeText only).
func (r *Report) RawText() string { return r.rawText }

// Message returns the failure description (ModeError only).
func (r *Report) Message() string { return r.message }
