package analysis

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
	domanalysis "github.com/kailas-cloud/listwise/internal/domain/analysis"
)

// --- Mocks ---

type mockRetriever struct {
	practices []string
	lastQuery string
	lastK     int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, k int) []string {
	m.lastQuery = query
	m.lastK = k
	return m.practices
}

type mockCompleter struct {
	raw        string
	err        error
	lastPrompt string
	calls      int
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.raw, nil
}

func mustListing(t *testing.T) domain.Listing {
	t.Helper()
	l, err := domain.NewListing("Wireless Mouse", "Quiet ergonomic mouse")
	if err != nil {
		t.Fatalf("NewListing: %v", err)
	}
	return l
}

// --- Tests ---

func TestAnalyze_Structured(t *testing.T) {
	retriever := &mockRetriever{practices: []string{"p1", "p2"}}
	completer := &mockCompleter{raw: `{
		"keyword_score": 70, "readability_score": 80, "compliance_score": 60, "overall_score": 71,
		"keyword_analysis": "ka", "readability_analysis": "ra",
		"competitor_analysis": "ca", "compliance_analysis": "cpa",
		"top_improvements": ["i1"]
	}`}
	svc := New(retriever, completer, 5, zap.NewNop())

	report := svc.Analyze(context.Background(), mustListing(t))

	if report.Mode() != domanalysis.ModeStructured {
		t.Fatalf("Mode() = %v, want ModeStructured", report.Mode())
	}
	if report.Scores().Overall != 71 {
		t.Errorf("Overall = %d", report.Scores().Overall)
	}
	if got := report.Practices(); len(got) != 2 || got[0] != "p1" {
		t.Errorf("Practices() = %v", got)
	}
	if retriever.lastQuery != "Wireless Mouse Quiet ergonomic mouse" {
		t.Errorf("retrieval query = %q", retriever.lastQuery)
	}
	if retriever.lastK != 5 {
		t.Errorf("k = %d, want 5", retriever.lastK)
	}
}

func TestAnalyze_PromptCarriesListingAndPractices(t *testing.T) {
	retriever := &mockRetriever{practices: []string{"use keywords early"}}
	completer := &mockCompleter{raw: "whatever"}
	svc := New(retriever, completer, 5, zap.NewNop())

	svc.Analyze(context.Background(), mustListing(t))

	for _, want := range []string{
		"PRODUCT TITLE: Wireless Mouse",
		"PRODUCT DESCRIPTION: Quiet ergonomic mouse",
		"- use keywords early",
	} {
		if !strings.Contains(completer.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyze_UnparseableOutput(t *testing.T) {
	retriever := &mockRetriever{practices: []string{"p1"}}
	completer := &mockCompleter{raw: "not json"}
	svc := New(retriever, completer, 5, zap.NewNop())

	report := svc.Analyze(context.Background(), mustListing(t))

	if report.Mode() != domanalysis.ModeFreeText {
		t.Fatalf("Mode() = %v, want ModeFreeText", report.Mode())
	}
	if report.RawText() != "not json" {
		t.Errorf("RawText() = %q", report.RawText())
	}
	if len(report.Practices()) != 1 {
		t.Errorf("Practices() = %v", report.Practices())
	}
}

func TestAnalyze_CompletionHTTPError(t *testing.T) {
	retriever := &mockRetriever{practices: []string{"p1"}}
	completer := &mockCompleter{err: domain.NewCompletionHTTPError(500, "backend blew up")}
	svc := New(retriever, completer, 5, zap.NewNop())

	report := svc.Analyze(context.Background(), mustListing(t))

	if report.Mode() != domanalysis.ModeError {
		t.Fatalf("Mode() = %v, want ModeError", report.Mode())
	}
	if !strings.Contains(report.Message(), "500") {
		t.Errorf("Message() = %q, want it to contain the status code", report.Message())
	}
	if completer.calls != 1 {
		t.Errorf("Complete called %d times, want exactly 1", completer.calls)
	}
}

func TestAnalyze_CompletionTransportError(t *testing.T) {
	retriever := &mockRetriever{practices: []string{"p1"}}
	completer := &mockCompleter{err: domain.NewCompletionTransportError("connection refused")}
	svc := New(retriever, completer, 5, zap.NewNop())

	report := svc.Analyze(context.Background(), mustListing(t))

	if report.Mode() != domanalysis.ModeError {
		t.Fatalf("Mode() = %v, want ModeError", report.Mode())
	}
	if report.Message() != "analysis failed: connection refused" {
		t.Errorf("Message() = %q", report.Message())
	}
}
