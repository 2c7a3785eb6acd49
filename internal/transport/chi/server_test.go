package chi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listwise/internal/domain"
	"github.com/kailas-cloud/listwise/internal/domain/analysis"
	healthuc "github.com/kailas-cloud/listwise/internal/usecase/health"
	"github.com/kailas-cloud/listwise/internal/usecase/stream"
)

// --- Mocks ---

type mockAnalyzer struct {
	report      analysis.Report
	lastListing domain.Listing
}

func (m *mockAnalyzer) Analyze(_ context.Context, listing domain.Listing) analysis.Report {
	m.lastListing = listing
	return m.report
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type failPinger struct{}

func (failPinger) Ping(context.Context) error { return errors.New("refused") }

func newTestRouter(analyzer Analyzer, pinger healthuc.DBPinger) http.Handler {
	healthSvc := healthuc.New(pinger, nil)
	server := NewServer(analyzer, stream.NewEmitter(0), healthSvc, zap.NewNop())
	r := chirouter.NewRouter()
	server.Register(r)
	return r
}

func structuredReport() analysis.Report {
	return analysis.NewStructured(
		analysis.Scores{Keyword: 70, Readability: 80, Compliance: 60, Overall: 71},
		analysis.Sections{Keyword: "ka", Readability: "ra", Competitor: "ca", Compliance: "cpa"},
		[]string{"i1"},
		[]string{"p1", "p2"},
	)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- /analyze ---

func TestAnalyze_Structured(t *testing.T) {
	analyzer := &mockAnalyzer{report: structuredReport()}
	router := newTestRouter(analyzer, okPinger{})

	rec := postJSON(t, router, "/analyze",
		`{"product_title": "Wireless Mouse", "product_description": "Quiet and ergonomic"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "success" {
		t.Errorf("status = %v", resp["status"])
	}
	if resp["keyword_score"] != float64(70) {
		t.Errorf("keyword_score = %v", resp["keyword_score"])
	}
	if resp["overall_score"] != float64(71) {
		t.Errorf("overall_score = %v", resp["overall_score"])
	}
	if resp["keyword_analysis"] != "ka" {
		t.Errorf("keyword_analysis = %v", resp["keyword_analysis"])
	}
	if _, present := resp["analysis"]; present {
		t.Error("structured response must not carry the raw analysis field")
	}
	if _, present := resp["message"]; present {
		t.Error("successful response must not carry a message field")
	}

	if analyzer.lastListing.Title() != "Wireless Mouse" {
		t.Errorf("listing title = %q", analyzer.lastListing.Title())
	}
}

func TestAnalyze_Degraded(t *testing.T) {
	analyzer := &mockAnalyzer{report: analysis.NewFreeText("not json", []string{"p1"})}
	router := newTestRouter(analyzer, okPinger{})

	rec := postJSON(t, router, "/analyze", `{"product_title": "T", "product_description": "D"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "success" {
		t.Errorf("status = %v, degraded output is still a success", resp["status"])
	}
	if resp["keyword_score"] != float64(0) {
		t.Errorf("keyword_score = %v, want 0", resp["keyword_score"])
	}
	if resp["analysis"] != "not json" {
		t.Errorf("analysis = %v, want the raw text", resp["analysis"])
	}
	if resp["keyword_analysis"] != analysis.UnexpectedFormatText {
		t.Errorf("keyword_analysis = %v", resp["keyword_analysis"])
	}
	improvements, ok := resp["top_improvements"].([]any)
	if !ok || len(improvements) != 1 || improvements[0] != analysis.CheckRawAnalysisText {
		t.Errorf("top_improvements = %v", resp["top_improvements"])
	}
}

func TestAnalyze_PipelineError(t *testing.T) {
	analyzer := &mockAnalyzer{report: analysis.NewError("completion API error: 500 - boom")}
	router := newTestRouter(analyzer, okPinger{})

	rec := postJSON(t, router, "/analyze", `{"product_title": "T", "product_description": "D"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, pipeline errors render in the envelope", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "error" {
		t.Errorf("status = %v", resp["status"])
	}
	if !strings.Contains(resp["message"].(string), "500") {
		t.Errorf("message = %v", resp["message"])
	}
	if _, present := resp["keyword_score"]; present {
		t.Error("error response must not carry scores")
	}
}

func TestAnalyze_Validation(t *testing.T) {
	analyzer := &mockAnalyzer{report: structuredReport()}
	router := newTestRouter(analyzer, okPinger{})

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"product_description": "D"}`},
		{"missing description", `{"product_title": "T"}`},
		{"blank title", `{"product_title": "  ", "product_description": "D"}`},
		{"malformed json", `{"product_title": `},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/analyze", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// --- /analyze-stream ---

func TestAnalyzeStream_Frames(t *testing.T) {
	analyzer := &mockAnalyzer{report: structuredReport()}
	router := newTestRouter(analyzer, okPinger{})

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/analyze-stream", "application/json",
		strings.NewReader(`{"product_title": "T", "product_description": "D"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	var events []stream.Event
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev stream.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("bad frame %q: %v", line, err)
		}
		events = append(events, ev)
	}

	wantTypes := []string{
		stream.EventKeyword, stream.EventReadability, stream.EventCompetitor,
		stream.EventCompliance, stream.EventImprove, stream.EventPractices,
		stream.EventComplete,
	}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(wantTypes), events)
	}
	for i, ev := range events {
		if ev.Type != wantTypes[i] {
			t.Errorf("event[%d].Type = %q, want %q", i, ev.Type, wantTypes[i])
		}
	}
}

func TestAnalyzeStream_Error(t *testing.T) {
	analyzer := &mockAnalyzer{report: analysis.NewError("analysis failed: timeout")}
	router := newTestRouter(analyzer, okPinger{})

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/analyze-stream", "application/json",
		strings.NewReader(`{"product_title": "T", "product_description": "D"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var events []stream.Event
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			var ev stream.Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
				t.Fatalf("bad frame %q: %v", line, err)
			}
			events = append(events, ev)
		}
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1: %v", len(events), events)
	}
	if events[0].Type != stream.EventError {
		t.Errorf("Type = %q", events[0].Type)
	}
	if events[0].Content != "analysis failed: timeout" {
		t.Errorf("Content = %v", events[0].Content)
	}
}

func TestAnalyzeStream_Validation(t *testing.T) {
	analyzer := &mockAnalyzer{report: structuredReport()}
	router := newTestRouter(analyzer, okPinger{})

	rec := postJSON(t, router, "/analyze-stream", `{"product_title": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("validation failure should be plain JSON, got %q", ct)
	}
}

// --- /health ---

func TestHealth_OK(t *testing.T) {
	router := newTestRouter(&mockAnalyzer{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("database = %q", resp.Checks["database"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	router := newTestRouter(&mockAnalyzer{}, failPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
