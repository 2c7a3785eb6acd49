package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// AnalyzeStream handles POST /analyze-stream. The pipeline runs to completion
// first; the finished report is then replayed as SSE frames so clients render
// progressively.
func (s *Server) AnalyzeStream(w http.ResponseWriter, r *http.Request) {
	listing, ok := s.decodeListing(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("response writer does not support flushing")
		writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
		return
	}

	report := s.analyzer.Analyze(r.Context(), listing)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range s.streamer.Events(r.Context(), report) {
		payload, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("marshal stream event", zap.String("type", ev.Type), zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			// Client went away; the emitter stops via r.Context().
			s.logger.Debug("stream write failed", zap.Error(err))
			return
		}
		flusher.Flush()
	}
}
