// Package stream converts a finished analysis report into the ordered event
// sequence delivered over SSE.
package stream

import (
	"context"
	"time"

	"github.com/kailas-cloud/listwise/internal/domain/analysis"
)

// Event types, emitted in this order on the structured path. Every stream
// ends with exactly one terminal event: EventComplete or EventError.
const (
	EventAnalysis    = "analysis"
	EventKeyword     = "keyword_analysis"
	EventReadability = "readability_analysis"
	EventCompetitor  = "competitor_analysis"
	EventCompliance  = "compliance_analysis"
	EventImprove     = "improvements"
	EventPractices   = "best_practices"
	EventComplete    = "complete"
	EventError       = "error"
)

// Event is a single frame of the analysis stream.
type Event struct {
	Type    string `json:"type"`
	Content any    `json:"content,omitempty"`
}

// Emitter paces report sections into an event stream.
type Emitter struct {
	delay time.Duration
}

// NewEmitter creates an emitter that waits delay after each section event,
// giving clients a progressive-rendering effect.
func NewEmitter(delay time.Duration) *Emitter {
	return &Emitter{delay: delay}
}

// Events returns a channel producing the event sequence for a report. The
// channel is closed after the terminal event. Emission is a pure function of
// the report: calling Events again on the same report yields the identical
// sequence. Cancelling ctx stops the stream early.
//
// Structured reports produce exactly seven events: the four sections,
// improvements, best practices, and complete. Free-text reports produce the
// raw analysis followed by complete. Error reports produce a single error
// event.
func (e *Emitter) Events(ctx context.Context, report analysis.Report) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)

		switch report.Mode() {
		case analysis.ModeError:
			e.send(ctx, out, Event{Type: EventError, Content: report.Message()})
			return

		case analysis.ModeFreeText:
			if !e.send(ctx, out, Event{Type: EventAnalysis, Content: report.RawText()}) {
				return
			}

		default:
			sections := report.Sections()
			parts := []Event{
				{Type: EventKeyword, Content: sections.Keyword},
				{Type: EventReadability, Content: sections.Readability},
				{Type: EventCompetitor, Content: sections.Competitor},
				{Type: EventCompliance, Content: sections.Compliance},
			}
			for _, ev := range parts {
				if !e.send(ctx, out, ev) {
					return
				}
				if !e.pace(ctx) {
					return
				}
			}
			if !e.send(ctx, out, Event{Type: EventImprove, Content: report.Improvements()}) {
				return
			}
			if !e.send(ctx, out, Event{Type: EventPractices, Content: report.Practices()}) {
				return
			}
		}

		e.send(ctx, out, Event{Type: EventComplete})
	}()

	return out
}

// send delivers ev unless ctx is cancelled first.
func (e *Emitter) send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// pace sleeps the inter-section delay, honoring cancellation.
func (e *Emitter) pace(ctx context.Context) bool {
	if e.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(e.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
