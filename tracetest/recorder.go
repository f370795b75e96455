package tracetest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Recorder collects finished spans in completion order.
type Recorder struct {
	mu     sync.Mutex
	spans  []Span
	nextID uint64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SpanOption configures a span at start.
type SpanOption func(*Span)

// WithKind sets the span kind. Spans default to KindInternal.
func WithKind(kind SpanKind) SpanOption {
	return func(s *Span) {
		s.Kind = kind
	}
}

// WithAttributes sets initial attributes.
func WithAttributes(attrs map[string]any) SpanOption {
	return func(s *Span) {
		maps.Copy(s.Attributes, attrs)
	}
}

type spanKey struct{}

// ActiveSpan is a started span that has not ended yet.
type ActiveSpan struct {
	mu       sync.Mutex
	recorder *Recorder
	span     Span
	ended    bool
}

// Start begins a span. The span in ctx, if any, becomes its parent.
func (r *Recorder) Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, *ActiveSpan) {
	span := Span{
		ID:         r.newID(),
		Name:       name,
		Kind:       KindInternal,
		Attributes: make(map[string]any),
	}

	if parent, ok := ctx.Value(spanKey{}).(*ActiveSpan); ok {
		span.ParentID = parent.span.ID
	}

	for _, opt := range opts {
		opt(&span)
	}

	active := &ActiveSpan{recorder: r, span: span}

	return context.WithValue(ctx, spanKey{}, active), active
}

// Spans returns a copy of the finished spans.
func (r *Recorder) Spans() []Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.spans)
}

// Reset drops all finished spans.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans = nil
}

func (r *Recorder) newID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++

	return fmt.Sprintf("%016x", r.nextID)
}

// ID returns the span ID.
func (s *ActiveSpan) ID() string { return s.span.ID }

// SetAttribute sets one attribute.
func (s *ActiveSpan) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.span.Attributes[key] = value
}

// AddEvent appends an event.
func (s *ActiveSpan) AddEvent(name string, attrs map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.span.Events = append(s.span.Events, Event{Name: name, Attributes: maps.Clone(attrs)})
}

// SetStatus sets the span status.
func (s *ActiveSpan) SetStatus(code StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.span.Status = Status{Code: code, Description: description}
}

// End finishes the span and hands it to the recorder. Later calls are
// ignored.
func (s *ActiveSpan) End() {
	s.mu.Lock()

	if s.ended {
		s.mu.Unlock()
		return
	}

	s.ended = true
	span := s.span
	span.Attributes = maps.Clone(s.span.Attributes)
	span.Events = slices.Clone(s.span.Events)
	s.mu.Unlock()

	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.recorder.spans = append(s.recorder.spans, span)
}
