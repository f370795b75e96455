// Package tracetest asserts the shape of recorded trace data in tests.
//
// Spans are arranged into trees by parent ID and compared against an
// Expected tree. In non-strict mode expected attributes, events and children
// only need to be present. In strict mode they must match exactly. The
// number of root spans must match in both modes.
package tracetest

// SpanKind is the role of a span in a trace.
type SpanKind int

const (
	KindUnset SpanKind = iota // not checked in expectations
	KindInternal
	KindServer
	KindClient
	KindProducer
	KindConsumer
)

// String returns a human-readable kind name.
func (k SpanKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindProducer:
		return "producer"
	case KindConsumer:
		return "consumer"
	default:
		return "unset"
	}
}

// StatusCode is the outcome of a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// String returns a human-readable status name.
func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Status is a status code with an optional description.
type Status struct {
	Code        StatusCode
	Description string
}

// Event is a named, attributed point in time within a span.
type Event struct {
	Name       string
	Attributes map[string]any
}

// Span is one recorded span. Spans without a ParentID, or whose parent is
// not among the recorded spans, are roots.
type Span struct {
	ID         string
	ParentID   string
	Name       string
	Kind       SpanKind
	Attributes map[string]any
	Status     Status
	Events     []Event
}

// Expected describes a span in an expected trace tree. Zero Kind, nil
// Status and nil Attributes, Events or Children are not checked.
type Expected struct {
	Name       string
	Kind       SpanKind
	Attributes map[string]any
	Events     []ExpectedEvent
	Status     *Status
	Children   []Expected
}

// ExpectedEvent describes an event of an expected span.
type ExpectedEvent struct {
	Name       string
	Attributes map[string]any
}
