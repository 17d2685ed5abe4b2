// Package tracing traces operations as spans with attached baggage.
package tracing

// Tracer starts spans for named operations.
type Tracer interface {
	StartSpan(operationName string) Span
}

// Span is a single in-flight operation. Baggage items attached to the span
// are reported when it finishes.
type Span interface {
	SetBaggageItem(key string, value any)
	Finish()
}

// NopTracer discards all spans.
type NopTracer struct{}

//nolint:ireturn // Implements [Tracer].
func (t NopTracer) StartSpan(_ string) Span {
	return nopSpan{}
}

type nopSpan struct{}

func (s nopSpan) SetBaggageItem(_ string, _ any) {}

func (s nopSpan) Finish() {}
