package pubsub

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/trace"
)

// TraceHeaders carries the trace context of the span that produced a record.
type TraceHeaders struct {
	TraceID    string `json:"trace_id" avro:"trace_id"`
	SpanID     string `json:"span_id" avro:"span_id"`
	TraceFlags string `json:"trace_flags" avro:"trace_flags"`
}

func ExtractTraceFromContext(ctx context.Context) TraceHeaders {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return TraceHeaders{}
	}

	return TraceHeaders{
		TraceID:    spanCtx.TraceID().String(),
		SpanID:     spanCtx.SpanID().String(),
		TraceFlags: strconv.FormatUint(uint64(spanCtx.TraceFlags()), 16),
	}
}
