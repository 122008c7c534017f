package testmocks

import (
	"context"
	"io"

	"github.com/jamesrr39/go-tracing"
)

// NewTracingContext returns a context carrying a trace and a tracer that discards its output, the way the tracing middleware sets them up
func NewTracingContext() context.Context {
	ctx, _ := NewTracingContextWithTrace()
	return ctx
}

// NewTracingContextWithTrace is NewTracingContext, also returning the trace so the ended spans can be looked at
func NewTracingContextWithTrace() (context.Context, *tracing.Trace) {
	tracer := tracing.NewTracer(io.Discard)
	trace := tracing.StartTrace(tracer, "test")

	ctx := context.WithValue(context.Background(), tracing.TraceCtxKey, trace)
	return context.WithValue(ctx, tracing.TracerCtxKey, tracer), trace
}
