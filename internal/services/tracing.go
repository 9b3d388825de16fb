package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yukikurage/task-tracker/internal/constants"
)

// Spans go to the globally registered provider, which is a no-op unless
// the binary installs one.
var tracer trace.Tracer = otel.Tracer(constants.ServiceName + "/services")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func taskIDAttr(id uint64) attribute.KeyValue {
	return attribute.Int64("task.id", int64(id))
}
