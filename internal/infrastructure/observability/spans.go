package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "potree-api"

// GetTracer returns the tracer for the potree-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// JobAttributes returns common attributes for job spans.
func JobAttributes(jobID, projectID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("job.id", jobID),
		attribute.String("job.project_id", projectID),
	}
}

// StartJobSpan starts a new span for job pipeline execution.
func StartJobSpan(ctx context.Context, jobID, projectID string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "job.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(JobAttributes(jobID, projectID)...),
	)
	return ctx, span
}

// StartStepSpan starts a new span for one pipeline step.
func StartStepSpan(ctx context.Context, jobID, step string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "job.step."+step,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.String("job.step", step),
		),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
