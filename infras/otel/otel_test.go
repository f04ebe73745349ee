package otel_test

import (
	"context"
	"errors"
	"testing"
	"vcardops/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))

	_, scope := tracer.NewScope(context.Background(), "service", "service.Charge")
	scope.SetAttributes(map[string]any{
		"gateway":        "stripe",
		"reservation_id": int64(42),
		"confirmed":      true,
	})
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("card declined"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "service.Charge", span.Name())
	assert.Equal(t, "service", span.InstrumentationScope().Name)
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "card declined", span.Status().Description)
	assert.Contains(t, span.Attributes(), attribute.String("gateway", "stripe"))
	assert.Contains(t, span.Attributes(), attribute.Int64("reservation_id", 42))
	assert.Contains(t, span.Attributes(), attribute.Bool("confirmed", true))
	require.Len(t, span.Events(), 1)
}

func TestScope_NestsUnderParent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tracer := otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder)))

	ctx, parent := tracer.NewScope(context.Background(), "handler", "handler.Charge")
	_, child := tracer.NewScope(ctx, "service", "service.Charge")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
