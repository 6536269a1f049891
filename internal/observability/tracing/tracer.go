package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation name of the vacuna-catalog application.
const tracerName = "vacuna-catalog"

// GetTracer returns a tracer from the current global provider for creating spans.
// It is resolved on each call so that providers installed later take effect.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InitProvider installs an SDK tracer provider whose finished spans are written
// to logger at debug level. The returned function flushes and shuts the provider down.
func InitProvider(logger *slog.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// logSpanProcessor logs ended spans. It keeps no state.
type logSpanProcessor struct {
	logger *slog.Logger
}

func (p *logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	level := slog.LevelDebug
	if s.Status().Code == codes.Error {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("span", s.Name()),
		slog.String("trace_id", s.SpanContext().TraceID().String()),
		slog.Duration("duration", s.EndTime().Sub(s.StartTime())),
	}
	if s.Status().Description != "" {
		attrs = append(attrs, slog.String("status", s.Status().Description))
	}
	p.logger.LogAttrs(context.Background(), level, "span finished", attrs...)
}

func (p *logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(context.Context) error { return nil }
