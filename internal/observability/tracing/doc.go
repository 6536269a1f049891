// Package tracing provides OpenTelemetry tracing integration.
//
// Every store transaction runs inside a span named after its operation.
// InitProvider installs an SDK provider that reports finished spans through slog,
// so slow or failed transactions show up in the console log at debug level.
//
// Example usage:
//
//	import "vacuna-catalog/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.InitProvider(logger)
//	    defer func() { _ = shutdown(context.Background()) }()
//	}
//
//	func addVaccine(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "tx.add_vaccine")
//	    defer span.End()
//	}
package tracing
