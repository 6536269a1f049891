// Package observability provides observability infrastructure
// including structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer and provider setup
//
// Example usage:
//
//	import (
//	    "vacuna-catalog/internal/observability/logging"
//	    "vacuna-catalog/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger(os.Stderr, "info")
//	    logger.Info("application started")
//
//	    metrics.RecordMenuAction("insert_vaccine")
//	}
package observability
