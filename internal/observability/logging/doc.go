// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Operation ID propagation for every console action
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "vacuna-catalog/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger(os.Stderr, "info")
//	    logger.Info("application started", slog.String("version", "1.0"))
//	}
//
//	func handleOption(ctx context.Context, logger *slog.Logger) {
//	    ctx = logging.NewOperation(ctx, logger, "add_vaccine")
//	    logging.FromContext(ctx).Info("processing option")
//	}
package logging
