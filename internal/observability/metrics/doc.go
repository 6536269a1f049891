// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - Store transaction metrics (count by outcome, duration, retries)
//   - Classified store error counts
//   - Business metrics (recommendations linked, menu actions)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the optional /metrics endpoint of the console.
//
// Example usage:
//
//	import "vacuna-catalog/internal/observability/metrics"
//
//	func addVaccine() {
//	    start := time.Now()
//	    // ... run the transaction ...
//	    metrics.RecordTransaction("add_vaccine", true, time.Since(start))
//	}
package metrics
