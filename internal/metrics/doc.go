// Package metrics exposes race measurements to Prometheus and reads runtime
// memory statistics for the details view.
package metrics
