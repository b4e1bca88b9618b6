// Package observability turns bridge lifecycle hooks into Prometheus metrics.
package observability
