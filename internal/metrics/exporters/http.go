// Package exporters exposes the process metrics over HTTP.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns the Prometheus metrics HTTP handler serving every
// promauto-registered collector.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
