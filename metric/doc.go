// Package metric provides Prometheus-based metrics for the WheelChock
// communication library.
//
// Core metrics cover the pub/sub data path: messages published, received,
// and dropped, send errors, and open connections, labelled by transport
// kind. A small HTTP server exposes the metrics in Prometheus format
// together with a health endpoint.
//
// Metrics are optional throughout the library: publishers and subscribers
// accept a *Metrics via functional options and fall back to no-ops when
// none is given.
package metric
