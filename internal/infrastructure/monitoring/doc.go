// Package monitoring exposes Prometheus metrics for the HTTP surface, the
// catalog refresh loop, and the request ledger.
package monitoring
