// Package prometheus renders engine metrics in Prometheus text exposition
// format without importing the Prometheus client library.
package prometheus
