// Package otel bridges engine metrics into OpenTelemetry observable
// instruments via a registered callback.
package otel
