// Package delivery provides CodeDelivery adapters for the engine: a
// Postmark-backed sender for production email and a writer-backed sender for
// development and tests.
package delivery
