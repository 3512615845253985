// Package internal holds cryptographic helpers shared by the engine and its
// stores: one-time code generation and secret digesting. Nothing here is part
// of the public API.
package internal
