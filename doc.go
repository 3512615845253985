// Package gatekit provides a credential and session lifecycle engine:
// password registration and login, delivered one-time two-factor codes,
// signed session tokens, token verification, and revocation on logout.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// gatekit is the public surface. It exposes [Engine], [Builder], [Config],
// the store contracts ([CredentialStore], [ChallengeStore], [RevocationList]),
// and value types. Code delivery ([CodeDelivery]) is an outbound collaborator
// the engine calls but never implements beyond the adapters under delivery/.
//
// # What this package must NOT do
//
//   - Expose Redis clients or record encoding details in its public API.
//   - Return, log, or audit a plaintext password or one-time code.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//
// # Performance contract
//
// VerifyToken is the hot path. It performs one signature check, one ledger
// lookup, and one directory lookup; with the in-memory stores it must not
// touch the network.
package gatekit
