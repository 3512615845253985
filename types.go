package gatekit

import (
	"context"
	"time"
)

// Identity is the account record held by a [CredentialStore]. PasswordHash
// carries the PHC-encoded argon2id hash; engine results always return it
// zeroed.
type Identity struct {
	Email        EmailAddress
	PasswordHash string
	TwoFactor    bool
}

// ChallengeRecord is the single pending two-factor slot a [ChallengeStore]
// holds per email. CodeDigest is the SHA-256 digest of the delivered code;
// the plaintext is never persisted.
type ChallengeRecord struct {
	ChallengeID string
	CodeDigest  [32]byte
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Attempts    uint16
}

// CredentialStore is the interface callers implement to back the engine with
// their user database. The shipped [MemoryCredentialStore] is the reference
// implementation.
//
// Create must return [ErrStoreDuplicateEmail] for an already-registered
// email and must never overwrite. Lookup must return [ErrStoreEmailNotFound]
// for an unknown email.
type CredentialStore interface {
	Create(ctx context.Context, identity Identity) error
	Lookup(ctx context.Context, email EmailAddress) (Identity, error)
}

// ChallengeStore holds at most one pending challenge per email.
//
// Put overwrites any existing slot for the email. Consume is atomic: it
// fails [ErrChallengeNotFound] when no live slot exists, fails
// [ErrChallengeMismatch] when the submitted pair does not match the stored
// one (deleting the slot and failing [ErrChallengeAttempts] once the attempt
// cap is reached), and on a match deletes the slot before returning so a
// code can never succeed twice.
type ChallengeStore interface {
	Put(ctx context.Context, email EmailAddress, record ChallengeRecord) error
	Consume(ctx context.Context, email EmailAddress, challengeID string, codeDigest [32]byte) (ChallengeRecord, error)
}

// RevocationList records serialized tokens invalidated before their natural
// expiry.
//
// Revoke returns false when the token was already recorded. Entries must
// survive at least until expiresAt; implementations may drop them afterwards
// because an expired token is rejected by signature checks anyway.
type RevocationList interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// CodeDelivery is the outbound channel for one-time codes. The engine calls
// Deliver with no store locks held; implementations own retries and
// formatting. See the delivery package for adapters.
type CodeDelivery interface {
	Deliver(ctx context.Context, recipient EmailAddress, code OneTimeCode) error
}

// RegisterRequest is the input for [Engine.Register].
type RegisterRequest struct {
	Email     string
	Password  string
	TwoFactor bool
}

// LoginOutcome is returned by [Engine.Authenticate] and
// [Engine.ConfirmChallenge]. It carries a session token when authentication
// completed, or the challenge ID when a second factor is still pending. The
// one-time code itself is never part of the outcome.
type LoginOutcome struct {
	Token string

	TwoFactorRequired bool
	ChallengeID       string
}
