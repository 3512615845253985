package gatekit

import "errors"

var (
	// ErrInvalidInput is an exported constant or variable used by the authentication engine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIncorrectCredentials is an exported constant or variable used by the authentication engine.
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	// ErrAccountExists is an exported constant or variable used by the authentication engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrChallengeNotFound is an exported constant or variable used by the authentication engine.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrChallengeMismatch is an exported constant or variable used by the authentication engine.
	ErrChallengeMismatch = errors.New("challenge mismatch")
	// ErrChallengeAttempts is an exported constant or variable used by the authentication engine.
	ErrChallengeAttempts = errors.New("challenge attempts exceeded")
	// ErrTokenMalformed is an exported constant or variable used by the authentication engine.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked is an exported constant or variable used by the authentication engine.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUnexpected is an exported constant or variable used by the authentication engine.
	ErrUnexpected = errors.New("unexpected failure")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrStoreDuplicateEmail is an exported constant or variable used by the authentication engine.
	// Custom CredentialStore implementations must return it from Create when
	// the email is already registered.
	ErrStoreDuplicateEmail = errors.New("store duplicate email")
	// ErrStoreEmailNotFound is an exported constant or variable used by the authentication engine.
	// Custom CredentialStore implementations must return it from Lookup when
	// the email is not registered.
	ErrStoreEmailNotFound = errors.New("store email not found")
)
