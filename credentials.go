package gatekit

import "strings"

const minPasswordBytes = 8

// EmailAddress defines a public type used by gatekit APIs.
//
// EmailAddress instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EmailAddress struct {
	value string
}

// ParseEmailAddress describes the parseemailaddress operation and its observable behavior.
//
// ParseEmailAddress may return an error when input validation, dependency calls, or security checks fail.
// ParseEmailAddress does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ParseEmailAddress(raw string) (EmailAddress, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return EmailAddress{}, ErrInvalidInput
	}
	if !strings.Contains(normalized, "@") {
		return EmailAddress{}, ErrInvalidInput
	}
	return EmailAddress{value: normalized}, nil
}

// String returns the normalized address. Equality on EmailAddress values is
// equality of this form.
func (e EmailAddress) String() string {
	return e.value
}

// IsZero describes the iszero operation and its observable behavior.
//
// IsZero may return an error when input validation, dependency calls, or security checks fail.
// IsZero does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e EmailAddress) IsZero() bool {
	return e.value == ""
}

// Password defines a public type used by gatekit APIs.
//
// Password instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Password struct {
	value string
}

// ParsePassword describes the parsepassword operation and its observable behavior.
//
// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
// ParsePassword may return an error when input validation, dependency calls, or security checks fail.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < minPasswordBytes {
		return Password{}, ErrInvalidInput
	}
	return Password{value: raw}, nil
}

// Reveal returns the raw secret for hashing or verification. The value must
// not be stored, logged, or placed in audit metadata.
func (p Password) Reveal() string {
	return p.value
}

// String masks the secret so accidental formatting cannot leak it.
func (p Password) String() string {
	return "********"
}
