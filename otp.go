package gatekit

import (
	"github.com/google/uuid"

	"github.com/gatekit/gatekit/internal"
)

// ChallengeID defines a public type used by gatekit APIs.
//
// ChallengeID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChallengeID struct {
	value string
}

// NewChallengeID describes the newchallengeid operation and its observable behavior.
//
// NewChallengeID may return an error when input validation, dependency calls, or security checks fail.
// NewChallengeID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewChallengeID() ChallengeID {
	return ChallengeID{value: uuid.NewString()}
}

// ParseChallengeID describes the parsechallengeid operation and its observable behavior.
//
// ParseChallengeID may return an error when input validation, dependency calls, or security checks fail.
// ParseChallengeID does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ParseChallengeID(raw string) (ChallengeID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return ChallengeID{}, ErrInvalidInput
	}
	return ChallengeID{value: parsed.String()}, nil
}

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c ChallengeID) String() string {
	return c.value
}

// OneTimeCode defines a public type used by gatekit APIs.
//
// OneTimeCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OneTimeCode struct {
	value string
}

// NewOneTimeCode generates a code of the given number of digits, each drawn
// uniformly from crypto/rand.
func NewOneTimeCode(digits int) (OneTimeCode, error) {
	code, err := internal.NewOTP(digits)
	if err != nil {
		return OneTimeCode{}, err
	}
	return OneTimeCode{value: code}, nil
}

// ParseOneTimeCode describes the parseonetimecode operation and its observable behavior.
//
// ParseOneTimeCode may return an error when input validation, dependency calls, or security checks fail.
// ParseOneTimeCode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ParseOneTimeCode(raw string, digits int) (OneTimeCode, error) {
	if len(raw) != digits {
		return OneTimeCode{}, ErrInvalidInput
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return OneTimeCode{}, ErrInvalidInput
		}
	}
	return OneTimeCode{value: raw}, nil
}

// Reveal returns the raw code for delivery or digesting. The value must not
// be stored, logged, or placed in audit metadata.
func (c OneTimeCode) Reveal() string {
	return c.value
}

// String masks the code so accidental formatting cannot leak it.
func (c OneTimeCode) String() string {
	return "******"
}

// Digest returns the SHA-256 digest stores compare against.
func (c OneTimeCode) Digest() [32]byte {
	return internal.DigestSecret([]byte(c.value))
}
