package gatekit

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// MemoryCredentialStore is the reference in-process [CredentialStore]: a map
// keyed by normalized email behind a RWMutex. It holds accounts for the
// process lifetime.
type MemoryCredentialStore struct {
	mu         sync.RWMutex
	identities map[string]Identity
}

// NewMemoryCredentialStore describes the newmemorycredentialstore operation and its observable behavior.
//
// NewMemoryCredentialStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryCredentialStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		identities: make(map[string]Identity),
	}
}

// Create describes the create operation and its observable behavior.
//
// Create may return an error when input validation, dependency calls, or security checks fail.
// Create does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialStore) Create(_ context.Context, identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identity.Email.String()
	if _, exists := s.identities[key]; exists {
		return ErrStoreDuplicateEmail
	}
	s.identities[key] = identity
	return nil
}

// Lookup describes the lookup operation and its observable behavior.
//
// Lookup may return an error when input validation, dependency calls, or security checks fail.
// Lookup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialStore) Lookup(_ context.Context, email EmailAddress) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, exists := s.identities[email.String()]
	if !exists {
		return Identity{}, ErrStoreEmailNotFound
	}
	return identity, nil
}

// MemoryChallengeStore is the reference in-process [ChallengeStore]. One
// slot per email; Put overwrites, Consume deletes.
type MemoryChallengeStore struct {
	mu          sync.Mutex
	slots       map[string]ChallengeRecord
	maxAttempts int
}

// NewMemoryChallengeStore describes the newmemorychallengestore operation and its observable behavior.
//
// NewMemoryChallengeStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryChallengeStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryChallengeStore(maxAttempts int) *MemoryChallengeStore {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MemoryChallengeStore{
		slots:       make(map[string]ChallengeRecord),
		maxAttempts: maxAttempts,
	}
}

// Put describes the put operation and its observable behavior.
//
// Put may return an error when input validation, dependency calls, or security checks fail.
// Put does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryChallengeStore) Put(_ context.Context, email EmailAddress, record ChallengeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[email.String()] = record
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryChallengeStore) Consume(
	_ context.Context,
	email EmailAddress,
	challengeID string,
	codeDigest [32]byte,
) (ChallengeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := email.String()
	record, exists := s.slots[key]
	if !exists {
		return ChallengeRecord{}, ErrChallengeNotFound
	}
	if time.Now().After(record.ExpiresAt) {
		delete(s.slots, key)
		return ChallengeRecord{}, ErrChallengeNotFound
	}

	if !challengePairMatches(record, challengeID, codeDigest) {
		record.Attempts++
		if int(record.Attempts) >= s.maxAttempts {
			delete(s.slots, key)
			return ChallengeRecord{}, ErrChallengeAttempts
		}
		s.slots[key] = record
		return ChallengeRecord{}, ErrChallengeMismatch
	}

	delete(s.slots, key)
	return record, nil
}

// MemoryRevocationList is the reference in-process [RevocationList]: a set
// of serialized tokens held for the process lifetime. Entries are never
// dropped; expired tokens are rejected by signature checks before the ledger
// is consulted.
type MemoryRevocationList struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryRevocationList describes the newmemoryrevocationlist operation and its observable behavior.
//
// NewMemoryRevocationList may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryRevocationList does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		revoked: make(map[string]struct{}),
	}
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
// Revoke does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryRevocationList) Revoke(_ context.Context, token string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.revoked[token]; exists {
		return false, nil
	}
	s.revoked[token] = struct{}{}
	return true, nil
}

// IsRevoked describes the isrevoked operation and its observable behavior.
//
// IsRevoked may return an error when input validation, dependency calls, or security checks fail.
// IsRevoked does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryRevocationList) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.revoked[token]
	return exists, nil
}

func challengePairMatches(record ChallengeRecord, challengeID string, codeDigest [32]byte) bool {
	idMatch := subtle.ConstantTimeCompare([]byte(record.ChallengeID), []byte(challengeID)) == 1
	codeMatch := subtle.ConstantTimeCompare(record.CodeDigest[:], codeDigest[:]) == 1
	return idMatch && codeMatch
}
