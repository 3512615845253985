package gatekit

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevocationList is a [RevocationList] backed by Redis. Tokens are
// recorded under prefix:digest with a key TTL running to the token expiry;
// after that the signature check rejects the token anyway. The digest keeps
// keys short and keeps raw tokens out of the keyspace.
type RedisRevocationList struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisRevocationList describes the newredisrevocationlist operation and its observable behavior.
//
// NewRedisRevocationList may return an error when input validation, dependency calls, or security checks fail.
// NewRedisRevocationList does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisRevocationList(redisClient redis.UniversalClient, prefix string) *RedisRevocationList {
	if prefix == "" {
		prefix = "rvk"
	}
	return &RedisRevocationList{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RedisRevocationList) key(token string) string {
	digest := sha256.Sum256([]byte(token))
	return s.prefix + ":" + base64.RawURLEncoding.EncodeToString(digest[:])
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
// Revoke does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisRevocationList) Revoke(ctx context.Context, token string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return false, errors.New("token already expired")
	}

	added, err := s.redis.SetNX(ctx, s.key(token), []byte{1}, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return added, nil
}

// IsRevoked describes the isrevoked operation and its observable behavior.
//
// IsRevoked may return an error when input validation, dependency calls, or security checks fail.
// IsRevoked does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return n > 0, nil
}
