package gatekit

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeRecordVersion1 = 1

// RedisChallengeStore is a [ChallengeStore] backed by Redis. Records are
// stored under prefix:email with a key TTL matching the challenge expiry;
// Consume runs under WATCH so concurrent confirmations for the same email
// cannot double-spend a code.
type RedisChallengeStore struct {
	redis       redis.UniversalClient
	prefix      string
	maxAttempts int
}

// NewRedisChallengeStore describes the newredischallengestore operation and its observable behavior.
//
// NewRedisChallengeStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisChallengeStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisChallengeStore(redisClient redis.UniversalClient, prefix string, maxAttempts int) *RedisChallengeStore {
	if prefix == "" {
		prefix = "otc"
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RedisChallengeStore{
		redis:       redisClient,
		prefix:      prefix,
		maxAttempts: maxAttempts,
	}
}

func (s *RedisChallengeStore) key(email EmailAddress) string {
	return s.prefix + ":" + email.String()
}

// Put describes the put operation and its observable behavior.
//
// Put may return an error when input validation, dependency calls, or security checks fail.
// Put does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisChallengeStore) Put(ctx context.Context, email EmailAddress, record ChallengeRecord) error {
	encoded, err := encodeChallengeRecord(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: challenge already expired", ErrUnexpected)
	}

	if err := s.redis.Set(ctx, s.key(email), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisChallengeStore) Consume(
	ctx context.Context,
	email EmailAddress,
	challengeID string,
	codeDigest [32]byte,
) (ChallengeRecord, error) {
	const maxRetries = 4
	key := s.key(email)

	for i := 0; i < maxRetries; i++ {
		var consumed ChallengeRecord
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeChallengeRecord(data)
			if err != nil {
				return err
			}
			if time.Now().After(record.ExpiresAt) {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return ErrChallengeNotFound
			}

			if !challengePairMatches(record, challengeID, codeDigest) {
				record.Attempts++
				if int(record.Attempts) >= s.maxAttempts {
					_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
						pipe.Del(ctx, key)
						return nil
					})
					if err != nil {
						return err
					}
					return ErrChallengeAttempts
				}

				ttl := time.Until(record.ExpiresAt)
				updated, err := encodeChallengeRecord(record)
				if err != nil {
					return err
				}
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Set(ctx, key, updated, ttl)
					return nil
				})
				if err != nil {
					return err
				}
				return ErrChallengeMismatch
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}
			consumed = record
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ChallengeRecord{}, ErrChallengeNotFound
			}
			if errors.Is(err, ErrChallengeNotFound) ||
				errors.Is(err, ErrChallengeMismatch) ||
				errors.Is(err, ErrChallengeAttempts) {
				return ChallengeRecord{}, err
			}
			return ChallengeRecord{}, fmt.Errorf("%w: %v", ErrUnexpected, err)
		}
		return consumed, nil
	}

	return ChallengeRecord{}, ErrChallengeNotFound
}

func encodeChallengeRecord(record ChallengeRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(challengeRecordVersion1)

	if err := binary.Write(&buf, binary.BigEndian, record.Attempts); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.IssuedAt.Unix()); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt.Unix()); err != nil {
		return nil, err
	}
	buf.Write(record.CodeDigest[:])

	if len(record.ChallengeID) > 65535 {
		return nil, errors.New("challenge id length exceeded")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.ChallengeID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.ChallengeID)

	return buf.Bytes(), nil
}

func decodeChallengeRecord(data []byte) (ChallengeRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return ChallengeRecord{}, err
	}
	if version != challengeRecordVersion1 {
		return ChallengeRecord{}, errors.New("invalid challenge record version")
	}

	var record ChallengeRecord
	if err := binary.Read(reader, binary.BigEndian, &record.Attempts); err != nil {
		return ChallengeRecord{}, err
	}

	var issuedAt, expiresAt int64
	if err := binary.Read(reader, binary.BigEndian, &issuedAt); err != nil {
		return ChallengeRecord{}, err
	}
	if err := binary.Read(reader, binary.BigEndian, &expiresAt); err != nil {
		return ChallengeRecord{}, err
	}
	record.IssuedAt = time.Unix(issuedAt, 0)
	record.ExpiresAt = time.Unix(expiresAt, 0)

	if _, err := io.ReadFull(reader, record.CodeDigest[:]); err != nil {
		return ChallengeRecord{}, err
	}

	var idLen uint16
	if err := binary.Read(reader, binary.BigEndian, &idLen); err != nil {
		return ChallengeRecord{}, err
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(reader, id); err != nil {
		return ChallengeRecord{}, err
	}
	record.ChallengeID = string(id)

	return record, nil
}
