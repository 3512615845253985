package gatekit

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/gatekit/gatekit/jwt"
	"github.com/gatekit/gatekit/password"
)

// decoyPassword feeds the verification performed when a login targets an
// unknown email, so that path costs the same as a wrong password.
const decoyPassword = "gatekit-decoy-password"

// Builder defines a public type used by gatekit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	credentials CredentialStore
	challenges  ChallengeStore
	revocations RevocationList
	delivery    CodeDelivery
	auditSink   AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis wires Redis-backed challenge and revocation stores. Explicit
// WithChallengeStore / WithRevocationList overrides still win.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore describes the withcredentialstore operation and its observable behavior.
//
// WithCredentialStore may return an error when input validation, dependency calls, or security checks fail.
// WithCredentialStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.credentials = store
	return b
}

// WithChallengeStore describes the withchallengestore operation and its observable behavior.
//
// WithChallengeStore may return an error when input validation, dependency calls, or security checks fail.
// WithChallengeStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithChallengeStore(store ChallengeStore) *Builder {
	b.challenges = store
	return b
}

// WithRevocationList describes the withrevocationlist operation and its observable behavior.
//
// WithRevocationList may return an error when input validation, dependency calls, or security checks fail.
// WithRevocationList does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRevocationList(list RevocationList) *Builder {
	b.revocations = list
	return b
}

// WithDelivery describes the withdelivery operation and its observable behavior.
//
// WithDelivery may return an error when input validation, dependency calls, or security checks fail.
// WithDelivery does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDelivery(d CodeDelivery) *Builder {
	b.delivery = d
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.delivery == nil {
		return nil, errors.New("code delivery required")
	}

	engine := &Engine{
		config: cfg,
	}

	engine.credentials = b.credentials
	if engine.credentials == nil {
		engine.credentials = NewMemoryCredentialStore()
	}

	engine.challenges = b.challenges
	if engine.challenges == nil {
		if b.redis != nil {
			engine.challenges = NewRedisChallengeStore(b.redis, cfg.TwoFactor.RedisPrefix, cfg.TwoFactor.MaxAttempts)
		} else {
			engine.challenges = NewMemoryChallengeStore(cfg.TwoFactor.MaxAttempts)
		}
	}

	engine.revocations = b.revocations
	if engine.revocations == nil {
		if b.redis != nil {
			engine.revocations = NewRedisRevocationList(b.redis, cfg.Revocation.RedisPrefix)
		} else {
			engine.revocations = NewMemoryRevocationList()
		}
	}

	engine.delivery = b.delivery
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	decoyHash, err := ph.Hash(decoyPassword)
	if err != nil {
		return nil, err
	}
	engine.decoyHash = decoyHash

	jm, err := jwt.NewManager(jwt.Config{
		SessionTTL:    cfg.JWT.SessionTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	b.built = true

	return engine, nil
}
