package gatekit

import (
	"errors"
	"time"
)

// Config defines a public type used by gatekit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT        JWTConfig
	TwoFactor  TwoFactorConfig
	Revocation RevocationConfig
	Password   PasswordConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// JWTConfig defines a public type used by gatekit APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	SessionTTL    time.Duration
	SigningMethod string
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// TwoFactorConfig defines a public type used by gatekit APIs.
//
// TwoFactorConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TwoFactorConfig struct {
	CodeDigits   int
	ChallengeTTL time.Duration
	MaxAttempts  int
	RedisPrefix  string
}

// RevocationConfig defines a public type used by gatekit APIs.
//
// RevocationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RevocationConfig struct {
	RedisPrefix string
}

// PasswordConfig defines a public type used by gatekit APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// AuditConfig defines a public type used by gatekit APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by gatekit APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a [Config] populated with production-ready defaults.
// Callers adjust fields before passing it to [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SessionTTL:    10 * time.Minute,
			SigningMethod: "ed25519",
		},
		TwoFactor: TwoFactorConfig{
			CodeDigits:   6,
			ChallengeTTL: 5 * time.Minute,
			MaxAttempts:  5,
			RedisPrefix:  "otc",
		},
		Revocation: RevocationConfig{
			RedisPrefix: "rvk",
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.JWT.SessionTTL <= 0 {
		return errors.New("JWT SessionTTL must be positive")
	}
	switch c.JWT.SigningMethod {
	case "hs256", "ed25519":
	default:
		return errors.New("JWT SigningMethod must be hs256 or ed25519")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2 minutes")
	}

	if c.TwoFactor.CodeDigits < 6 || c.TwoFactor.CodeDigits > 10 {
		return errors.New("TwoFactor CodeDigits must be between 6 and 10")
	}
	if c.TwoFactor.ChallengeTTL <= 0 {
		return errors.New("TwoFactor ChallengeTTL must be positive")
	}
	if c.TwoFactor.MaxAttempts < 1 {
		return errors.New("TwoFactor MaxAttempts must be >= 1")
	}
	if c.TwoFactor.RedisPrefix == "" {
		return errors.New("TwoFactor RedisPrefix must not be empty")
	}

	if c.Revocation.RedisPrefix == "" {
		return errors.New("Revocation RedisPrefix must not be empty")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be positive when audit is enabled")
	}

	return nil
}
