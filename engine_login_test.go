package gatekit

import (
	"context"
	"errors"
	"testing"
)

func TestAuthenticateWithoutTwoFactorReturnsToken(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)

	outcome, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if outcome.TwoFactorRequired {
		t.Fatal("expected no challenge for single-factor account")
	}
	if outcome.Token == "" {
		t.Fatal("expected session token")
	}
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)

	outcome, err := engine.Authenticate(context.Background(), " Alice@EXAMPLE.com ", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if outcome.Token == "" {
		t.Fatal("expected session token")
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	_, err := engine.Authenticate(context.Background(), "nobody@example.com", "correct-horse")
	if !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)

	_, err := engine.Authenticate(context.Background(), "alice@example.com", "wrong-password")
	if !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricLoginFailure]; got != 1 {
		t.Fatalf("expected 1 login failure, got %d", got)
	}
}

func TestAuthenticateRejectsInvalidInput(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	if _, err := engine.Authenticate(context.Background(), "not-an-email", "correct-horse"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad email, got %v", err)
	}
	if _, err := engine.Authenticate(context.Background(), "alice@example.com", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestAuthenticateWithTwoFactorIssuesChallenge(t *testing.T) {
	cfg := testConfig()
	engine, delivery, _, done := newTestEngine(t, cfg)
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", true)

	outcome, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !outcome.TwoFactorRequired {
		t.Fatal("expected two-factor challenge")
	}
	if outcome.Token != "" {
		t.Fatal("expected no token before challenge confirmation")
	}
	if outcome.ChallengeID == "" {
		t.Fatal("expected challenge ID")
	}
	if _, err := ParseChallengeID(outcome.ChallengeID); err != nil {
		t.Fatalf("expected UUID challenge ID, got %q", outcome.ChallengeID)
	}

	code := delivery.lastCode(t)
	if len(code) != cfg.TwoFactor.CodeDigits {
		t.Fatalf("expected %d-digit code, got %q", cfg.TwoFactor.CodeDigits, code)
	}
	if delivery.recipients[len(delivery.recipients)-1] != "alice@example.com" {
		t.Fatalf("expected code delivered to account email, got %q", delivery.recipients[len(delivery.recipients)-1])
	}
}

func TestAuthenticateChallengeStoredInRedis(t *testing.T) {
	engine, _, mr, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", true)

	if _, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !mr.Exists("otc:alice@example.com") {
		t.Fatal("expected challenge key in redis")
	}
}

func TestAuthenticateReloginReplacesChallenge(t *testing.T) {
	engine, delivery, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", true)

	first, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("first Authenticate failed: %v", err)
	}
	firstCode := delivery.lastCode(t)

	second, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("second Authenticate failed: %v", err)
	}
	if second.ChallengeID == first.ChallengeID {
		t.Fatal("expected a fresh challenge ID per login")
	}

	// The first challenge is gone; confirming it must fail.
	if _, err := engine.ConfirmChallenge(context.Background(), "alice@example.com", first.ChallengeID, firstCode); err == nil {
		t.Fatal("expected stale challenge confirmation to fail")
	}

	// The latest pair still works.
	outcome, err := engine.ConfirmChallenge(context.Background(), "alice@example.com", second.ChallengeID, delivery.lastCode(t))
	if err != nil {
		t.Fatalf("ConfirmChallenge failed: %v", err)
	}
	if outcome.Token == "" {
		t.Fatal("expected session token after confirmation")
	}
}

func TestAuthenticateDeliveryFailureSurfacesAsUnexpected(t *testing.T) {
	engine, delivery, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", true)

	delivery.failWith = errors.New("smtp down")

	_, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected ErrUnexpected, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricDeliveryFailure]; got != 1 {
		t.Fatalf("expected 1 delivery failure, got %d", got)
	}
}
