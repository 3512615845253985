package gatekit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func loginForToken(t *testing.T, engine *Engine, email string) string {
	t.Helper()

	outcome, err := engine.Authenticate(context.Background(), email, "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if outcome.Token == "" {
		t.Fatal("expected session token")
	}
	return outcome.Token
}

func TestVerifyTokenSuccess(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)
	token := loginForToken(t, engine, "alice@example.com")

	identity, err := engine.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if identity.Email.String() != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %q", identity.Email)
	}
	if identity.PasswordHash != "" {
		t.Fatal("expected password hash to be scrubbed from verify results")
	}
	if got := engine.MetricsSnapshot().Counters[MetricVerifySuccess]; got != 1 {
		t.Fatalf("expected 1 verify success, got %d", got)
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := engine.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", token, err)
		}
	}
}

func TestVerifyTokenTampered(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)
	token := loginForToken(t, engine, "alice@example.com")

	tampered := token[:len(token)-2] + "xx"
	if _, err := engine.VerifyToken(context.Background(), tampered); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for tampered token, got %v", err)
	}
}

func TestVerifyTokenSignedWithForeignKey(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	foreignCfg := testConfig()
	foreignCfg.JWT.PrivateKey = []byte("some-other-secret")
	foreign, _, _, foreignDone := newTestEngine(t, foreignCfg)
	defer foreignDone()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)
	registerUser(t, foreign, "alice@example.com", "correct-horse", false)

	token := loginForToken(t, foreign, "alice@example.com")
	if _, err := engine.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for foreign signature, got %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.SessionTTL = 10 * time.Millisecond
	engine, _, _, done := newTestEngine(t, cfg)
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)
	token := loginForToken(t, engine, "alice@example.com")

	time.Sleep(50 * time.Millisecond)

	if _, err := engine.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	engine, _, mr, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)
	token := loginForToken(t, engine, "alice@example.com")

	if err := engine.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	found := false
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, "rvk:") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected revocation key in redis")
	}

	if _, err := engine.VerifyToken(context.Background(), token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}
}

func TestLogoutTwiceFails(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)
	token := loginForToken(t, engine, "alice@example.com")

	if err := engine.Logout(context.Background(), token); err != nil {
		t.Fatalf("first Logout failed: %v", err)
	}
	if err := engine.Logout(context.Background(), token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked on second logout, got %v", err)
	}
}

func TestLogoutRejectsMalformedToken(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	if err := engine.Logout(context.Background(), "garbage"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestLogoutDoesNotAffectOtherSessions(t *testing.T) {
	engine, _, _, done := newTestEngine(t, testConfig())
	defer done()

	registerUser(t, engine, "alice@example.com", "correct-horse", false)

	first := loginForToken(t, engine, "alice@example.com")
	// Tokens issued at different times serialize differently.
	time.Sleep(1100 * time.Millisecond)
	second := loginForToken(t, engine, "alice@example.com")
	if first == second {
		t.Fatal("expected distinct tokens per login")
	}

	if err := engine.Logout(context.Background(), first); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := engine.VerifyToken(context.Background(), second); err != nil {
		t.Fatalf("expected second session to stay valid, got %v", err)
	}
}
