package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	gatekit "github.com/gatekit/gatekit"
)

type stubDelivery struct{}

func (stubDelivery) Deliver(context.Context, gatekit.EmailAddress, gatekit.OneTimeCode) error {
	return nil
}

func newGuardedEngine(t *testing.T) (*gatekit.Engine, string) {
	t.Helper()

	cfg := gatekit.DefaultConfig()
	cfg.JWT.SigningMethod = "hs256"
	cfg.JWT.PrivateKey = []byte("test-secret")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	engine, err := gatekit.New().
		WithConfig(cfg).
		WithDelivery(stubDelivery{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	err = engine.Register(context.Background(), gatekit.RegisterRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	outcome, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	return engine, outcome.Token
}

func guardedHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("expected identity in request context")
			http.Error(w, "no identity", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(identity.Email.String()))
	})
}

func TestGuardAllowsValidToken(t *testing.T) {
	engine, token := newGuardedEngine(t)

	handler := Guard(engine)(guardedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "alice@example.com" {
		t.Fatalf("expected identity email in response, got %q", rec.Body.String())
	}
}

func TestGuardRejectsMissingOrBadAuthorization(t *testing.T) {
	engine, token := newGuardedEngine(t)
	handler := Guard(engine)(guardedHandler(t))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer garbage"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestGuardRejectsRevokedToken(t *testing.T) {
	engine, token := newGuardedEngine(t)
	handler := Guard(engine)(guardedHandler(t))

	if err := engine.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked token, got %d", rec.Code)
	}
}

func TestGuardRejectsNilEngine(t *testing.T) {
	handler := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler must not run without an engine")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
