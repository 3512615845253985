package gatekit

import (
	"context"
	"errors"
	"time"

	"github.com/gatekit/gatekit/jwt"
)

// VerifyToken describes the verifytoken operation and its observable behavior.
//
// A token passes when its signature and time claims verify and it has not
// been revoked. Revoked tokens fail [ErrTokenRevoked] for the remainder of
// their validity window.
//
// VerifyToken may return an error when input validation, dependency calls, or security checks fail.
// VerifyToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	claims, err := e.parseSessionToken(token)
	if err != nil {
		e.metricInc(MetricVerifyRejected)
		e.emitAudit(ctx, auditEventTokenVerifyFailure, false, "", "", err, nil)
		return nil, err
	}

	revoked, err := e.revocations.IsRevoked(ctx, token)
	if err != nil {
		e.metricInc(MetricVerifyRejected)
		return nil, e.faultf("verify token: revocation lookup: %v", err)
	}
	if revoked {
		e.metricInc(MetricVerifyRejected)
		e.emitAudit(ctx, auditEventTokenVerifyFailure, false, claims.Subject, "", ErrTokenRevoked, nil)
		return nil, ErrTokenRevoked
	}

	email, err := ParseEmailAddress(claims.Subject)
	if err != nil {
		e.metricInc(MetricVerifyRejected)
		e.emitAudit(ctx, auditEventTokenVerifyFailure, false, claims.Subject, "", ErrTokenMalformed, nil)
		return nil, ErrTokenMalformed
	}

	identity, err := e.credentials.Lookup(ctx, email)
	if err != nil {
		e.metricInc(MetricVerifyRejected)
		if errors.Is(err, ErrStoreEmailNotFound) {
			// valid unrevoked token for an identity the directory no longer
			// knows: an out-of-band state change, not a caller mistake
			return nil, e.faultf("verify token: subject missing from credential store")
		}
		return nil, e.faultf("verify token: credential store lookup: %v", err)
	}

	e.metricInc(MetricVerifySuccess)
	e.metricObserve(MetricVerifyLatency, time.Since(start))

	identity.PasswordHash = ""
	return &identity, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout records the exact serialized token on the revocation list. A second
// logout of the same token fails [ErrTokenRevoked], exactly as verification
// does.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	claims, err := e.parseSessionToken(token)
	if err != nil {
		e.emitAudit(ctx, auditEventLogoutFailure, false, "", "", err, nil)
		return err
	}

	expiresAt := time.Now().Add(e.config.JWT.SessionTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	added, err := e.revocations.Revoke(ctx, token, expiresAt)
	if err != nil {
		return e.faultf("logout: revocation add: %v", err)
	}
	if !added {
		e.emitAudit(ctx, auditEventLogoutFailure, false, claims.Subject, "", ErrTokenRevoked, nil)
		return ErrTokenRevoked
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, claims.Subject, "", nil, nil)
	return nil
}

func (e *Engine) parseSessionToken(token string) (*jwt.SessionClaims, error) {
	if token == "" {
		return nil, ErrTokenMalformed
	}

	claims, err := e.jwtManager.ParseSession(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
