package gatekit

import (
	"context"
	"errors"
	"time"
)

// Authenticate describes the authenticate operation and its observable behavior.
//
// Unknown email and wrong password are indistinguishable to the caller: both
// return [ErrIncorrectCredentials], and the unknown-email path verifies
// against a decoy hash so the two cost the same.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
// Authenticate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authenticate(ctx context.Context, rawEmail, rawPassword string) (*LoginOutcome, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	email, err := ParseEmailAddress(rawEmail)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_email",
			}
		})
		return nil, ErrInvalidInput
	}

	pw, err := ParsePassword(rawPassword)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, email.String(), "", ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_password",
			}
		})
		return nil, ErrInvalidInput
	}

	identity, err := e.credentials.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreEmailNotFound) {
			_, _ = e.passwordHash.Verify(pw.Reveal(), e.decoyHash)
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, email.String(), "", ErrIncorrectCredentials, func() map[string]string {
				return map[string]string{
					"reason": "unknown_email",
				}
			})
			return nil, ErrIncorrectCredentials
		}
		e.metricInc(MetricLoginFailure)
		return nil, e.faultf("authenticate: credential store lookup: %v", err)
	}

	ok, err := e.passwordHash.Verify(pw.Reveal(), identity.PasswordHash)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, e.faultf("authenticate: password verify: %v", err)
	}
	if !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, email.String(), "", ErrIncorrectCredentials, func() map[string]string {
			return map[string]string{
				"reason": "wrong_password",
			}
		})
		return nil, ErrIncorrectCredentials
	}

	if !identity.TwoFactor {
		token, err := e.jwtManager.CreateSession(email.String())
		if err != nil {
			e.metricInc(MetricLoginFailure)
			return nil, e.faultf("authenticate: session token: %v", err)
		}

		e.metricInc(MetricLoginSuccess)
		e.emitAudit(ctx, auditEventLoginSuccess, true, email.String(), "", nil, nil)
		return &LoginOutcome{Token: token}, nil
	}

	return e.issueChallenge(ctx, email)
}

// issueChallenge writes the challenge slot first and dispatches the code
// after; delivery runs with no store lock held. A re-login overwrites any
// pending slot for the email.
func (e *Engine) issueChallenge(ctx context.Context, email EmailAddress) (*LoginOutcome, error) {
	challengeID := NewChallengeID()

	code, err := NewOneTimeCode(e.config.TwoFactor.CodeDigits)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, e.faultf("authenticate: code generation: %v", err)
	}

	now := time.Now()
	record := ChallengeRecord{
		ChallengeID: challengeID.String(),
		CodeDigest:  code.Digest(),
		IssuedAt:    now,
		ExpiresAt:   now.Add(e.config.TwoFactor.ChallengeTTL),
	}

	if err := e.challenges.Put(ctx, email, record); err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, e.faultf("authenticate: challenge store put: %v", err)
	}

	if e.delivery == nil {
		e.metricInc(MetricDeliveryFailure)
		return nil, e.faultf("authenticate: code delivery unconfigured")
	}
	if err := e.delivery.Deliver(ctx, email, code); err != nil {
		e.metricInc(MetricDeliveryFailure)
		e.emitAudit(ctx, auditEventCodeDeliveryFailure, false, email.String(), challengeID.String(), err, nil)
		return nil, e.faultf("authenticate: code delivery: %v", err)
	}

	e.metricInc(MetricChallengeIssued)
	e.emitAudit(ctx, auditEventChallengeIssued, true, email.String(), challengeID.String(), nil, nil)
	return &LoginOutcome{
		TwoFactorRequired: true,
		ChallengeID:       challengeID.String(),
	}, nil
}
