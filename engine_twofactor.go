package gatekit

import (
	"context"
	"errors"
)

// ConfirmChallenge describes the confirmchallenge operation and its observable behavior.
//
// Confirmation requires the exact (challenge ID, code) pair issued by
// [Engine.Authenticate]. A matched pair consumes the slot: confirming the
// same code twice fails [ErrChallengeNotFound].
//
// ConfirmChallenge may return an error when input validation, dependency calls, or security checks fail.
// ConfirmChallenge does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ConfirmChallenge(ctx context.Context, rawEmail, rawChallengeID, rawCode string) (*LoginOutcome, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	email, err := ParseEmailAddress(rawEmail)
	if err != nil {
		e.metricInc(MetricChallengeFailure)
		e.emitAudit(ctx, auditEventChallengeFailure, false, "", "", ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_email",
			}
		})
		return nil, ErrInvalidInput
	}

	challengeID, err := ParseChallengeID(rawChallengeID)
	if err != nil {
		e.metricInc(MetricChallengeFailure)
		e.emitAudit(ctx, auditEventChallengeFailure, false, email.String(), "", ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_challenge_id",
			}
		})
		return nil, ErrInvalidInput
	}

	code, err := ParseOneTimeCode(rawCode, e.config.TwoFactor.CodeDigits)
	if err != nil {
		e.metricInc(MetricChallengeFailure)
		e.emitAudit(ctx, auditEventChallengeFailure, false, email.String(), challengeID.String(), ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_code",
			}
		})
		return nil, ErrInvalidInput
	}

	_, err = e.challenges.Consume(ctx, email, challengeID.String(), code.Digest())
	if err != nil {
		switch {
		case errors.Is(err, ErrChallengeNotFound):
			e.metricInc(MetricChallengeFailure)
			e.emitAudit(ctx, auditEventChallengeFailure, false, email.String(), challengeID.String(), ErrChallengeNotFound, nil)
			return nil, ErrChallengeNotFound
		case errors.Is(err, ErrChallengeMismatch):
			e.metricInc(MetricChallengeFailure)
			e.emitAudit(ctx, auditEventChallengeFailure, false, email.String(), challengeID.String(), ErrChallengeMismatch, nil)
			return nil, ErrChallengeMismatch
		case errors.Is(err, ErrChallengeAttempts):
			e.metricInc(MetricChallengeAttemptsExceeded)
			e.emitAudit(ctx, auditEventChallengeFailure, false, email.String(), challengeID.String(), ErrChallengeAttempts, nil)
			return nil, ErrChallengeAttempts
		default:
			e.metricInc(MetricChallengeFailure)
			return nil, e.faultf("confirm challenge: challenge store consume: %v", err)
		}
	}

	token, err := e.jwtManager.CreateSession(email.String())
	if err != nil {
		e.metricInc(MetricChallengeFailure)
		return nil, e.faultf("confirm challenge: session token: %v", err)
	}

	e.metricInc(MetricChallengeConfirmed)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventChallengeConfirmed, true, email.String(), challengeID.String(), nil, nil)
	return &LoginOutcome{Token: token}, nil
}
