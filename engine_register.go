package gatekit

import (
	"context"
	"errors"
	"fmt"
)

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	email, err := ParseEmailAddress(req.Email)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", "", ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_email",
			}
		})
		return ErrInvalidInput
	}

	pw, err := ParsePassword(req.Password)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, email.String(), "", ErrInvalidInput, func() map[string]string {
			return map[string]string{
				"reason": "invalid_password",
			}
		})
		return ErrInvalidInput
	}

	passwordHash, err := e.passwordHash.Hash(pw.Reveal())
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, email.String(), "", err, func() map[string]string {
			return map[string]string{
				"reason": "hash_failed",
			}
		})
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	err = e.credentials.Create(ctx, Identity{
		Email:        email,
		PasswordHash: passwordHash,
		TwoFactor:    req.TwoFactor,
	})
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, email.String(), "", ErrAccountExists, nil)
			return ErrAccountExists
		}
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, email.String(), "", err, func() map[string]string {
			return map[string]string{
				"reason": "store_create_failed",
			}
		})
		return e.faultf("register: credential store create: %v", err)
	}

	req.Password = ""
	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, email.String(), "", nil, func() map[string]string {
		return map[string]string{
			"two_factor": fmt.Sprintf("%t", req.TwoFactor),
		}
	})
	return nil
}
