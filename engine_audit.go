package gatekit

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventRegisterSuccess     = "register_success"
	auditEventRegisterDuplicate   = "register_duplicate"
	auditEventRegisterFailure     = "register_failure"
	auditEventLoginSuccess        = "login_success"
	auditEventLoginFailure        = "login_failure"
	auditEventChallengeIssued     = "challenge_issued"
	auditEventChallengeConfirmed  = "challenge_confirmed"
	auditEventChallengeFailure    = "challenge_failure"
	auditEventCodeDeliveryFailure = "code_delivery_failure"
	auditEventTokenVerifyFailure  = "token_verify_failure"
	auditEventLogout              = "logout"
	auditEventLogoutFailure       = "logout_failure"
)

// AuditErrorCode defines a public type used by gatekit APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidInput         AuditErrorCode = "invalid_input"
	auditErrIncorrectCredentials AuditErrorCode = "incorrect_credentials"
	auditErrDuplicate            AuditErrorCode = "duplicate"
	auditErrChallengeNotFound    AuditErrorCode = "challenge_not_found"
	auditErrChallengeMismatch    AuditErrorCode = "challenge_mismatch"
	auditErrAttemptsExceeded     AuditErrorCode = "attempts_exceeded"
	auditErrTokenMalformed       AuditErrorCode = "token_malformed"
	auditErrTokenExpired         AuditErrorCode = "token_expired"
	auditErrTokenRevoked         AuditErrorCode = "token_revoked"
	auditErrInternal             AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	email string,
	challengeID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		Email:       email,
		ChallengeID: challengeID,
		IP:          clientIPFromContext(ctx),
		UserAgent:   userAgentFromContext(ctx),
		Success:     success,
		Metadata:    metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return auditErrInvalidInput
	case errors.Is(err, ErrIncorrectCredentials):
		return auditErrIncorrectCredentials
	case errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrStoreDuplicateEmail):
		return auditErrDuplicate
	case errors.Is(err, ErrChallengeNotFound):
		return auditErrChallengeNotFound
	case errors.Is(err, ErrChallengeMismatch):
		return auditErrChallengeMismatch
	case errors.Is(err, ErrChallengeAttempts):
		return auditErrAttemptsExceeded
	case errors.Is(err, ErrTokenMalformed):
		return auditErrTokenMalformed
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrTokenRevoked):
		return auditErrTokenRevoked
	default:
		return auditErrInternal
	}
}
