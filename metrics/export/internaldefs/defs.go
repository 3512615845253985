package internaldefs

import (
	gatekit "github.com/gatekit/gatekit"
)

// CounterDef defines a public type used by gatekit APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   gatekit.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by gatekit APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   gatekit.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: gatekit.MetricRegisterSuccess, Name: "gatekit_register_success_total", Help: "Successful registrations."},
	{ID: gatekit.MetricRegisterDuplicate, Name: "gatekit_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: gatekit.MetricRegisterFailure, Name: "gatekit_register_failure_total", Help: "Failed registrations."},
	{ID: gatekit.MetricLoginSuccess, Name: "gatekit_login_success_total", Help: "Completed logins, with or without a second factor."},
	{ID: gatekit.MetricLoginFailure, Name: "gatekit_login_failure_total", Help: "Failed login attempts."},
	{ID: gatekit.MetricChallengeIssued, Name: "gatekit_challenge_issued_total", Help: "Two-factor challenges issued."},
	{ID: gatekit.MetricChallengeConfirmed, Name: "gatekit_challenge_confirmed_total", Help: "Two-factor challenges confirmed."},
	{ID: gatekit.MetricChallengeFailure, Name: "gatekit_challenge_failure_total", Help: "Failed two-factor confirmations."},
	{ID: gatekit.MetricChallengeAttemptsExceeded, Name: "gatekit_challenge_attempts_exceeded_total", Help: "Challenges invalidated due to the attempt cap."},
	{ID: gatekit.MetricDeliveryFailure, Name: "gatekit_delivery_failure_total", Help: "One-time code delivery failures."},
	{ID: gatekit.MetricVerifySuccess, Name: "gatekit_verify_success_total", Help: "Tokens that passed verification."},
	{ID: gatekit.MetricVerifyRejected, Name: "gatekit_verify_rejected_total", Help: "Tokens rejected by verification."},
	{ID: gatekit.MetricLogout, Name: "gatekit_logout_total", Help: "Logout operations."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: gatekit.MetricVerifyLatency, Name: "gatekit_verify_latency_seconds", Help: "Token verification latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
