package gatekit

import (
	"fmt"
	"log"
	"time"

	"github.com/gatekit/gatekit/jwt"
	"github.com/gatekit/gatekit/password"
)

// Engine is the credential/session lifecycle engine. Construct it through
// [Builder.Build]; the zero value is not usable. All methods are safe for
// concurrent use.
type Engine struct {
	config Config

	credentials CredentialStore
	challenges  ChallengeStore
	revocations RevocationList
	delivery    CodeDelivery

	jwtManager   *jwt.Manager
	passwordHash *password.Argon2
	decoyHash    string

	audit   *auditDispatcher
	metrics *Metrics
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.credentials != nil &&
		e.challenges != nil &&
		e.revocations != nil &&
		e.jwtManager != nil &&
		e.passwordHash != nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// faultf records a service fault. These are the only failures the engine
// logs; caller errors surface through the sentinel taxonomy alone.
func (e *Engine) faultf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	log.Printf("gatekit: %v", err)
	return fmt.Errorf("%w: %v", ErrUnexpected, err)
}

// Close drains and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded due to
// dispatcher backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}
