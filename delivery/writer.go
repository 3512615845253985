package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	gatekit "github.com/gatekit/gatekit"
)

// WriterSender writes each code as a JSON line to an io.Writer. Intended for
// local development; the code is in the clear, so never point it at anything
// that persists beyond a dev box.
type WriterSender struct {
	writer io.Writer
	mu     sync.Mutex
}

type writerSenderLine struct {
	Timestamp string `json:"timestamp"`
	Recipient string `json:"recipient"`
	Code      string `json:"code"`
}

// NewWriterSender describes the newwritersender operation and its observable behavior.
//
// NewWriterSender may return an error when input validation, dependency calls, or security checks fail.
// NewWriterSender does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{writer: w}
}

// Deliver describes the deliver operation and its observable behavior.
//
// Deliver may return an error when input validation, dependency calls, or security checks fail.
// Deliver does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *WriterSender) Deliver(_ context.Context, recipient gatekit.EmailAddress, code gatekit.OneTimeCode) error {
	if s == nil || s.writer == nil {
		return fmt.Errorf("%w: no writer configured", ErrDeliveryFailed)
	}

	data, err := json.Marshal(writerSenderLine{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Recipient: recipient.String(),
		Code:      code.Reveal(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}
