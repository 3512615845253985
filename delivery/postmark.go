package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	gatekit "github.com/gatekit/gatekit"
)

// ErrDeliveryFailed is an exported constant or variable used by the authentication engine.
var ErrDeliveryFailed = errors.New("code delivery failed")

// PostmarkConfig defines a public type used by gatekit APIs.
//
// PostmarkConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	SenderEmail  string
	Subject      string
	Tag          string
}

// PostmarkSender delivers one-time codes as transactional email through the
// Postmark API.
type PostmarkSender struct {
	client *postmark.Client
	config PostmarkConfig
}

// NewPostmarkSender describes the newpostmarksender operation and its observable behavior.
//
// NewPostmarkSender may return an error when input validation, dependency calls, or security checks fail.
// NewPostmarkSender does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewPostmarkSender(cfg PostmarkConfig) (*PostmarkSender, error) {
	if cfg.ServerToken == "" {
		return nil, errors.New("postmark server token required")
	}
	if cfg.AccountToken == "" {
		return nil, errors.New("postmark account token required")
	}
	if _, err := gatekit.ParseEmailAddress(cfg.SenderEmail); err != nil {
		return nil, errors.New("postmark sender email invalid")
	}
	if cfg.Subject == "" {
		cfg.Subject = "Your sign-in code"
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}, nil
}

// Deliver describes the deliver operation and its observable behavior.
//
// Deliver may return an error when input validation, dependency calls, or security checks fail.
// Deliver does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *PostmarkSender) Deliver(ctx context.Context, recipient gatekit.EmailAddress, code gatekit.OneTimeCode) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.config.SenderEmail,
		To:       recipient.String(),
		Subject:  s.config.Subject,
		Tag:      s.config.Tag,
		TextBody: fmt.Sprintf("Your sign-in code is %s. It expires shortly.", code.Reveal()),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrDeliveryFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
