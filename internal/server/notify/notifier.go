// Package notify delivers account email events (activation links, password
// reset links) to the out-of-process mailer.
package notify

import "context"

// Event kinds understood by the mailer.
const (
	KindActivation    = "activation"
	KindPasswordReset = "password_reset"
)

// EmailEvent is the message published for every token that has to reach the
// user by email. The token travels only over the internal queue; it is never
// logged.
type EmailEvent struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Notifier publishes email events. Implementations must be safe for
// concurrent use.
type Notifier interface {
	// ActivationRequested announces a freshly issued activation token.
	ActivationRequested(ctx context.Context, email, token string) error

	// PasswordResetRequested announces a freshly issued password reset token.
	PasswordResetRequested(ctx context.Context, email, token string) error
}

// Nop discards all events. Used in tests and in deployments without a mailer.
type Nop struct{}

func (Nop) ActivationRequested(ctx context.Context, email, token string) error { return nil }

func (Nop) PasswordResetRequested(ctx context.Context, email, token string) error { return nil }
